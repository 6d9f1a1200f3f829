package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jmcampos/techexpert/internal/budget"
	"github.com/jmcampos/techexpert/internal/chat"
	"github.com/jmcampos/techexpert/internal/db"
	"github.com/jmcampos/techexpert/internal/history"
	"github.com/jmcampos/techexpert/internal/retriever"
	"github.com/jmcampos/techexpert/internal/server"
	"github.com/jmcampos/techexpert/internal/store"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server for the chat UI",
	Long:  `Starts the API server the desktop UI talks to: chat, knowledge-base documents, and conversation history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if serveAllowAll {
			cfg.AllowAll = true
		}
		if err := cfg.EnsureDataDir(); err != nil {
			return err
		}

		ctx := cmd.Context()

		provider, err := createProviderFromConfig(ctx, cfg)
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return err
		}
		defer database.Close()

		docs := store.New(database)
		ret, err := retriever.New(docs)
		if err != nil {
			return err
		}

		var budgetOpts []budget.Option
		if cfg.MaxTokens > 0 {
			budgetOpts = append(budgetOpts, budget.WithMaxTokens(cfg.MaxTokens))
		}
		engine := chat.NewEngine(ret, budget.NewManager(provider, budgetOpts...), provider, docs,
			chat.WithDefaultUserName(cfg.UserName),
			chat.WithDefaultProfile(cfg.DefaultProfile),
		)

		hist := history.NewStore(cfg.HistoryPath())

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: cfg.AllowAll}, engine, docs, hist)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
