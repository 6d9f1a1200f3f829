package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmcampos/techexpert/internal/db"
	"github.com/jmcampos/techexpert/internal/ingest"
	"github.com/jmcampos/techexpert/internal/progress"
	"github.com/jmcampos/techexpert/internal/store"
)

var (
	ingestInclude []string
	ingestExclude []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-dir>...",
	Short: "Add .txt and .pdf documents to the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.EnsureDataDir(); err != nil {
			return err
		}

		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return err
		}
		defer database.Close()

		opts := ingest.Options{
			Include: append(cfg.Ingest.Include, ingestInclude...),
			Exclude: append(cfg.Ingest.Exclude, ingestExclude...),
		}

		ing := ingest.New(store.New(database))
		reporter := progress.NewReporter()
		ctx := cmd.Context()

		var total ingest.Summary
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return fmt.Errorf("accessing %s: %w", arg, err)
			}

			var summary ingest.Summary
			if info.IsDir() {
				summary, err = ing.Dir(ctx, arg, opts, reporter)
			} else {
				summary, err = ing.Paths(ctx, []string{arg}, reporter)
			}
			if err != nil {
				return err
			}
			total.Ingested += summary.Ingested
			total.Failed = append(total.Failed, summary.Failed...)
		}

		fmt.Printf("Ingested %d document(s)\n", total.Ingested)
		for _, f := range total.Failed {
			fmt.Fprintf(os.Stderr, "skipped %s: %v\n", f.Path, f.Err)
		}
		if total.Ingested == 0 && len(total.Failed) > 0 {
			return fmt.Errorf("no documents could be ingested")
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestInclude, "include", nil, "glob patterns to include (repeatable)")
	ingestCmd.Flags().StringSliceVar(&ingestExclude, "exclude", nil, "glob patterns to exclude (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}
