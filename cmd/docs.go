package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmcampos/techexpert/internal/db"
	"github.com/jmcampos/techexpert/internal/store"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage knowledge-base documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return err
		}
		defer database.Close()

		docs, err := store.New(database).List(cmd.Context())
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			fmt.Println("The knowledge base is empty. Add documents with `techexpert ingest`.")
			return nil
		}
		for _, d := range docs {
			fmt.Printf("%4d  %-40s  %s\n", d.ID, d.Filename, d.Timestamp.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a document from the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return err
		}
		defer database.Close()

		deleted, err := store.New(database).Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("document %d not found", id)
		}
		fmt.Printf("Deleted document %d\n", id)
		return nil
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}
