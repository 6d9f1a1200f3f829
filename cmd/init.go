package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmcampos/techexpert/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .techexpert.yml through an interactive wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			return fmt.Errorf("%s already exists; edit it or delete it first", config.DefaultPath)
		}

		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		if err := cfg.EnsureDataDir(); err != nil {
			return err
		}

		fmt.Println("\nNext steps:")
		fmt.Println("  techexpert ingest <docs-dir>   add documents to the knowledge base")
		fmt.Println("  techexpert serve               start the API server")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
