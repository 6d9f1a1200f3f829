package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jmcampos/techexpert/internal/apikey"
)

var keyProvider string

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage provider API keys in the system keychain",
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyPrompt := promptui.Prompt{
			Label: fmt.Sprintf("%s API key", keyProvider),
			Mask:  '*',
		}
		key, err := keyPrompt.Run()
		if err != nil {
			return err
		}
		if err := apikey.Set(keyProvider, strings.TrimSpace(key)); err != nil {
			return err
		}
		fmt.Println("Key stored in the system keychain.")
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove a stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apikey.Delete(keyProvider); err != nil {
			return err
		}
		fmt.Println("Key removed.")
		return nil
	},
}

func init() {
	keyCmd.PersistentFlags().StringVar(&keyProvider, "provider", "gemini", "provider the key belongs to (gemini, openai)")
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
	rootCmd.AddCommand(keyCmd)
}
