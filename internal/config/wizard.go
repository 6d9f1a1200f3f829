package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/jmcampos/techexpert/internal/apikey"
	"github.com/jmcampos/techexpert/internal/prompt"
)

// RunWizard runs an interactive configuration wizard, saves the resulting
// config to .techexpert.yml and optionally stores the API key in the
// system keychain.
func RunWizard() (*Config, error) {
	fmt.Println("Bem-vindo ao techexpert! Vamos configurar o assistente.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Fornecedor de geração",
		Items: []string{"gemini", "openai"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model, pre-filled with the provider default.
	modelPrompt := promptui.Prompt{
		Label:   "Modelo",
		Default: DefaultModel(cfg.Provider),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	// 3. User name used in prompts.
	namePrompt := promptui.Prompt{
		Label:   "O seu nome",
		Default: cfg.UserName,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("user name: %w", err)
	}
	cfg.UserName = name

	// 4. Default expert profile.
	profilePrompt := promptui.Select{
		Label: "Perfil de especialista por omissão",
		Items: prompt.ProfileNames,
	}
	_, profileName, err := profilePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("profile selection: %w", err)
	}
	cfg.DefaultProfile = profileName

	// 5. API key, stored in the keychain rather than the config file.
	keyPrompt := promptui.Prompt{
		Label: fmt.Sprintf("Chave da API %s (Enter para saltar)", cfg.Provider),
		Mask:  '*',
	}
	key, err := keyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api key: %w", err)
	}
	if strings.TrimSpace(key) != "" {
		if err := apikey.Set(string(cfg.Provider), key); err != nil {
			return nil, err
		}
		fmt.Println("Chave guardada no keychain do sistema.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultPath); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguração guardada em %s\n", DefaultPath)
	return cfg, nil
}
