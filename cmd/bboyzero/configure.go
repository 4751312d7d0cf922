package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write a config file interactively",
	Long: `Write a config.yaml interactively.

You will be prompted for:
  - Supabase project URL and service-role key
  - Storage bucket for event images
  - Admin token for privileged API operations
  - Listen port and static asset directory

Secrets are written to the config file with 0600 permissions. Leave the
Supabase prompts empty to run the site in static-only mode.`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().String("output", "config.yaml", "path of the config file to write")
	rootCmd.AddCommand(configureCmd)
}

// fileConfig mirrors the viper configuration keys consumed by serve.
type fileConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Admin struct {
		Token string `yaml:"token"`
	} `yaml:"admin"`
	Supabase struct {
		URL        string `yaml:"url,omitempty"`
		ServiceKey string `yaml:"service_key,omitempty"`
		Bucket     string `yaml:"bucket"`
	} `yaml:"supabase"`
	Static struct {
		Root string `yaml:"root"`
	} `yaml:"static"`
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	if _, err := os.Stat(outputPath); err == nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists. Overwrite it", outputPath),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	urlPrompt := promptui.Prompt{
		Label: "Supabase project URL (empty for static-only)",
		Validate: func(input string) error {
			if input == "" {
				return nil
			}
			parsedURL, parseErr := url.Parse(input)
			if parseErr != nil {
				return fmt.Errorf("invalid URL: %w", parseErr)
			}
			if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
				return errors.New("URL must start with http:// or https://")
			}
			return nil
		},
	}
	supabaseURL, err := urlPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	var serviceKey string
	if supabaseURL != "" {
		keyPrompt := promptui.Prompt{
			Label: "Service-role key",
			Mask:  '*',
			Validate: func(input string) error {
				if input == "" {
					return errors.New("service-role key is required when a URL is set")
				}
				return nil
			},
		}
		serviceKey, err = keyPrompt.Run()
		if err != nil {
			return handlePromptError(err)
		}
	}

	bucketPrompt := promptui.Prompt{
		Label:   "Storage bucket",
		Default: "event-images",
	}
	bucket, err := bucketPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	tokenPrompt := promptui.Prompt{
		Label: "Admin token",
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return errors.New("admin token is required")
			}
			return nil
		},
	}
	adminToken, err := tokenPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	portPrompt := promptui.Prompt{
		Label:   "Listen port",
		Default: "3000",
		Validate: func(input string) error {
			port, convErr := strconv.Atoi(input)
			if convErr != nil || port < 1 || port > 65535 {
				return errors.New("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	port, _ := strconv.Atoi(portStr)

	rootPrompt := promptui.Prompt{
		Label:   "Static asset directory",
		Default: "./public",
	}
	staticRoot, err := rootPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	var cfg fileConfig
	cfg.Server.Port = port
	cfg.Admin.Token = adminToken
	cfg.Supabase.URL = supabaseURL
	cfg.Supabase.ServiceKey = serviceKey
	cfg.Supabase.Bucket = bucket
	cfg.Static.Root = staticRoot

	if err := writeConfigFile(outputPath, cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", outputPath)
	return nil
}

func writeConfigFile(path string, cfg fileConfig) error {
	cleanPath := filepath.Clean(path)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// the file holds secrets
	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return fmt.Errorf("prompt failed: %w", err)
}
