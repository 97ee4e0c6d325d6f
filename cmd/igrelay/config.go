package main

import (
	"errors"
	"fmt"
	"os"

	"igrelay/pkg/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igrelay configuration.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (PORT, PROXY_PORT, INSTAGRAM_COOKIE, ...)
  - .env file in the working directory
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with secrets masked",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".igrelay.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	printer.Success("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your session with 'igrelay auth set' or set INSTAGRAM_COOKIE")
	fmt.Println("2. Run 'igrelay config validate'")
	fmt.Println("3. Start the relay with 'igrelay serve'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	printer.Highlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		printer.Error("Configuration validation failed")
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			for _, e := range joined.Unwrap() {
				fmt.Printf("  - %v\n", e)
			}
		}
		return err
	}

	if cfg.Instagram.SessionCookie == "" {
		printer.Warning("Session cookie not set in config or environment", "'igrelay auth status' also checks stored secrets")
	}

	printer.Success("Configuration is valid")
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Relay port: %d\n", cfg.Server.Port)
	fmt.Printf("  Proxy port: %d\n", cfg.Proxy.Port)
	fmt.Printf("  Upstream timeout: %s\n", cfg.Upstream.Timeout)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
