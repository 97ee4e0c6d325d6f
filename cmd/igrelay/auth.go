package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"igrelay/pkg/auth"
	"igrelay/pkg/config"
	"igrelay/pkg/instagram"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	authCookie string
	authAppID  string
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Instagram session used by the relay",
	Long: `Manage the Instagram session cookie and app id used by 'igrelay serve'.

Secrets are looked up in this order:
  - Config file and INSTAGRAM_COOKIE / INSTAGRAM_APP_ID
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation

Never share your session cookie!`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the session cookie and app id",
	Example: `  # Interactive, cookie input is hidden
  igrelay auth set

  # Non-interactive
  igrelay auth set --cookie 'sessionid=...; csrftoken=...' --app-id 936619743392459`,
	RunE: runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the relay's secrets come from",
	RunE:  runAuthStatus,
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove stored secrets from the keychain and encrypted file",
	RunE:  runAuthClear,
}

var authGuideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Explain how to copy the session cookie from a browser",
	Run: func(cmd *cobra.Command, args []string) {
		auth.WriteCookieGuide(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authClearCmd)
	authCmd.AddCommand(authGuideCmd)

	authSetCmd.Flags().StringVar(&authCookie, "cookie", "", "full Cookie header value")
	authSetCmd.Flags().StringVar(&authAppID, "app-id", "", "X-IG-App-ID value")
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	cookie := strings.TrimSpace(authCookie)
	if cookie == "" {
		auth.WriteCookieGuide(os.Stdout)
		fmt.Print("Cookie header (hidden): ")
		cookie, err = readSecret(reader)
		if err != nil {
			return fmt.Errorf("failed to read cookie: %w", err)
		}
	}
	if !strings.Contains(cookie, "sessionid=") {
		printer.Warning("Cookie has no sessionid entry", "Instagram will treat requests as logged out")
	}

	appID := strings.TrimSpace(authAppID)
	if appID == "" {
		fmt.Printf("X-IG-App-ID [%s]: ", instagram.PublicWebAppID)
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			return fmt.Errorf("failed to read app id: %w", err)
		}
		appID = strings.TrimSpace(input)
		if appID == "" {
			appID = instagram.PublicWebAppID
		}
	}

	store, err := manager.Save(&auth.Credentials{SessionCookie: cookie, AppID: appID})
	if err != nil {
		return err
	}

	printer.Success("Credentials stored in " + store)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	res := manager.Resolve(auth.Credentials{
		SessionCookie: cfg.Instagram.SessionCookie,
		AppID:         cfg.Instagram.AppID,
	})

	printSecret("Session cookie", res.Credentials.SessionCookie, res.CookieSource)
	printSecret("App id", res.Credentials.AppID, res.AppIDSource)

	if !res.Credentials.Complete() {
		return errors.New("relay is not fully configured")
	}
	return nil
}

func printSecret(label, value, source string) {
	if value == "" {
		printer.Warning(label, "not set")
		return
	}
	printer.Info(label, fmt.Sprintf("%s (from %s)", config.MaskSecret(value), source))
}

func runAuthClear(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Clear(); err != nil {
		return err
	}

	printer.Success("Stored credentials removed")
	if os.Getenv(auth.EnvSessionCookie) != "" {
		printer.Warning(auth.EnvSessionCookie + " is still set in the environment")
	}
	return nil
}

// readSecret reads a value from stdin without echoing when attached to a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
