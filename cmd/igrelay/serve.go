package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"igrelay/internal/server"
	"igrelay/pkg/auth"
	"igrelay/pkg/config"
	"igrelay/pkg/instagram"
	"igrelay/pkg/logger"
	"igrelay/pkg/relay"

	"github.com/spf13/cobra"
)

var (
	servePort          int
	serveAllowedOrigin string
	serveTimeout       time.Duration
)

// serveCmd runs the normalizing relay
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the normalizing relay",
	Long: `Run the normalizing relay on PORT (default 5000).

Routes:
  GET /api/instagram-profile?username=
  GET /api/instagram-media?user_id=&end_cursor=
  GET /api/instagram-stories?user_id=
  GET /api/instagram-reels?user_id=&page_size=&max_id=
  GET /api/test
  GET /healthz

The session cookie and app id are read from the config file, the
INSTAGRAM_COOKIE and INSTAGRAM_APP_ID variables, or 'igrelay auth set'.`,
	Example: `  # Run with credentials from the environment
  INSTAGRAM_COOKIE='sessionid=...' INSTAGRAM_APP_ID=936619743392459 igrelay serve

  # Run on another port for a single front-end origin
  igrelay serve --port 8080 --allowed-origin http://localhost:5173`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default 5000)")
	serveCmd.Flags().StringVar(&serveAllowedOrigin, "allowed-origin", "", "CORS origin allowed to call the relay")
	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 0, "upstream request timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{}
	if cmd.Flags().Changed("port") {
		flags["port"] = servePort
	}
	if cmd.Flags().Changed("allowed-origin") {
		flags["allowed-origin"] = serveAllowedOrigin
	}
	if cmd.Flags().Changed("timeout") {
		flags["timeout"] = serveTimeout
	}

	cfg, log, err := bootstrap(flags)
	if err != nil {
		return err
	}

	creds := resolveCredentials(cfg, log)

	client := instagram.NewClient(cfg.Upstream.Timeout, log)
	svc := relay.NewService(
		client,
		instagram.NewSessionHeaders(cfg.Instagram.UserAgent, creds),
		instagram.Endpoints{APIBaseURL: cfg.Upstream.APIBaseURL, WebBaseURL: cfg.Upstream.WebBaseURL},
		log,
	)

	handler := server.NewRelayRouter(
		server.StackConfig{AllowedOrigin: cfg.Server.AllowedOrigin, AllowCredentials: true, Logger: log},
		svc,
		server.NewDiagnostic(creds.SessionCookie != "", creds.AppID != ""),
	)

	printer.Logo()
	printer.Info("Relay listening", fmtAddr(cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New("relay", cfg.Server.Port, handler, cfg.Server.ReadHeaderTimeout, log).Run(ctx)
}

// newCredentialManager opens the keychain and encrypted-file stores
var newCredentialManager = auth.NewManager

// resolveCredentials merges configured secrets with stored ones and reports
// what is missing. The relay still starts without them.
func resolveCredentials(cfg *config.Config, log logger.Logger) auth.Credentials {
	base := auth.Credentials{
		SessionCookie: cfg.Instagram.SessionCookie,
		AppID:         cfg.Instagram.AppID,
	}

	// config and env already cover both secrets; leave the stores untouched
	manager := auth.NewManagerWithStores()
	if !base.Complete() {
		var err error
		manager, err = newCredentialManager()
		if err != nil {
			log.WithError(err).Warn("credential stores unavailable, using environment only")
			manager = auth.NewManagerWithStores(auth.NewEnvironmentStore())
		}
	}

	res := manager.Resolve(base)

	log.InfoWithFields("credentials resolved", map[string]interface{}{
		"cookie_source": res.CookieSource,
		"app_id_source": res.AppIDSource,
	})
	if res.Credentials.SessionCookie == "" {
		log.Warn("INSTAGRAM_COOKIE is not set; upstream calls will be anonymous")
		printer.Warning("Session cookie not set", "run 'igrelay auth set' or export INSTAGRAM_COOKIE")
	}
	if res.Credentials.AppID == "" {
		log.Warn("INSTAGRAM_APP_ID is not set")
		printer.Warning("App id not set", "export INSTAGRAM_APP_ID")
	}

	return res.Credentials
}
