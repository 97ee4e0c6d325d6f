package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"igrelay/internal/server"
	"igrelay/pkg/instagram"
	"igrelay/pkg/relay"

	"github.com/spf13/cobra"
)

var (
	proxyPort          int
	proxyAllowedOrigin string
)

// proxyCmd runs the generic proxy
var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the generic pass-through proxy",
	Long: `Run the generic proxy on PROXY_PORT (default 3001).

GET /proxy?url=<absolute url> fetches the URL with a fixed browser header
set and returns the upstream JSON body unchanged. No session cookie is sent.`,
	Example: `  igrelay proxy --port 3001
  curl 'http://localhost:3001/proxy?url=https://www.instagram.com/api/v1/users/web_profile_info/?username=nasa'`,
	RunE: runProxy,
}

func init() {
	rootCmd.AddCommand(proxyCmd)

	proxyCmd.Flags().IntVarP(&proxyPort, "port", "p", 0, "listen port (default 3001)")
	proxyCmd.Flags().StringVar(&proxyAllowedOrigin, "allowed-origin", "", "CORS origin allowed to call the proxy")
}

func runProxy(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{}
	if cmd.Flags().Changed("port") {
		flags["proxy-port"] = proxyPort
	}
	if cmd.Flags().Changed("allowed-origin") {
		flags["allowed-origin"] = proxyAllowedOrigin
	}

	cfg, log, err := bootstrap(flags)
	if err != nil {
		return err
	}

	forwarder := relay.NewProxy(instagram.NewClient(cfg.Upstream.Timeout, log), log)
	handler := server.NewProxyRouter(
		server.StackConfig{AllowedOrigin: cfg.Proxy.AllowedOrigin, Logger: log},
		forwarder,
	)

	printer.Logo()
	printer.Info("Proxy listening", fmtAddr(cfg.Proxy.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New("proxy", cfg.Proxy.Port, handler, cfg.Server.ReadHeaderTimeout, log).Run(ctx)
}

func fmtAddr(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
