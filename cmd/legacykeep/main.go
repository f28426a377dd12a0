package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legacykeep/legacykeep-client/internal/auth/service"
	"github.com/legacykeep/legacykeep-client/internal/gateway"
	"github.com/legacykeep/legacykeep-client/internal/platform/config"
	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares once flags and env are resolved.
type app struct {
	cfg      config.ClientConfig
	gw       gateway.AuthGateway
	sessions *service.SessionStore
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var gatewayURL string
	var timeout time.Duration

	root := &cobra.Command{
		Use:          "legacykeep",
		Short:        "LegacyKeep account client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadDotEnv()
			a.cfg = config.LoadClientConfig()
			if cmd.Flags().Changed("gateway-url") {
				a.cfg.GatewayURL = gatewayURL
			}
			if cmd.Flags().Changed("timeout") {
				a.cfg.GatewayTimeout = timeout
			}
			if err := logger.Configure(a.cfg.LogLevel, a.cfg.LogFormat); err != nil {
				return err
			}
			a.gw = gateway.NewHTTPAuthGateway(a.cfg.GatewayURL, a.cfg.GatewayTimeout)
			a.sessions = service.NewSessionStore(nil)
			logger.Debug("Using auth gateway at %s", a.cfg.GatewayURL)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&gatewayURL, "gateway-url", "", "auth gateway base URL (overrides GATEWAY_URL)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout (overrides GATEWAY_TIMEOUT)")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newResetPasswordCmd(a),
		newPrefsCmd(a),
	)
	return root
}
