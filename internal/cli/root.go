// Package cli is the terminal presentation layer for the sync controller.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clublink/usersync/internal/core/ports"
	"github.com/clublink/usersync/internal/core/service"
	"github.com/clublink/usersync/internal/infrastructure/config"
	"github.com/clublink/usersync/internal/infrastructure/http/client"
	"github.com/clublink/usersync/internal/metrics"
	"github.com/clublink/usersync/internal/telemetry"
	"github.com/clublink/usersync/pkg/logger"
)

// app carries what every command needs once the root pre-run has finished.
type app struct {
	cfg     *config.Config
	baseURL string

	shutdownTracing func(context.Context) error

	// flag overrides
	baseURLFlag     string
	platformFlag    string
	pushgatewayFlag string
	yes             bool
}

// controller wires an HTTP client into a fresh sync controller.
func (a *app) controller(cmd *cobra.Command) *service.SyncController {
	confirm := promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
	if a.yes {
		confirm = ports.AlwaysConfirm
	}

	api := client.New(a.baseURL, logger.For("client"), client.WithTimeout(a.cfg.API.Timeout))
	return service.NewSyncController(api, confirm, logger.For("sync"))
}

// NewRootCommand builds the usersync command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "usersync",
		Short:        "Manage users of the Club Link test-db API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error loading .env file, skipping")
			}

			cfg, err := config.Load(commandContext(cmd))
			if err != nil {
				return err
			}
			if a.baseURLFlag != "" {
				cfg.API.BaseURL = a.baseURLFlag
			}
			if a.platformFlag != "" {
				cfg.API.Platform = a.platformFlag
			}
			if a.pushgatewayFlag != "" {
				cfg.Metrics.PushgatewayURL = a.pushgatewayFlag
			}

			a.cfg = cfg
			a.baseURL = cfg.API.ResolvedBaseURL()
			logger.Init(logger.Options{
				Level:  cfg.LogLevel,
				Pretty: cfg.IsDevelopment(),
				Output: cmd.ErrOrStderr(),
			})

			topts := telemetry.Options{
				ServiceName: cfg.Telemetry.ServiceName,
				Endpoint:    cfg.Telemetry.Endpoint,
			}
			if cfg.Telemetry.Stdout {
				topts.Writer = cmd.ErrOrStderr()
			}
			a.shutdownTracing, err = telemetry.NewProvider(commandContext(cmd), topts)
			return err
		},
	}

	root.PersistentFlags().StringVar(&a.baseURLFlag, "base-url", "", "API base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.platformFlag, "platform", "", "deployment target used to derive the base URL: ios or android")
	root.PersistentFlags().StringVar(&a.pushgatewayFlag, "pushgateway", "", "Prometheus Pushgateway URL for run metrics (overrides METRICS_PUSHGATEWAY_URL)")

	root.AddCommand(
		newHealthCommand(a),
		newListCommand(a),
		newCreateCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newRefreshCommand(a),
		newServeCommand(a),
	)

	// PersistentPostRun is skipped when RunE fails; failed runs still flush.
	for _, sub := range root.Commands() {
		if sub.RunE == nil {
			continue
		}
		run := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			a.flush(cmd)
			return err
		}
	}
	return root
}

// flush pushes run metrics and shuts tracing down. Failures are logged, not
// returned, so they never mask the command's own result.
func (a *app) flush(cmd *cobra.Command) {
	log := logger.For("cli")
	ctx := context.WithoutCancel(commandContext(cmd))

	if a.cfg != nil && a.cfg.Metrics.PushgatewayURL != "" {
		if err := metrics.PushSync(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job); err != nil {
			log.Warn().Err(err).Msg("metrics push failed")
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
