package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/clublink/usersync/internal/api"
	"github.com/clublink/usersync/internal/core/ports"
	"github.com/clublink/usersync/internal/core/service"
	"github.com/clublink/usersync/internal/infrastructure/db/memory"
	mongostore "github.com/clublink/usersync/internal/infrastructure/db/mongo"
	"github.com/clublink/usersync/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the sandbox test-db API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(commandContext(cmd), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	log := logger.For("sandbox")

	var store ports.UserStore = memory.NewUserStore()
	if a.cfg.Mongo.URI != "" {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      a.cfg.Mongo.URI,
			Database: a.cfg.Mongo.Database,
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect failed")
			}
		}()
		store = mongostore.NewUserStore(db)
		log.Info().Str("database", a.cfg.Mongo.Database).Msg("using mongo store")
	} else {
		log.Info().Msg("using in-memory store")
	}

	svc := service.NewUserService(store, logger.For("user_service"))
	e := api.NewRouter(svc, store, api.Options{
		Path:   a.cfg.Server.Path,
		Logger: logger.For("http"),
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           otelhttp.NewHandler(e, "sandbox"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("path", a.cfg.Server.Path).Msg("sandbox listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		return err
	}
	log.Info().Msg("sandbox stopped")
	return nil
}
