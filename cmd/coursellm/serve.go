package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/metalagman/coursellm/internal/config"
	"github.com/metalagman/coursellm/internal/db"
	"github.com/metalagman/coursellm/internal/pipeline"
	"github.com/metalagman/coursellm/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			app := newServeApp(cfg)
			if err := app.Err(); err != nil {
				return err
			}

			startCtx, cancel := context.WithTimeout(cmd.Context(), app.StartTimeout())
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return fmt.Errorf("start: %w", err)
			}

			select {
			case sig := <-app.Done():
				log.Info().Str("signal", sig.String()).Msg("shutting down")
			case <-cmd.Context().Done():
			}

			stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
			defer stopCancel()
			return app.Stop(stopCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

// newServeApp wires every component eagerly so configuration and provider
// errors surface before the listener opens.
func newServeApp(cfg config.Config, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		fx.WithLogger(func() fxevent.Logger { return fxLogger{} }),
		fx.Supply(cfg),
		fx.Provide(
			newProvider,
			pipeline.NewAssistant,
			pipeline.NewQuizPipeline,
			provideStore,
			provideServer,
			provideHTTPServer,
		),
		fx.Invoke(func(*http.Server) {}),
	}
	return fx.New(append(opts, extra...)...)
}

func provideStore(lc fx.Lifecycle, cfg config.Config) (db.DocumentStore, error) {
	store, err := openStore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func provideServer(cfg config.Config, a *pipeline.Assistant, q *pipeline.QuizPipeline, store db.DocumentStore) *server.Server {
	return server.New(a, q, store, server.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Debug:          debug,
	})
}

func provideHTTPServer(lc fx.Lifecycle, cfg config.Config, s *server.Server) *http.Server {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			srv.Addr = ln.Addr().String()
			log.Info().Str("addr", srv.Addr).Msg("http server listening")
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("http server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// fxLogger reports lifecycle events through zerolog.
type fxLogger struct{}

func (fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("hook", e.FunctionName).Msg("start hook failed")
			return
		}
		log.Debug().Str("hook", e.FunctionName).Dur("runtime", e.Runtime).Msg("start hook executed")
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("hook", e.FunctionName).Msg("stop hook failed")
		}
	case *fxevent.Provided:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("provide failed")
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("function", e.FunctionName).Msg("invoke failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("start failed")
		}
	}
}
