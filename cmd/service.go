package cmd

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/isometry/zoom-webhook-app/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "service",
		Short:       "Serve the webhook endpoint over HTTP",
		Aliases:     []string{"s", "serve", "standalone", "server"},
		Annotations: map[string]string{annotationMode: config.ModeService},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runService(cmd)
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)

	return cmd
}

func runService(cmd *cobra.Command) error {
	logger.Info("spawning...")
	rtm, err := setup(cmd)
	if err != nil {
		return err
	}

	logger.Debug("creating HTTP server...")
	h := http.NewServeMux()
	h.Handle(config.Service.Path, rtm)

	s := &http.Server{
		Handler:      h,
		Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
		WriteTimeout: config.Service.Timeout,
		ReadTimeout:  config.Service.Timeout,
		IdleTimeout:  config.Service.Timeout,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
		errCh <- s.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
