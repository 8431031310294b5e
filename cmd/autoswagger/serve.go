package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gobd/autoswagger"
)

const shutdownTimeout = 5 * time.Second

// serve is the local development server trigger. It re-runs generation and
// route injection, then serves the documentation until ctx is done.
func (app *application) serve(ctx context.Context, addr string) error {
	doc, err := app.generate(ctx)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	if err := autoswagger.Mount(mux, app.config.SwaggerPath, doc); err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownError := make(chan error, 1)
	go func() {
		<-ctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownError <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info("serving documentation", "addr", addr, "path", autoswagger.NormalizePath(app.config.SwaggerPath))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownError
}
