// Command example generates the document of the sample descriptor in this
// directory and serves it with the Swagger UI.
//
// Run:
//
//	go run ./_example
//
// Then open http://localhost:8080/swagger in your browser.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Gobd/autoswagger"
	"github.com/Gobd/autoswagger/serverless"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	dir := "_example"

	svc, err := serverless.Load(filepath.Join(dir, "serverless.yml"))
	if err != nil {
		logger.Error("failed to load descriptor", "error", err)
		os.Exit(1)
	}

	var opts struct {
		Title     string   `json:"title"`
		Version   string   `json:"version"`
		TypeFiles []string `json:"typefiles"`
	}
	if _, err := svc.Options("autoswagger", &opts); err != nil {
		logger.Error("failed to read options", "error", err)
		os.Exit(1)
	}
	for i, f := range opts.TypeFiles {
		opts.TypeFiles[i] = filepath.Join(dir, f)
	}

	resolver := autoswagger.NewSchemaResolver(opts.TypeFiles, autoswagger.WithLogger(logger))
	gen := autoswagger.New(resolver,
		autoswagger.WithOptions(autoswagger.Options{Title: opts.Title, Version: opts.Version}),
		autoswagger.WithGeneratorLogger(logger),
	)

	doc, err := gen.Generate(context.Background(), svc)
	if err != nil {
		logger.Error("failed to generate document", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	if err := autoswagger.Mount(mux, "swagger", doc); err != nil {
		logger.Error("failed to mount documentation", "error", err)
		os.Exit(1)
	}

	logger.Info("listening", "addr", "http://localhost:8080", "ui", "http://localhost:8080/swagger")
	if err := http.ListenAndServe(":8080", mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
