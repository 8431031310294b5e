package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Gobd/autoswagger"
	"github.com/Gobd/autoswagger/internal/config"
	"github.com/Gobd/autoswagger/openapi"
	"github.com/Gobd/autoswagger/serverless"
	"github.com/docker/go-units"
	"github.com/google/uuid"
)

type application struct {
	svc    *serverless.Service
	config *config.Config
	logger *slog.Logger
}

// newApp loads the descriptor and the configuration. Options in the
// descriptor's custom section take precedence over the configuration file.
func newApp(flags commonFlags, logOut io.Writer) (*application, error) {
	svc, err := serverless.Load(flags.descriptor)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}

	var opts config.Config
	if _, err := svc.Options(config.OptionsKey, &opts); err != nil {
		return nil, err
	}
	cfg.Merge(&opts)

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := cfg.Logging.NewLogger(logOut).With("run_id", uuid.NewString())

	return &application{svc: svc, config: cfg, logger: logger}, nil
}

// generate runs the three phases in order: gather type definitions and
// generate the document, write it, then inject the documentation route.
// Only a failed document write aborts the run before injection.
func (app *application) generate(ctx context.Context) (*openapi.Document, error) {
	cfg := app.config

	doc, err := autoswagger.New(app.resolver(),
		autoswagger.WithOptions(cfg.Options()),
		autoswagger.WithGeneratorLogger(app.logger),
	).Generate(ctx, app.svc)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	n, err := openapi.Write(cfg.Output, openapi.Format(cfg.Format), doc)
	if err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	app.logger.Info("document written",
		"path", cfg.Output,
		"format", cfg.Format,
		"size", units.HumanSize(float64(n)),
	)

	if cfg.OpenAPI3 != "" {
		if err := openapi.WriteOpenAPI3(ctx, cfg.OpenAPI3, doc); err != nil {
			app.logger.Warn("openapi3 companion skipped", "path", cfg.OpenAPI3, "error", err)
		} else {
			app.logger.Info("openapi3 companion written", "path", cfg.OpenAPI3)
		}
	}

	if err := app.inject(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (app *application) resolver() *autoswagger.SchemaResolver {
	cfg := app.config
	opts := []autoswagger.ResolverOption{
		autoswagger.WithMaxSourceSize(cfg.MaxSourceSizeBytes()),
		autoswagger.WithConcurrency(cfg.SourceConcurrency),
		autoswagger.WithLogger(app.logger),
	}
	if len(cfg.ConvertCommand) > 0 {
		opts = append(opts, autoswagger.WithFallbackConverter(
			autoswagger.CommandConverter{Command: cfg.ConvertCommand},
		))
	}
	return autoswagger.NewSchemaResolver(cfg.TypeFiles, opts...)
}

func (app *application) inject() error {
	cfg := app.config
	fn := serverless.DocsFunction(cfg.Handler, cfg.SwaggerPath)

	if err := app.svc.Inject(map[string]map[string]any{cfg.FunctionName: fn}); err != nil {
		return fmt.Errorf("inject documentation route: %w", err)
	}
	if err := app.svc.Write(cfg.DescriptorOutput); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	app.logger.Info("documentation route injected",
		"function", cfg.FunctionName,
		"path", cfg.SwaggerPath,
		"descriptor", cfg.DescriptorOutput,
	)
	return nil
}
