// Command autoswagger generates a Swagger 2.0 document from a serverless
// deployment descriptor and its type-definition files.
//
// Usage:
//
//	autoswagger generate [-c serverless.yml] [-config autoswagger.toml]
//	autoswagger serve [-c serverless.yml] [-config autoswagger.toml] [-addr :4000]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: autoswagger <command> [flags]

commands:
  generate   write the document and the augmented descriptor
  serve      generate, then serve the documentation locally
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			slog.Error("autoswagger failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	switch args[0] {
	case "generate":
		return runGenerate(ctx, args[1:], stderr)
	case "serve":
		return runServe(ctx, args[1:], stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stderr, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return errUsage
	}
}

type commonFlags struct {
	descriptor string
	config     string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.descriptor, "c", "serverless.yml", "path to the deployment descriptor")
	fs.StringVar(&c.config, "config", "autoswagger.toml", "path to the optional tool configuration")
}

func runGenerate(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	app, err := newApp(common, stderr)
	if err != nil {
		return err
	}
	_, err = app.generate(ctx)
	return err
}

func runServe(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	addr := fs.String("addr", ":4000", "listen address")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	app, err := newApp(common, stderr)
	if err != nil {
		return err
	}
	return app.serve(ctx, *addr)
}
