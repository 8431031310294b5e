package autoswagger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gobd/autoswagger/openapi"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"
)

// DefaultTypeFile is the type-definition source used when none is configured.
// It is a TypeScript file, so it is only converted when a converter for ".ts"
// or a fallback converter (such as a [CommandConverter]) is registered.
const DefaultTypeFile = "./src/types/api-types.d.ts"

// SchemaResolver converts type-definition sources into document definitions.
type SchemaResolver struct {
	sources       []string
	converters    map[string]Converter
	fallback      Converter
	maxSourceSize int64
	concurrency   int
	logger        *slog.Logger
}

// ResolverOption configures a [SchemaResolver].
type ResolverOption func(*SchemaResolver)

// WithConverter registers conv for sources with the given file extension
// (".ts", ".yml", ...). It replaces any converter already registered for it.
func WithConverter(ext string, conv Converter) ResolverOption {
	return func(r *SchemaResolver) {
		r.converters[strings.ToLower(ext)] = conv
	}
}

// WithFallbackConverter sets the converter used for unregistered extensions.
func WithFallbackConverter(conv Converter) ResolverOption {
	return func(r *SchemaResolver) {
		r.fallback = conv
	}
}

// WithMaxSourceSize limits the size in bytes of a single source. Zero means
// no limit.
func WithMaxSourceSize(n int64) ResolverOption {
	return func(r *SchemaResolver) {
		r.maxSourceSize = n
	}
}

// WithConcurrency limits how many sources are converted at once. Zero means
// all at once.
func WithConcurrency(n int) ResolverOption {
	return func(r *SchemaResolver) {
		r.concurrency = n
	}
}

// WithLogger sets the logger for per-source diagnostics.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *SchemaResolver) {
		r.logger = logger
	}
}

// NewSchemaResolver returns a resolver for sources, in merge order. An empty
// list resolves [DefaultTypeFile]. JSON and YAML sources use [SchemaConverter]
// unless overridden.
func NewSchemaResolver(sources []string, opts ...ResolverOption) *SchemaResolver {
	if len(sources) == 0 {
		sources = []string{DefaultTypeFile}
	}
	r := &SchemaResolver{
		sources: append([]string(nil), sources...),
		converters: map[string]Converter{
			".json": SchemaConverter{},
			".yml":  SchemaConverter{},
			".yaml": SchemaConverter{},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sources returns the configured sources in merge order.
func (r *SchemaResolver) Sources() []string {
	return append([]string(nil), r.sources...)
}

// Resolve converts every source concurrently and merges the results in source
// order; on a name collision the later source wins. A source that cannot be
// read or converted is logged and contributes nothing.
func (r *SchemaResolver) Resolve(ctx context.Context) openapi.Definitions {
	results := make([]openapi.Definitions, len(r.sources))

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, src := range r.sources {
		g.Go(func() error {
			defs, err := r.resolveSource(ctx, src)
			if errors.Is(err, ErrNoConverter) {
				r.logger.Warn("type source skipped", "source", src, "error", err,
					"hint", "register a converter for "+filepath.Ext(src)+" or set convert_command")
				return nil
			}
			if err != nil {
				r.logger.Warn("type source skipped", "source", src, "error", err)
				return nil
			}
			r.logger.Debug("type source resolved", "source", src, "definitions", len(defs))
			results[i] = defs
			return nil
		})
	}
	_ = g.Wait()

	defs := MergeDefinitions(results...)
	for name, schema := range defs {
		resolveDisjunction(r.logger, name, schema)
	}
	return defs
}

// MergeDefinitions merges sets in order. Later sets overwrite earlier entries
// with the same name.
func MergeDefinitions(sets ...openapi.Definitions) openapi.Definitions {
	merged := openapi.Definitions{}
	for _, set := range sets {
		for name, schema := range set {
			merged[name] = schema
		}
	}
	return merged
}

// resolveDisjunction only reports anyOf schemas; they are kept unchanged.
func resolveDisjunction(logger *slog.Logger, name string, schema openapi.Schema) {
	if schema.Disjunction() {
		logger.Debug("anyOf schema left unchanged", "definition", name)
	}
}

func (r *SchemaResolver) resolveSource(ctx context.Context, location string) (openapi.Definitions, error) {
	conv := r.converterFor(location)
	if conv == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoConverter, location)
	}

	data, err := r.read(location)
	if err != nil {
		return nil, err
	}

	out, err := conv.Convert(ctx, Source{Location: location, Data: data})
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	return decodeComponents(RewriteRefs(out))
}

func (r *SchemaResolver) converterFor(location string) Converter {
	if conv, ok := r.converters[strings.ToLower(filepath.Ext(location))]; ok {
		return conv
	}
	return r.fallback
}

func (r *SchemaResolver) read(location string) ([]byte, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	defer f.Close()

	if r.maxSourceSize <= 0 {
		return io.ReadAll(f)
	}

	data, err := io.ReadAll(io.LimitReader(f, r.maxSourceSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > r.maxSourceSize {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrSourceTooLarge, r.maxSourceSize)
	}
	return data, nil
}

// RewriteRefs points every converter reference at the document definitions.
// It works on the serialized text, before decoding.
func RewriteRefs(data []byte) []byte {
	return []byte(strings.ReplaceAll(string(data), ComponentsPrefix, openapi.DefinitionsPrefix))
}

func decodeComponents(data []byte) (openapi.Definitions, error) {
	var doc struct {
		Components struct {
			Schemas openapi.Definitions `json:"schemas"`
		} `json:"components"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode converted document: %w", err)
	}
	if doc.Components.Schemas == nil {
		return openapi.Definitions{}, nil
	}
	return doc.Components.Schemas, nil
}
