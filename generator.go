package autoswagger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Gobd/autoswagger/openapi"
	"github.com/Gobd/autoswagger/serverless"
)

type phase int

const (
	phaseNew phase = iota
	phaseTitled
	phaseDefined
	phasePathed
	phaseBuilt
)

var phaseNames = [...]string{"new", "title", "definitions", "paths", "built"}

func (p phase) String() string { return phaseNames[p] }

// Builder assembles a document in fixed phases: Title, Definitions, Paths,
// then Build. Each phase runs once and only after the previous one. The
// document is only handed out by Build, after which the builder refuses
// further use.
type Builder struct {
	doc   *openapi.Document
	phase phase
}

// NewBuilder returns a builder for a document with the settings of opts.
// Title is applied by the Title phase.
func NewBuilder(opts Options) *Builder {
	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}
	schemes := opts.Schemes
	if len(schemes) == 0 {
		schemes = DefaultSchemes
	}

	doc := openapi.DocBase("", version)
	doc.Host = opts.Host
	doc.BasePath = opts.BasePath
	doc.Schemes = append([]string(nil), schemes...)
	return &Builder{doc: doc}
}

func (b *Builder) advance(from phase) error {
	if b.phase == phaseBuilt {
		return ErrBuilt
	}
	if b.phase != from {
		return fmt.Errorf("%w: %s after %s", ErrPhaseOrder, phaseNames[from+1], b.phase)
	}
	b.phase = from + 1
	return nil
}

// Title sets the document title.
func (b *Builder) Title(title string) error {
	if err := b.advance(phaseNew); err != nil {
		return err
	}
	b.doc.Info.Title = title
	return nil
}

// Definitions sets the document definitions. A nil map is stored as empty.
func (b *Builder) Definitions(defs openapi.Definitions) error {
	if err := b.advance(phaseTitled); err != nil {
		return err
	}
	if defs == nil {
		defs = openapi.Definitions{}
	}
	b.doc.Definitions = defs
	return nil
}

// Paths sets the document paths. A nil map is stored as empty.
func (b *Builder) Paths(paths openapi.Paths) error {
	if err := b.advance(phaseDefined); err != nil {
		return err
	}
	if paths == nil {
		paths = openapi.Paths{}
	}
	b.doc.Paths = paths
	return nil
}

// Build returns the finished document.
func (b *Builder) Build() (*openapi.Document, error) {
	if err := b.advance(phasePathed); err != nil {
		return nil, err
	}
	doc := b.doc
	b.doc = nil
	return doc, nil
}

// Options are the document-level settings of a [Generator].
type Options struct {
	// Title overrides the service name as document title.
	Title    string
	Version  string
	Host     string
	BasePath string
	Schemes  []string
}

// DefaultVersion is the API version used when none is configured.
const DefaultVersion = "1.0.0"

// DefaultSchemes are the schemes used when none are configured.
var DefaultSchemes = []string{"https"}

// Generator produces the document of a deployment descriptor.
type Generator struct {
	resolver    *SchemaResolver
	synthesizer *PathSynthesizer
	opts        Options
	logger      *slog.Logger
}

// GeneratorOption configures a [Generator].
type GeneratorOption func(*Generator)

// WithOptions sets the document-level options.
func WithOptions(opts Options) GeneratorOption {
	return func(g *Generator) {
		g.opts = opts
	}
}

// WithSecurity sets the resolver of operation security requirements.
func WithSecurity(sec SecurityResolver) GeneratorOption {
	return func(g *Generator) {
		g.synthesizer.Security = sec
	}
}

// WithGeneratorLogger sets the logger used during generation.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
		g.synthesizer.Logger = logger
	}
}

// New returns a generator resolving definitions with resolver.
func New(resolver *SchemaResolver, opts ...GeneratorOption) *Generator {
	g := &Generator{
		resolver:    resolver,
		synthesizer: &PathSynthesizer{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the document of svc. Definitions are resolved before any
// path is synthesized.
func (g *Generator) Generate(ctx context.Context, svc *serverless.Service) (*openapi.Document, error) {
	b := NewBuilder(g.opts)

	title := g.opts.Title
	if title == "" {
		title = svc.Name
	}
	if err := b.Title(title); err != nil {
		return nil, err
	}

	defs := openapi.Definitions{}
	if g.resolver != nil {
		defs = g.resolver.Resolve(ctx)
	}
	g.logger.Info("definitions resolved", "count", len(defs))
	if err := b.Definitions(defs); err != nil {
		return nil, err
	}

	routes := Routes(svc)
	if err := CheckRoutes(routes); err != nil {
		g.logger.Warn("routes without documentation", "error", err)
	}
	paths := g.synthesizer.Synthesize(routes)
	g.logger.Info("paths synthesized", "routes", len(routes), "paths", len(paths))
	if err := b.Paths(paths); err != nil {
		return nil, err
	}

	return b.Build()
}
