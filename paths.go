package autoswagger

import (
	"log/slog"
	"strings"

	"github.com/Gobd/autoswagger/openapi"
	"github.com/Gobd/autoswagger/serverless"
)

// PathSynthesizer turns route declarations into the document paths.
type PathSynthesizer struct {
	Security SecurityResolver
	Logger   *slog.Logger
}

// Synthesize builds the paths of every route with an object-shaped trigger.
// Shorthand and malformed triggers are skipped. When two routes share a path
// and method the later one wins.
func (p *PathSynthesizer) Synthesize(routes []RouteDeclaration) openapi.Paths {
	logger := p.logger()
	paths := openapi.Paths{}

	for _, route := range routes {
		if route.Trigger.Kind == serverless.TriggerShorthand {
			logger.Debug("skipping shorthand trigger",
				"function", route.Name,
				"trigger", route.Trigger.Shorthand,
			)
			continue
		}

		ev, ok := route.Trigger.Event()
		if !ok {
			logger.Debug("skipping malformed trigger", "function", route.Name, "error", route.Trigger.Err)
			continue
		}
		if err := ev.Validate(); err != nil {
			logger.Debug("skipping malformed trigger", "function", route.Name, "error", err)
			continue
		}

		paths.Add(NormalizePath(ev.Path), strings.TrimSpace(ev.Method), p.operation(route, ev))
	}
	return paths
}

func (p *PathSynthesizer) operation(route RouteDeclaration, ev *serverless.HTTPEvent) *openapi.Operation {
	return &openapi.Operation{
		Summary:     route.Name,
		Description: ev.Description,
		Tags:        ev.Tags,
		OperationID: route.Name,
		Consumes:    []string{openapi.MediaTypeJSON},
		Produces:    []string{openapi.MediaTypeJSON},
		Parameters:  ResolveParameters(ev),
		Responses:   FormatResponses(ev.Responses),
		Security:    p.security().Security(route),
	}
}

func (p *PathSynthesizer) security() SecurityResolver {
	if p.Security == nil {
		return NoSecurity{}
	}
	return p.Security
}

func (p *PathSynthesizer) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
