package autoswagger

import (
	"fmt"
	"strings"

	"github.com/Gobd/autoswagger/serverless"
)

// RouteDeclaration is one exposed operation: the owning function name and one
// of its HTTP triggers.
type RouteDeclaration struct {
	Name    string
	Trigger serverless.Trigger
}

// Routes collects the HTTP triggers of every function in svc. Functions are
// visited in lexical order and events in declaration order, so later entries
// win when two routes share a path and method.
func Routes(svc *serverless.Service) []RouteDeclaration {
	var routes []RouteDeclaration
	for _, name := range svc.FunctionNames() {
		fn := svc.Functions[name]
		if fn == nil {
			continue
		}
		for _, t := range fn.Triggers() {
			routes = append(routes, RouteDeclaration{Name: name, Trigger: t})
		}
	}
	return routes
}

// NormalizePath trims surrounding space and guarantees a leading slash.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// CheckRoutes reports every route that cannot be documented. Errors are keyed
// by function name and event position, such as "getUser[0]". Shorthand
// triggers are not reported. It returns nil when every route is usable.
func CheckRoutes(routes []RouteDeclaration) error {
	errs := ValidationErrors{}
	seen := map[string]int{}

	for _, route := range routes {
		key := fmt.Sprintf("%s[%d]", route.Name, seen[route.Name])
		seen[route.Name]++

		if route.Trigger.Kind == serverless.TriggerShorthand {
			continue
		}
		ev, ok := route.Trigger.Event()
		if !ok {
			errs[key] = route.Trigger.Err
			continue
		}
		if err := ev.Validate(); err != nil {
			errs[key] = err
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
