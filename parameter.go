package autoswagger

import (
	"slices"
	"strings"

	"github.com/Gobd/autoswagger/openapi"
	"github.com/Gobd/autoswagger/serverless"
)

// ResolveParameters derives the parameter list of one HTTP event.
//
// The body parameter, when a body type is declared, always comes first.
// Explicitly declared path parameters follow with their declared required
// flag, then every remaining template placeholder as a required parameter.
// Declared names missing from the template are emitted as well.
func ResolveParameters(ev *serverless.HTTPEvent) []*openapi.Parameter {
	params := []*openapi.Parameter{}
	if ev.BodyType != "" {
		params = append(params, openapi.BodyParam(ev.BodyType))
	}

	placeholders := PathPlaceholders(ev.Path)

	if declared, ok := ev.PathParameters(); ok {
		for _, name := range declaredOrder(declared, placeholders) {
			params = append(params, openapi.PathParam(name, bool(declared[name])))
		}
		placeholders = slices.DeleteFunc(placeholders, func(name string) bool {
			_, ok := declared[name]
			return ok
		})
	}

	for _, name := range placeholders {
		params = append(params, openapi.PathParam(name, true))
	}
	return params
}

// PathPlaceholders returns the distinct {name} placeholders of a path
// template in left-to-right order. Names are trimmed of surrounding space.
func PathPlaceholders(path string) []string {
	var names []string
	seen := map[string]bool{}

	for {
		open := strings.IndexByte(path, '{')
		if open < 0 {
			break
		}
		path = path[open+1:]

		end := strings.IndexAny(path, "{}")
		if end < 0 {
			break
		}
		if path[end] == '{' {
			continue
		}

		name := strings.TrimSpace(path[:end])
		path = path[end+1:]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// declaredOrder sorts declared names by template position; names absent from
// the template go last in lexical order.
func declaredOrder(declared map[string]serverless.ParamFlag, placeholders []string) []string {
	names := make([]string, 0, len(declared))
	for name := range declared {
		names = append(names, name)
	}

	pos := func(name string) int {
		if i := slices.Index(placeholders, name); i >= 0 {
			return i
		}
		return len(placeholders)
	}
	slices.SortFunc(names, func(a, b string) int {
		if pa, pb := pos(a), pos(b); pa != pb {
			return pa - pb
		}
		return strings.Compare(a, b)
	})
	return names
}
