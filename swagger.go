package autoswagger

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/Gobd/autoswagger/openapi"
)

//go:embed swagger/index.html
var swagFS embed.FS

// SwaggerHandler returns an http.Handler serving the Swagger UI for doc at
// prefix and the raw document at prefix + ".json". The prefix is stripped
// automatically; use [Mount] to register every route on a mux.
func SwaggerHandler(prefix string, doc *openapi.Document) (http.Handler, error) {
	prefix = strings.TrimSuffix(NormalizePath(prefix), "/")

	specJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(swagFS, "swagger/index.html")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Title": doc.Info.Title,
		"Docs":  template.JS(specJSON),
	})
	if err != nil {
		return nil, err
	}
	index := buf.Bytes()

	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "", "/":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(index)
		case ".json":
			w.Header().Set("Content-Type", openapi.MediaTypeJSON)
			_, _ = w.Write(specJSON)
		default:
			http.NotFound(w, r)
		}
	})), nil
}

// SwaggerHandlerMust is like SwaggerHandler but panics on error.
func SwaggerHandlerMust(prefix string, doc *openapi.Document) http.Handler {
	h, err := SwaggerHandler(prefix, doc)
	if err != nil {
		panic(err)
	}
	return h
}

// Mount registers the documentation routes for doc on mux, matching the
// routes of the injected documentation function.
func Mount(mux *http.ServeMux, swaggerPath string, doc *openapi.Document) error {
	prefix := strings.TrimSuffix(NormalizePath(swaggerPath), "/")
	h, err := SwaggerHandler(prefix, doc)
	if err != nil {
		return err
	}
	mux.Handle(prefix, h)
	mux.Handle(prefix+"/", h)
	mux.Handle(prefix+".json", h)
	return nil
}
