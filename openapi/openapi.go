package openapi

import "strings"

// Version is the value of the swagger field of every generated document.
const Version = "2.0"

// MediaTypeJSON is the only media type generated operations consume and produce.
const MediaTypeJSON = "application/json"

type (
	// Document is the root of a Swagger 2.0 description.
	Document struct {
		Swagger     string      `json:"swagger"`
		Info        Info        `json:"info"`
		Host        string      `json:"host,omitempty"`
		BasePath    string      `json:"basePath,omitempty"`
		Schemes     []string    `json:"schemes,omitempty"`
		Paths       Paths       `json:"paths"`
		Definitions Definitions `json:"definitions"`
	}

	// Info carries the document title and version.
	Info struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	}

	// Paths maps normalized path templates to their operations.
	Paths map[string]PathItem

	// PathItem holds the operations of one path keyed by lower-case HTTP method.
	PathItem map[string]*Operation

	// Operation describes a single method on a path.
	Operation struct {
		Summary     string                `json:"summary"`
		Description string                `json:"description"`
		Tags        []string              `json:"tags,omitempty"`
		OperationID string                `json:"operationId"`
		Consumes    []string              `json:"consumes"`
		Produces    []string              `json:"produces"`
		Parameters  []*Parameter          `json:"parameters"`
		Responses   map[string]*Response  `json:"responses"`
		Security    []map[string][]string `json:"security,omitempty"`
	}

	// Parameter is a body or path parameter. Body parameters carry a Schema,
	// path parameters a primitive Type.
	Parameter struct {
		In          string     `json:"in"`
		Name        string     `json:"name"`
		Description string     `json:"description,omitempty"`
		Required    bool       `json:"required"`
		Type        string     `json:"type,omitempty"`
		Schema      *SchemaRef `json:"schema,omitempty"`
	}

	// Response is a single entry of an operation's responses.
	Response struct {
		Description string     `json:"description"`
		Schema      *SchemaRef `json:"schema,omitempty"`
	}

	// SchemaRef points at a named entry of the document definitions.
	SchemaRef struct {
		Ref string `json:"$ref"`
	}

	// Schema is a JSON-Schema-like definition. Generated code only ever
	// refers to it by name, so it stays an untyped object.
	Schema map[string]any

	// Definitions maps schema names to their definitions.
	Definitions map[string]Schema
)

// Parameter locations.
const (
	InBody = "body"
	InPath = "path"
)

// DefinitionsPrefix is the JSON pointer prefix of document definitions.
const DefinitionsPrefix = "#/definitions/"

// DocBase returns an empty Swagger 2.0 document with the given title and version.
func DocBase(title, version string) *Document {
	return &Document{
		Swagger:     Version,
		Info:        Info{Title: title, Version: version},
		Paths:       Paths{},
		Definitions: Definitions{},
	}
}

// AddPath registers op on the document at path and method.
func AddPath(doc *Document, path, method string, op *Operation) {
	if doc.Paths == nil {
		doc.Paths = Paths{}
	}
	doc.Paths.Add(path, method, op)
}

// Add registers op at path and method. The method is lower-cased; an
// existing operation on the same path and method is replaced.
func (p Paths) Add(path, method string, op *Operation) {
	item, ok := p[path]
	if !ok {
		item = PathItem{}
		p[path] = item
	}
	item[strings.ToLower(method)] = op
}

// Ref creates a reference to the named definition.
func Ref(name string) *SchemaRef {
	return &SchemaRef{Ref: DefinitionsPrefix + name}
}

// BodyParam creates the required body parameter referencing the named definition.
func BodyParam(typeName string) *Parameter {
	return &Parameter{
		In:          InBody,
		Name:        "body",
		Description: "Body required in the request",
		Required:    true,
		Schema:      Ref(typeName),
	}
}

// PathParam creates a string path parameter.
func PathParam(name string, required bool) *Parameter {
	return &Parameter{
		In:       InPath,
		Name:     name,
		Required: required,
		Type:     "string",
	}
}

// Disjunction reports whether the schema is an anyOf composition.
func (s Schema) Disjunction() bool {
	_, ok := s["anyOf"]
	return ok
}
