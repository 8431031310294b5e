package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"sigs.k8s.io/yaml"
)

// Format selects the serialization of a written document.
type Format string

// Supported output formats.
const (
	FormatJS   Format = "js"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported output format.
var Formats = []Format{FormatJS, FormatJSON, FormatYAML}

var jsModule = template.Must(template.New("module").Parse(
	"// Code generated by autoswagger. DO NOT EDIT.\n\nmodule.exports = {{.}};\n",
))

// Encode serializes doc in the given format.
func Encode(format Format, doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	switch format {
	case FormatJSON:
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.JSONToYAML(data)
	case FormatJS, "":
		var buf bytes.Buffer
		if err := jsModule.Execute(&buf, string(data)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Write encodes doc and writes it to path, replacing any previous content.
// Missing parent directories are created. It returns the number of bytes written.
func Write(path string, format Format, doc *Document) (int, error) {
	data, err := Encode(format, doc)
	if err != nil {
		return 0, err
	}
	return len(data), WriteFile(path, data)
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
