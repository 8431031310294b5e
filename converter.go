package autoswagger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"sigs.k8s.io/yaml"
)

// ComponentsPrefix is the reference prefix converters emit for named schemas.
const ComponentsPrefix = "#/components/schemas/"

// Source is one type-definition source handed to a [Converter].
type Source struct {
	Location string
	Data     []byte
}

// Converter turns type-definition text into a serialized OpenAPI document
// (JSON or YAML) whose components.schemas holds the converted types. Internal
// references must point at [ComponentsPrefix].
type Converter interface {
	Convert(ctx context.Context, src Source) ([]byte, error)
}

// ConverterFunc adapts a function to [Converter].
type ConverterFunc func(ctx context.Context, src Source) ([]byte, error)

// Convert implements [Converter].
func (f ConverterFunc) Convert(ctx context.Context, src Source) ([]byte, error) {
	return f(ctx, src)
}

// SchemaConverter converts JSON or YAML schema files. It accepts an OpenAPI
// document with components.schemas, a JSON Schema bundle with definitions or
// $defs, or a single schema carrying a title.
type SchemaConverter struct{}

// Convert implements [Converter].
func (SchemaConverter) Convert(_ context.Context, src Source) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(src.Data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}
	if len(doc) == 0 {
		return nil, errors.New("empty schema file")
	}

	if components, ok := doc["components"].(map[string]any); ok {
		if _, ok := components["schemas"]; ok {
			return json.Marshal(doc)
		}
	}

	var schemas map[string]any
	switch {
	case isObject(doc["definitions"]):
		schemas = doc["definitions"].(map[string]any)
	case isObject(doc["$defs"]):
		schemas = doc["$defs"].(map[string]any)
	default:
		title, _ := doc["title"].(string)
		if title == "" {
			return nil, errors.New("no schema definitions found")
		}
		delete(doc, "$schema")
		schemas = map[string]any{title: doc}
	}

	out, err := json.Marshal(map[string]any{
		"components": map[string]any{"schemas": schemas},
	})
	if err != nil {
		return nil, err
	}

	local := strings.NewReplacer(
		`"#/definitions/`, `"`+ComponentsPrefix,
		`"#/$defs/`, `"`+ComponentsPrefix,
	)
	return []byte(local.Replace(string(out))), nil
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// FilePlaceholder is replaced with the source location in command arguments.
const FilePlaceholder = "{file}"

// CommandConverter runs an external conversion tool. The source text is
// written to the tool's stdin and its stdout is taken as the converted
// document. [FilePlaceholder] in any argument is replaced with the source
// location; without a placeholder the location is appended.
type CommandConverter struct {
	Command []string
}

// Convert implements [Converter].
func (c CommandConverter) Convert(ctx context.Context, src Source) ([]byte, error) {
	if len(c.Command) == 0 {
		return nil, ErrNoConverter
	}

	args := make([]string, 0, len(c.Command)+1)
	placed := false
	for _, arg := range c.Command {
		if strings.Contains(arg, FilePlaceholder) {
			arg = strings.ReplaceAll(arg, FilePlaceholder, src.Location)
			placed = true
		}
		args = append(args, arg)
	}
	if !placed {
		args = append(args, src.Location)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = bytes.NewReader(src.Data)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", args[0], err)
	}
	return out, nil
}
