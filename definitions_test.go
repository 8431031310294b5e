package autoswagger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobd/autoswagger/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_MergeLastWins(t *testing.T) {
	first := writeSource(t, "a.json", `{"components":{"schemas":{
		"Widget":{"type":"object","properties":{"id":{"type":"string"}}},
		"Gadget":{"type":"string"}}}}`)
	second := writeSource(t, "b.yaml", `
components:
  schemas:
    Widget:
      type: object
      properties:
        owner:
          $ref: '#/components/schemas/Owner'
    Owner:
      type: string
`)

	defs := NewSchemaResolver([]string{first, second}, WithLogger(quietLogger())).Resolve(context.Background())

	require.Len(t, defs, 3)
	assert.Equal(t, openapi.Schema{"type": "string"}, defs["Gadget"])
	assert.Equal(t, openapi.Schema{
		"type": "object",
		"properties": map[string]any{
			"owner": map[string]any{"$ref": "#/definitions/Owner"},
		},
	}, defs["Widget"])
}

func TestResolve_FailingSourceContributesNothing(t *testing.T) {
	good := writeSource(t, "good.json", `{"components":{"schemas":{"Widget":{"type":"object"}}}}`)
	missing := filepath.Join(t.TempDir(), "missing.json")
	broken := writeSource(t, "broken.json", `{not json`)
	unknown := writeSource(t, "types.d.ts", `export interface Widget {}`)

	r := NewSchemaResolver([]string{missing, good, broken, unknown}, WithLogger(quietLogger()))
	defs := r.Resolve(context.Background())

	assert.Equal(t, openapi.Definitions{"Widget": {"type": "object"}}, defs)
}

func TestResolve_AllFailing(t *testing.T) {
	r := NewSchemaResolver([]string{filepath.Join(t.TempDir(), "nope.json")}, WithLogger(quietLogger()))

	defs := r.Resolve(context.Background())
	assert.NotNil(t, defs)
	assert.Empty(t, defs)
}

func TestResolve_SourceTooLarge(t *testing.T) {
	src := writeSource(t, "big.json", `{"components":{"schemas":{"Widget":{"type":"object"}}}}`)

	r := NewSchemaResolver([]string{src}, WithMaxSourceSize(8), WithLogger(quietLogger()))
	_, err := r.resolveSource(context.Background(), src)
	require.ErrorIs(t, err, ErrSourceTooLarge)

	assert.Empty(t, r.Resolve(context.Background()))
}

func TestResolve_CustomConverter(t *testing.T) {
	src := writeSource(t, "api-types.d.ts", `export interface Widget { id: string }`)

	conv := ConverterFunc(func(_ context.Context, s Source) ([]byte, error) {
		assert.Equal(t, src, s.Location)
		assert.Contains(t, string(s.Data), "interface Widget")
		return []byte(`components:
  schemas:
    Widget:
      type: object
      properties:
        self:
          $ref: "#/components/schemas/Widget"
`), nil
	})

	defs := NewSchemaResolver([]string{src}, WithConverter(".ts", conv), WithLogger(quietLogger())).
		Resolve(context.Background())

	require.Contains(t, defs, "Widget")
	props := defs["Widget"]["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"$ref": "#/definitions/Widget"}, props["self"])
}

func TestResolve_Fallback(t *testing.T) {
	src := writeSource(t, "types.d.ts", `ignored`)
	conv := ConverterFunc(func(context.Context, Source) ([]byte, error) {
		return []byte(`{"components":{"schemas":{"Thing":{"type":"string"}}}}`), nil
	})

	defs := NewSchemaResolver([]string{src}, WithFallbackConverter(conv), WithConcurrency(1), WithLogger(quietLogger())).
		Resolve(context.Background())

	assert.Equal(t, openapi.Definitions{"Thing": {"type": "string"}}, defs)
}

func TestResolve_AnyOfUnchanged(t *testing.T) {
	src := writeSource(t, "union.json", `{"components":{"schemas":{
		"Pet":{"anyOf":[{"$ref":"#/components/schemas/Cat"},{"$ref":"#/components/schemas/Dog"}]}}}}`)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	defs := NewSchemaResolver([]string{src}, WithLogger(logger)).Resolve(context.Background())

	assert.Equal(t, openapi.Schema{"anyOf": []any{
		map[string]any{"$ref": "#/definitions/Cat"},
		map[string]any{"$ref": "#/definitions/Dog"},
	}}, defs["Pet"])
	assert.Contains(t, buf.String(), "anyOf schema left unchanged")
}

func TestNewSchemaResolver_DefaultSource(t *testing.T) {
	assert.Equal(t, []string{DefaultTypeFile}, NewSchemaResolver(nil).Sources())
}

func TestMergeDefinitions(t *testing.T) {
	merged := MergeDefinitions(
		openapi.Definitions{"A": {"type": "string"}, "B": {"type": "string"}},
		nil,
		openapi.Definitions{"B": {"type": "integer"}},
	)
	assert.Equal(t, openapi.Definitions{
		"A": {"type": "string"},
		"B": {"type": "integer"},
	}, merged)
}

func TestRewriteRefs(t *testing.T) {
	in := `{"$ref":"#/components/schemas/A","x":{"$ref":"#/components/schemas/B"}}`
	assert.Equal(t, `{"$ref":"#/definitions/A","x":{"$ref":"#/definitions/B"}}`, string(RewriteRefs([]byte(in))))
}

func TestResolve_NoConverterHint(t *testing.T) {
	src := writeSource(t, "api-types.d.ts", `export interface Widget {}`)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	defs := NewSchemaResolver([]string{src}, WithLogger(logger)).Resolve(context.Background())

	assert.Empty(t, defs)
	assert.Contains(t, buf.String(), "no converter for type source")
	assert.Contains(t, buf.String(), "convert_command")
}
