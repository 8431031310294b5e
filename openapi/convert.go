package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

// ToOpenAPI3 converts doc into an OpenAPI 3 document, resolves its references
// and validates it.
func ToOpenAPI3(ctx context.Context, doc *Document) (*openapi3.T, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return nil, fmt.Errorf("decode swagger 2.0 document: %w", err)
	}

	v3, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, fmt.Errorf("convert to openapi 3: %w", err)
	}

	loader := openapi3.NewLoader()
	if err := loader.ResolveRefsIn(v3, nil); err != nil {
		return nil, fmt.Errorf("resolve references: %w", err)
	}

	if err := v3.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi 3 validation: %w", err)
	}
	return v3, nil
}

// WriteOpenAPI3 converts doc with [ToOpenAPI3] and writes the JSON result to path.
func WriteOpenAPI3(ctx context.Context, path string, doc *Document) error {
	v3, err := ToOpenAPI3(ctx, doc)
	if err != nil {
		return err
	}
	data, err := v3.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal openapi 3 document: %w", err)
	}
	return WriteFile(path, data)
}
