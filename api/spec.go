package api

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed api.yaml
var rawSpec []byte

// GetSwagger parses and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}

	err = doc.Validate(context.Background())
	if err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}

	return doc, nil
}
