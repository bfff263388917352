package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schema []byte

var schemaLoader = gojsonschema.NewBytesLoader(schema)

// ValidateSchema checks a decoded configuration document against the embedded JSON schema.
// Unknown keys and values of the wrong type are reported with their field path.
func ValidateSchema(doc map[string]any) error {
	if doc == nil {
		doc = map[string]any{}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("error validating config schema: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidValue, strings.Join(problems, "; "))
}
