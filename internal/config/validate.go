package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// Validate checks cfg against the embedded schema, then applies the rules
// the schema cannot express.
func (c Config) Validate() error {
	if err := checkSchema(c); err != nil {
		return err
	}

	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return &ConfigurationError{
			Key:    "llm.api_key",
			Reason: "set GOOGLE_GENAI_API_KEY, GOOGLE_API_KEY or OPENAI_API_KEY",
		}
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return &ConfigurationError{Key: "store.path", Reason: "required for the sqlite driver"}
		}
	case DriverFirestore:
		if c.Store.ProjectID == "" {
			return &ConfigurationError{Key: "store.project_id", Reason: "required for the firestore driver"}
		}
	}
	return nil
}

type violation struct {
	key    string
	reason string
}

// checkSchema reports schema violations as one ConfigurationError keyed by
// the first offending setting in key order.
func checkSchema(c Config) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	// round-trip through JSON so the document carries the json tag names
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]violation, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, violation{key: e.Field(), reason: e.Description()})
	}
	slices.SortFunc(violations, func(a, b violation) int {
		return strings.Compare(a.key, b.key)
	})

	reasons := make([]string, 0, len(violations))
	for _, v := range violations {
		reasons = append(reasons, v.key+": "+v.reason)
	}
	return &ConfigurationError{Key: violations[0].key, Reason: strings.Join(reasons, "; ")}
}
