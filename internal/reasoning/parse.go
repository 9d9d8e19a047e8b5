package reasoning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
	"github.com/xeipuuv/gojsonschema"
)

// decodeObject parses model output into a JSON object. It tries, in order,
// the raw text, the first balanced object found in the text, and a repaired
// version of the text.
func decodeObject(text string) (map[string]any, error) {
	if obj, err := unmarshalObject([]byte(text)); err == nil {
		return obj, nil
	}
	if extracted, ok := ExtractJSON([]byte(text)); ok {
		if obj, err := unmarshalObject(extracted); err == nil {
			return obj, nil
		}
	}
	repaired, err := jsonrepair.JSONRepair(text)
	if err == nil {
		if obj, err := unmarshalObject([]byte(repaired)); err == nil {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, preview(text))
}

func unmarshalObject(data []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("not a JSON object")
	}
	return obj, nil
}

// ExtractJSON returns the first balanced JSON object embedded in data, such
// as one wrapped in a markdown code fence.
func ExtractJSON(data []byte) ([]byte, bool) {
	start := bytes.IndexByte(data, '{')
	if start < 0 {
		return nil, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(data); i++ {
		c := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return data[start : i+1], true
			}
		}
	}
	return nil, false
}

func validateObject(schema map[string]any, obj map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(obj))
	if err != nil {
		return fmt.Errorf("validate output schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)

	return fmt.Errorf("%w: %s", ErrInvalidOutput, strings.Join(errs, "; "))
}

func preview(text string) string {
	const limit = 120
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
