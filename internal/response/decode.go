package response

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/pkg/errors"
)

// Decode maps a JSON document onto the typed response tree. Every missing
// required key and every value of the wrong type is reported in one
// ValidationError; unknown keys are ignored.
func Decode(data []byte) (*domain.Response, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("malformed JSON: %v", err)).WithCause(err)
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, errors.NewValidationError("response must be a JSON object")
	}

	var violations []string
	checkObject(root, responseSchema, "", &violations)
	if len(violations) > 0 {
		return nil, errors.NewValidationError(violations...)
	}

	var resp domain.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("decode response: %v", err)).WithCause(err)
	}
	fillDefaults(&resp)
	return &resp, nil
}

func checkObject(obj map[string]any, fields []field, prefix string, violations *[]string) {
	for _, f := range fields {
		path := joinPath(prefix, f.name)
		value, present := obj[f.name]
		if !present {
			if f.required {
				*violations = append(*violations, path+": field required")
			}
			continue
		}
		checkValue(value, f, path, violations)
	}
}

func checkValue(value any, f field, path string, violations *[]string) {
	mismatch := func() {
		*violations = append(*violations, fmt.Sprintf("%s: must be %s, got %s", path, f.kind, describe(value)))
	}

	switch f.kind {
	case kindString:
		if _, ok := value.(string); !ok {
			mismatch()
		}
	case kindInteger, kindCount:
		n, ok := value.(json.Number)
		if !ok {
			mismatch()
			return
		}
		i, err := n.Int64()
		if err != nil {
			mismatch()
			return
		}
		if f.kind == kindCount && i < 0 {
			*violations = append(*violations, fmt.Sprintf("%s: must be >= 0, got %d", path, i))
		}
	case kindStringList:
		items, ok := value.([]any)
		if !ok {
			mismatch()
			return
		}
		for i, item := range items {
			if _, ok := item.(string); !ok {
				*violations = append(*violations, fmt.Sprintf("%s[%d]: must be a string, got %s", path, i, describe(item)))
			}
		}
	case kindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			mismatch()
			return
		}
		checkObject(obj, f.object, path, violations)
	case kindObjectList:
		items, ok := value.([]any)
		if !ok {
			mismatch()
			return
		}
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			obj, ok := item.(map[string]any)
			if !ok {
				*violations = append(*violations, fmt.Sprintf("%s: must be an object, got %s", itemPath, describe(item)))
				continue
			}
			checkObject(obj, f.object, itemPath, violations)
		}
	}
}

func describe(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// fillDefaults replaces absent optional lists with empty ones so encoders
// emit [] instead of null.
func fillDefaults(resp *domain.Response) {
	if resp.Questions == nil {
		resp.Questions = []domain.Question{}
	}
	if resp.GlobalRisks == nil {
		resp.GlobalRisks = []domain.GlobalRisk{}
	}
	if resp.InputEcho.Constraints == nil {
		resp.InputEcho.Constraints = []string{}
	}
	if resp.InputEcho.Assumptions == nil {
		resp.InputEcho.Assumptions = []string{}
	}
	if resp.ExportHints.HowToUse == nil {
		resp.ExportHints.HowToUse = []string{}
	}
	if resp.ExportHints.ABTestSuggestions == nil {
		resp.ExportHints.ABTestSuggestions = []string{}
	}
}
