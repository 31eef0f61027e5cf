package errors

import (
	"fmt"
	"strings"
)

// Error codes
const (
	CodeSegCraftError = "SEGCRAFT_ERROR"
	CodeSourceFormat  = "SOURCE_FORMAT_ERROR"
	CodeExtraction    = "EXTRACTION_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeClient        = "CLIENT_ERROR"
	CodeMockAsset     = "MOCK_ASSET_ERROR"
	CodeCache         = "CACHE_ERROR"
	CodeStore         = "STORE_ERROR"
)

type SegCraftError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *SegCraftError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SegCraftError) Unwrap() error {
	return e.Cause
}

func NewSegCraftError(message, code string, context map[string]any) *SegCraftError {
	return &SegCraftError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *SegCraftError) WithCause(cause error) *SegCraftError {
	e.Cause = cause
	return e
}

// SourceFormatError reports a missing or malformed unified content source.
// Line is 0 when the position is unknown.
type SourceFormatError struct {
	*SegCraftError
	Sections []string
	Line     int
}

func NewSourceFormatError(message string, sections []string, line int) *SourceFormatError {
	return &SourceFormatError{
		SegCraftError: &SegCraftError{
			Message: message,
			Code:    CodeSourceFormat,
			Context: map[string]any{
				"sections": sections,
				"line":     line,
			},
		},
		Sections: sections,
		Line:     line,
	}
}

func (e *SourceFormatError) WithCause(cause error) *SourceFormatError {
	e.Cause = cause
	return e
}

// ExtractionError means no complete JSON object was found in model output.
type ExtractionError struct {
	*SegCraftError
}

func NewExtractionError(message string) *ExtractionError {
	return &ExtractionError{
		SegCraftError: &SegCraftError{
			Message: message,
			Code:    CodeExtraction,
		},
	}
}

// ValidationError aggregates every schema or invariant violation found in a
// single response document.
type ValidationError struct {
	*SegCraftError
	Violations []string
}

func NewValidationError(violations ...string) *ValidationError {
	message := "response validation failed"
	switch len(violations) {
	case 0:
	case 1:
		message = fmt.Sprintf("%s: %s", message, violations[0])
	default:
		message = fmt.Sprintf("%s (%d violations): %s", message, len(violations), strings.Join(violations, "; "))
	}

	return &ValidationError{
		SegCraftError: &SegCraftError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"violations": violations,
			},
		},
		Violations: violations,
	}
}

func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.Cause = cause
	return e
}

// ClientError covers a missing credential or an unusable provider response.
// It is never recovered through the repair round.
type ClientError struct {
	*SegCraftError
	Provider string
}

func NewClientError(message, provider string, cause error) *ClientError {
	return &ClientError{
		SegCraftError: &SegCraftError{
			Message: message,
			Code:    CodeClient,
			Context: map[string]any{
				"provider": provider,
			},
			Cause: cause,
		},
		Provider: provider,
	}
}

type MockAssetError struct {
	*SegCraftError
	Path string
}

func NewMockAssetError(message, path string, cause error) *MockAssetError {
	return &MockAssetError{
		SegCraftError: &SegCraftError{
			Message: message,
			Code:    CodeMockAsset,
			Context: map[string]any{
				"path": path,
			},
			Cause: cause,
		},
		Path: path,
	}
}

type CacheError struct {
	*SegCraftError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		SegCraftError: &SegCraftError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type StoreError struct {
	*SegCraftError
	Store     string
	Operation string
}

func NewStoreError(message, store, operation string, cause error) *StoreError {
	return &StoreError{
		SegCraftError: &SegCraftError{
			Message: message,
			Code:    CodeStore,
			Context: map[string]any{
				"store":     store,
				"operation": operation,
			},
			Cause: cause,
		},
		Store:     store,
		Operation: operation,
	}
}
