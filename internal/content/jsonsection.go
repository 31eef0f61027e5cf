package content

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/kapu/segcraft-go/pkg/errors"
)

// ParseJSONSection decodes a section body as exactly one JSON document.
// Syntax errors carry the section name and the line/column of the failure.
func ParseJSONSection(body, name string) (json.RawMessage, error) {
	data := []byte(body)
	dec := json.NewDecoder(bytes.NewReader(data))

	var doc json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, jsonSectionError(name, data, err, dec.InputOffset())
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		offset := dec.InputOffset()
		if err == nil {
			err = fmt.Errorf("unexpected data after the JSON document")
		}
		return nil, jsonSectionError(name, data, err, offset)
	}

	return doc, nil
}

func jsonSectionError(name string, data []byte, err error, fallbackOffset int64) error {
	offset := fallbackOffset
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		offset = syntaxErr.Offset
	}
	line, column := lineColumn(data, offset)

	return errors.NewSourceFormatError(
		fmt.Sprintf("[%s] contains invalid JSON: %v (line %d, column %d)", name, err, line, column),
		[]string{name}, line,
	).WithCause(err)
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	column := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, column
}
