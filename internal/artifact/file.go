package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// File is one derived document, addressed relative to the output root.
type File struct {
	Path string
	Data []byte
}

func TextFile(path, content string) File {
	return File{Path: path, Data: []byte(content)}
}

// JSONFile encodes v with two-space indentation, literal non-ASCII text and
// a trailing newline.
func JSONFile(path string, v any) (File, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return File{}, fmt.Errorf("encode %s: %w", path, err)
	}
	return File{Path: path, Data: buf.Bytes()}, nil
}
