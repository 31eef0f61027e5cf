// Package content parses the unified content source: a hand-written text file
// made of bracketed section tags with key=value blocks, repeated records,
// numbered slides and embedded JSON documents.
package content

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kapu/segcraft-go/pkg/errors"
)

var sectionTag = regexp.MustCompile(`^\[([A-Z0-9_]+)\]$`)

// ReadSource loads the unified source file.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewSourceFormatError(
				fmt.Sprintf("unified content source not found: %s (create it with the required sections)", path),
				nil, 0,
			).WithCause(err)
		}
		return "", fmt.Errorf("read content source %s: %w", path, err)
	}
	return string(data), nil
}

// SplitSections maps every section tag to its trimmed body. Text before the
// first tag is dropped and a repeated tag replaces the earlier body.
func SplitSections(raw string) map[string]string {
	bodies := make(map[string][]string)
	current := ""

	for _, line := range splitLines(raw) {
		if m := sectionTag.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			current = m[1]
			bodies[current] = []string{}
			continue
		}
		if current != "" {
			bodies[current] = append(bodies[current], line)
		}
	}

	sections := make(map[string]string, len(bodies))
	for name, lines := range bodies {
		sections[name] = strings.TrimSpace(strings.Join(lines, "\n"))
	}
	return sections
}

// RequireSections fails with one error naming every missing or blank section.
func RequireSections(sections map[string]string, required ...string) error {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(sections[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	hints := make([]string, len(missing))
	for i, name := range missing {
		hints[i] = "[" + name + "]"
	}
	return errors.NewSourceFormatError(
		fmt.Sprintf("unified content source is missing required sections: %s; add them and run sync again", strings.Join(hints, ", ")),
		missing, 0,
	)
}

func splitLines(raw string) []string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}
