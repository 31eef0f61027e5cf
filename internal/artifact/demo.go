package artifact

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/pkg/errors"
)

const stepPrefix = "step_"

var demoClosingItems = []string{
	"Таблица вариаций по сегментам",
	"Risk-метки и как их чинить",
	"Экспорт в CSV/JSON",
}

type demoStep struct {
	index int
	text  string
}

// DemoScriptMarkdown renders step_<n> entries as a numbered list ordered by n.
// Keys without the step_ prefix are ignored.
func DemoScriptMarkdown(steps map[string]string) (string, error) {
	ordered := make([]demoStep, 0, len(steps))
	for key, text := range steps {
		if !strings.HasPrefix(key, stepPrefix) {
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(key, stepPrefix))
		if err != nil {
			return "", errors.NewSourceFormatError(
				fmt.Sprintf("[%s] invalid step key: %s", constants.SectionDemoScript, key),
				[]string{constants.SectionDemoScript}, 0,
			)
		}
		ordered = append(ordered, demoStep{index: index, text: text})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].index < ordered[j].index
	})

	lines := []string{"# Demo script (3-4 минуты)", "", "## Сценарий показа", ""}
	for _, step := range ordered {
		lines = append(lines, fmt.Sprintf("%d. %s", step.index, step.text))
	}
	lines = append(lines, "", "## Что показать в финале")
	for _, item := range demoClosingItems {
		lines = append(lines, "- "+item)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n"), nil
}

// MarkdownPage normalizes a passthrough markdown section to end with one newline.
func MarkdownPage(body string) string {
	return strings.TrimSpace(body) + "\n"
}
