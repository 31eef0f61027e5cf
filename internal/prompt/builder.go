package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sync"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type TemplateName string

const (
	TemplateCaseBundle TemplateName = "case_bundle.tmpl"
	TemplateRepair     TemplateName = "repair.tmpl"
)

// knownTemplates maps each template to a check for the data model it expects.
var knownTemplates = map[TemplateName]func(data any) bool{
	TemplateCaseBundle: func(data any) bool { _, ok := data.(CaseBundleData); return ok },
	TemplateRepair:     func(data any) bool { _, ok := data.(RepairData); return ok },
}

// Templates lists every prompt template the builder can render.
func Templates() []TemplateName {
	return []TemplateName{TemplateCaseBundle, TemplateRepair}
}

// PromptBuilder renders the embedded case-bundle and repair templates. Parsed
// templates are cached and safe for concurrent use.
type PromptBuilder struct {
	mu        sync.RWMutex
	templates map[TemplateName]*template.Template
}

var (
	defaultBuilderOnce sync.Once
	defaultBuilder     *PromptBuilder
)

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		templates: make(map[TemplateName]*template.Template),
	}
}

func DefaultPromptBuilder() *PromptBuilder {
	defaultBuilderOnce.Do(func() {
		defaultBuilder = NewPromptBuilder()
	})
	return defaultBuilder
}

// Render executes the named template. Unknown names and data of the wrong
// model are rejected before the template is touched.
func (pb *PromptBuilder) Render(name TemplateName, data any) (string, error) {
	accepts, ok := knownTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	if !accepts(data) {
		return "", fmt.Errorf("prompt template %s cannot render %T", name, data)
	}

	tmpl, err := pb.getTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}

	return buf.String(), nil
}

// MustRender is Render for callers that treat a broken template as a bug.
func (pb *PromptBuilder) MustRender(name TemplateName, data any) string {
	rendered, err := pb.Render(name, data)
	if err != nil {
		panic(err)
	}
	return rendered
}

// Preload parses every known template so a broken one surfaces at startup
// instead of silently switching generation to the fallback builders.
func (pb *PromptBuilder) Preload() error {
	for _, name := range Templates() {
		if _, err := pb.getTemplate(name); err != nil {
			return err
		}
	}
	return nil
}

func (pb *PromptBuilder) getTemplate(name TemplateName) (*template.Template, error) {
	pb.mu.RLock()
	if tmpl, ok := pb.templates[name]; ok {
		pb.mu.RUnlock()
		return tmpl, nil
	}
	pb.mu.RUnlock()

	content, err := templateFS.ReadFile(path.Join("templates", string(name)))
	if err != nil {
		return nil, fmt.Errorf("load prompt template %s: %w", name, err)
	}

	tmpl, err := template.New(string(name)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %s: %w", name, err)
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.templates[name] = tmpl

	return tmpl, nil
}
