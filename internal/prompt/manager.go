package prompt

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/isaacphi/playground/internal/domain"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// DefaultTemplates are the templates every new Manager starts with
var DefaultTemplates = []string{
	"Explain {topic} in simple terms",
	"Write a {style} story about {subject}",
	"Analyze the following: {content}",
	"Generate code for {language} to {task}",
	"Summarize the key points of {text}",
	"Translate {text} to {language}",
	"Create a {type} plan for {goal}",
	"Debug this {language} code: {code}",
}

// Manager stores prompt templates and the variables used to render them
type Manager struct {
	templates     []string
	variables     map[string]string
	currentPrompt *string
}

type Option func(*Manager)

// WithTemplates appends extra templates after the defaults. Blank entries are skipped.
func WithTemplates(templates ...string) Option {
	return func(m *Manager) {
		for _, t := range templates {
			if err := m.Add(t); err != nil {
				slog.Warn("skipping configured template", "error", err)
			}
		}
	}
}

func WithVariables(vars map[string]string) Option {
	return func(m *Manager) {
		for k, v := range vars {
			m.SetVariable(k, v)
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		templates: append([]string(nil), DefaultTemplates...),
		variables: make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Name() string {
	return "Prompt Manager"
}

func (m *Manager) Description() string {
	return "Manages and templates prompts"
}

// Initialize never fails; it exists so the manager can be driven like any other component
func (m *Manager) Initialize(ctx context.Context) error {
	slog.Info("initializing prompt manager", "templates", len(m.templates))
	return nil
}

// Process checks that a current prompt has been selected
func (m *Manager) Process() error {
	if m.currentPrompt == nil {
		slog.Warn("no current prompt set")
		return domain.ErrNoCurrentPrompt
	}
	slog.Info("current prompt", "prompt", *m.currentPrompt)
	return nil
}

func (m *Manager) SetPrompt(prompt string) {
	m.currentPrompt = &prompt
}

func (m *Manager) CurrentPrompt() (string, bool) {
	if m.currentPrompt == nil {
		return "", false
	}
	return *m.currentPrompt, true
}

// Add appends a template. Whitespace-only templates are rejected.
func (m *Manager) Add(template string) error {
	if strings.TrimSpace(template) == "" {
		slog.Warn("cannot add empty template")
		return domain.ErrEmptyTemplate
	}
	m.templates = append(m.templates, template)
	slog.Info("added template", "template", template, "index", len(m.templates)-1)
	return nil
}

func (m *Manager) Get(index int) (string, bool) {
	if index < 0 || index >= len(m.templates) {
		return "", false
	}
	return m.templates[index], true
}

func (m *Manager) Count() int {
	return len(m.templates)
}

// All returns a copy of the stored templates
func (m *Manager) All() []string {
	out := make([]string, len(m.templates))
	copy(out, m.templates)
	return out
}

func (m *Manager) SetVariable(key, value string) {
	m.variables[key] = value
}

// Variables returns a copy of the variable map
func (m *Manager) Variables() map[string]string {
	out := make(map[string]string, len(m.variables))
	for k, v := range m.variables {
		out[k] = v
	}
	return out
}

// Render replaces every {key} whose key is a known variable. Unknown placeholders are
// left as they are and substituted values are not scanned again.
func (m *Manager) Render(template string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		if value, ok := m.variables[token[1:len(token)-1]]; ok {
			return value
		}
		return token
	})
}

func (m *Manager) RenderByIndex(index int) (string, bool) {
	template, ok := m.Get(index)
	if !ok {
		return "", false
	}
	return m.Render(template), true
}

// Placeholders lists the distinct placeholder names in template, in order of first appearance
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}
