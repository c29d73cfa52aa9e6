package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/isaacphi/playground/internal/domain"
	"github.com/isaacphi/playground/internal/prompt"
)

// DemoPrompt is sent to the model by RunDemo
const DemoPrompt = "Hello, how are you?"

// Completer is the part of the llm client the playground depends on
type Completer interface {
	domain.Component
	Initialize(ctx context.Context) error
	SetAPIKey(key string)
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// Playground joins a template store and a completion client
type Playground struct {
	Prompts *prompt.Manager
	LLM     Completer
}

func NewPlayground(prompts *prompt.Manager, llm Completer) *Playground {
	return &Playground{
		Prompts: prompts,
		LLM:     llm,
	}
}

// Initialize brings up the completion client and then the template store, stopping at
// the first failure
func (p *Playground) Initialize(ctx context.Context) error {
	slog.Info("initializing playground")

	if err := p.LLM.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", p.LLM.Name(), err)
	}
	if err := p.Prompts.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", p.Prompts.Name(), err)
	}

	slog.Info("initialization complete")
	return nil
}

// RenderAndSend renders the template at index and sends it to the model.
// Client errors are returned as-is. The rendered text becomes the current prompt
// only once a reply arrives.
func (p *Playground) RenderAndSend(ctx context.Context, index int) (string, error) {
	rendered, ok := p.Prompts.RenderByIndex(index)
	if !ok {
		return "", &domain.TemplateNotFoundError{Index: index}
	}
	response, err := p.LLM.GenerateResponse(ctx, rendered)
	if err != nil {
		return "", err
	}
	p.Prompts.SetPrompt(rendered)
	return response, nil
}

func (p *Playground) Components() []domain.Component {
	return []domain.Component{p.LLM, p.Prompts}
}

// RunDemo shows a few templates, sends DemoPrompt and lists the components.
// A failed completion is printed rather than returned.
func (p *Playground) RunDemo(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "\n1. Prompt Management Demo:")
	for i := 0; i < 3; i++ {
		if tmpl, ok := p.Prompts.Get(i); ok {
			fmt.Fprintf(w, "Template %d: %s\n", i, tmpl)
		}
	}

	fmt.Fprintln(w, "\n2. LLM Interaction Demo:")
	fmt.Fprintf(w, "Prompt: %s\n", DemoPrompt)
	response, err := p.LLM.GenerateResponse(ctx, DemoPrompt)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	} else {
		fmt.Fprintf(w, "Response: %s\n", response)
	}

	fmt.Fprintln(w, "\n3. Component Information:")
	for _, c := range p.Components() {
		fmt.Fprintf(w, "- %s: %s\n", c.Name(), c.Description())
	}

	_, err = fmt.Fprintln(w, "\nDemo complete!")
	return err
}
