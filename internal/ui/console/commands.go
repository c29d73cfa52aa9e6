package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/isaacphi/playground/internal/ui/styles"
)

type Command int

const (
	CommandInitialize Command = iota + 1
	CommandRunDemo
	CommandSetAPIKey
	CommandAddTemplate
	CommandListTemplates
	CommandTestLLM
	CommandExit
	CommandSetVariable
	CommandRenderAndSend
)

type handler func(ctx context.Context) error

type MenuEntry struct {
	Command Command
	Label   string
}

// Menu is shown in this order
var Menu = []MenuEntry{
	{CommandInitialize, "Initialize components"},
	{CommandRunDemo, "Run demo"},
	{CommandSetAPIKey, "Set API key"},
	{CommandAddTemplate, "Add prompt template"},
	{CommandListTemplates, "List all templates"},
	{CommandTestLLM, "Test LLM response"},
	{CommandExit, "Exit"},
	{CommandSetVariable, "Set template variable"},
	{CommandRenderAndSend, "Render and send template"},
}

var errEmptyVariableName = errors.New("variable name cannot be empty")

// ParseCommand maps a menu choice such as "4" to its command
func ParseCommand(input string) (Command, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, false
	}
	for _, entry := range Menu {
		if int(entry.Command) == n {
			return entry.Command, true
		}
	}
	return 0, false
}

func (c *Console) handleInitialize(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== AI Playground Initialization ===")
	if err := c.playground.Initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	fmt.Fprintln(c.out, styles.StatusMessageStyle("Initialization complete!"))
	return nil
}

func (c *Console) handleRunDemo(ctx context.Context) error {
	fmt.Fprintln(c.out, "\n=== AI Playground Demo ===")
	return c.playground.RunDemo(ctx, c.out)
}

func (c *Console) handleSetAPIKey(ctx context.Context) error {
	key, err := c.prompt(ctx, "Enter API key: ")
	if err != nil {
		return err
	}
	c.playground.LLM.SetAPIKey(key)
	fmt.Fprintln(c.out, styles.StatusMessageStyle("API key set."))
	return nil
}

func (c *Console) handleAddTemplate(ctx context.Context) error {
	tmpl, err := c.prompt(ctx, "Enter new prompt template: ")
	if err != nil {
		return err
	}
	if err := c.playground.Prompts.Add(tmpl); err != nil {
		return err
	}
	fmt.Fprintln(c.out, styles.StatusMessageStyle(fmt.Sprintf("Added template %d.", c.playground.Prompts.Count()-1)))
	return nil
}

func (c *Console) handleListTemplates(ctx context.Context) error {
	fmt.Fprintln(c.out, "\nAll available templates:")
	for i, tmpl := range c.playground.Prompts.All() {
		fmt.Fprintf(c.out, "%s %s\n", styles.HighlightStyle.Render(strconv.Itoa(i)+":"), tmpl)
	}
	return nil
}

func (c *Console) handleTestLLM(ctx context.Context) error {
	input, err := c.prompt(ctx, "Enter a test prompt: ")
	if err != nil {
		return err
	}
	response, err := c.playground.LLM.GenerateResponse(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Response: %s\n", response)
	return nil
}

func (c *Console) handleExit(ctx context.Context) error {
	fmt.Fprintln(c.out, "Goodbye!")
	return nil
}

func (c *Console) handleSetVariable(ctx context.Context) error {
	name, err := c.prompt(ctx, "Enter variable name: ")
	if err != nil {
		return err
	}
	if name == "" {
		return errEmptyVariableName
	}
	value, err := c.prompt(ctx, "Enter value: ")
	if err != nil {
		return err
	}
	c.playground.Prompts.SetVariable(name, value)
	fmt.Fprintln(c.out, styles.StatusMessageStyle(fmt.Sprintf("Set {%s}.", name)))
	return nil
}

func (c *Console) handleRenderAndSend(ctx context.Context) error {
	input, err := c.prompt(ctx, "Enter template index: ")
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(input)
	if err != nil {
		return fmt.Errorf("invalid template index %q", input)
	}
	if rendered, ok := c.playground.Prompts.RenderByIndex(index); ok {
		fmt.Fprintf(c.out, "Prompt: %s\n", styles.MutedStyle.Render(rendered))
	}
	response, err := c.playground.RenderAndSend(ctx, index)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Response: %s\n", response)
	return nil
}
