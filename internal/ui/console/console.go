package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/isaacphi/playground/internal/service"
	"github.com/isaacphi/playground/internal/ui/styles"
)

const Version = "1.0.0"

// Console drives a playground from line based input. It never touches stdin or stdout
// directly so it can run headless.
type Console struct {
	playground *service.Playground
	in         *bufio.Scanner
	out        io.Writer
	handlers   map[Command]handler

	// Lines are scanned on a separate goroutine so a read can give up when the
	// context is cancelled.
	startScan sync.Once
	lines     chan inputLine
	done      chan struct{}
}

type inputLine struct {
	text string
	err  error
}

func New(p *service.Playground, in io.Reader, out io.Writer) *Console {
	c := &Console{
		playground: p,
		in:         bufio.NewScanner(in),
		out:        out,
		lines:      make(chan inputLine),
		done:       make(chan struct{}),
	}
	c.handlers = map[Command]handler{
		CommandInitialize:    c.handleInitialize,
		CommandRunDemo:       c.handleRunDemo,
		CommandSetAPIKey:     c.handleSetAPIKey,
		CommandAddTemplate:   c.handleAddTemplate,
		CommandListTemplates: c.handleListTemplates,
		CommandTestLLM:       c.handleTestLLM,
		CommandExit:          c.handleExit,
		CommandSetVariable:   c.handleSetVariable,
		CommandRenderAndSend: c.handleRenderAndSend,
	}
	return c
}

// Run shows the menu until the user exits or input ends. Handler errors are printed
// and the loop keeps going.
func (c *Console) Run(ctx context.Context) error {
	defer close(c.done)
	c.printWelcome()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printMenu()
		line, err := c.readLine(ctx)
		if err == io.EOF {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return err
		}

		cmd, ok := ParseCommand(line)
		if !ok {
			fmt.Fprintln(c.out, "Invalid option. Please try again.")
			continue
		}

		exit, err := c.Dispatch(ctx, cmd)
		if err == io.EOF {
			fmt.Fprintln(c.out)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			c.printError(err)
		}
		if exit {
			return nil
		}
	}
}

// Dispatch runs a single command. exit reports whether the loop should stop.
func (c *Console) Dispatch(ctx context.Context, cmd Command) (exit bool, err error) {
	h, ok := c.handlers[cmd]
	if !ok {
		return false, fmt.Errorf("unknown command %d", cmd)
	}
	return cmd == CommandExit, h(ctx)
}

func (c *Console) printWelcome() {
	fmt.Fprintln(c.out, styles.TitleStyle.Render("Welcome to AI Playground!"))
	fmt.Fprintln(c.out, "A Go project for experimenting with AI and LLM APIs")
	fmt.Fprintf(c.out, "Version %s\n", Version)
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, styles.TitleStyle.Render("=== AI Playground Menu ==="))
	for _, entry := range Menu {
		fmt.Fprintf(c.out, "%d. %s\n", entry.Command, entry.Label)
	}
	fmt.Fprint(c.out, "Choose an option: ")
}

func (c *Console) printError(err error) {
	fmt.Fprintln(c.out, styles.ErrorStyle.Render("Error: "+err.Error()))
}

func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)
	return c.readLine(ctx)
}

// readLine returns the next trimmed input line, io.EOF once input ends, or the
// context error if ctx is cancelled first
func (c *Console) readLine(ctx context.Context) (string, error) {
	c.startScan.Do(func() { go c.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line.text, line.err
	}
}

func (c *Console) scan() {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- inputLine{text: strings.TrimSpace(c.in.Text())}:
		case <-c.done:
			return
		}
	}
	if err := c.in.Err(); err != nil {
		select {
		case c.lines <- inputLine{err: err}:
		case <-c.done:
		}
	}
}
