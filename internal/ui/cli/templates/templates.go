package templates

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/isaacphi/playground/internal/appState"
	"github.com/isaacphi/playground/internal/domain"
	"github.com/isaacphi/playground/internal/prompt"
	"github.com/isaacphi/playground/internal/shared"
	"github.com/spf13/cobra"
)

var varsFlag map[string]string

var TemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect prompt templates",
}

var listCmd = &cobra.Command{
	Use:   "ls",
	Short: "List templates and their placeholders",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := shared.InitializePlayground(appState.Get().Config)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Index\tPlaceholders\tTemplate")
		for i, tmpl := range p.Prompts.All() {
			placeholders := strings.Join(prompt.Placeholders(tmpl), ",")
			if placeholders == "" {
				placeholders = "-"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", i, placeholders, tmpl)
		}
		return w.Flush()
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [index]",
	Short: "Render a template without sending it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid template index %q", args[0])
		}

		p := shared.InitializePlayground(appState.Get().Config)
		for k, v := range varsFlag {
			p.Prompts.SetVariable(k, v)
		}

		rendered, ok := p.Prompts.RenderByIndex(index)
		if !ok {
			return &domain.TemplateNotFoundError{Index: index}
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringToStringVar(&varsFlag, "var", nil, "Template variable as key=value (repeatable)")
	TemplatesCmd.AddCommand(listCmd, renderCmd)
}
