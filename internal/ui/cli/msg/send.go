package msg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/isaacphi/playground/internal/appState"
	"github.com/isaacphi/playground/internal/shared"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send [template index]",
	Short: "Render a template and send it",
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
		if err := p.Initialize(cmd.Context()); err != nil {
			return err
		}

		response, err := p.RenderAndSend(cmd.Context(), index)
		if err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), response)
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Send a prompt as is",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := shared.InitializePlayground(appState.Get().Config)
		if err := p.Initialize(cmd.Context()); err != nil {
			return err
		}

		response, err := p.LLM.GenerateResponse(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("ask failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), response)
		return nil
	},
}
