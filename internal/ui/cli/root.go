package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/isaacphi/playground/internal/appState"
	"github.com/isaacphi/playground/internal/config"
	"github.com/isaacphi/playground/internal/shared"
	configCmd "github.com/isaacphi/playground/internal/ui/cli/config"
	"github.com/isaacphi/playground/internal/ui/cli/msg"
	"github.com/isaacphi/playground/internal/ui/cli/templates"
	"github.com/isaacphi/playground/internal/ui/console"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	logFile     string
	provider    string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "playground",
	Short: "Experiment with prompt templates and local LLMs",
	Long: `An interactive playground for managing prompt templates and sending them
to a locally running chat completion endpoint.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := shared.InitializePlayground(appState.Get().Config)
		return console.New(p, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
	},
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	// After the first interrupt a second one gets the default behaviour
	context.AfterFunc(ctx, cancel)

	// Set up the root command to use this context
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	flags.StringVar(&logFile, "log-file", "", "Log file path (defaults to stderr)")
	flags.StringVar(&provider, "provider", "", "Completion provider (ollama, langchain, openai)")
	flags.StringVarP(&model, "model", "m", "", "Model name")
	flags.StringVar(&endpoint, "endpoint", "", "Chat completion endpoint URL")
	flags.Float64Var(&temperature, "temperature", 0, "Sampling temperature")
	flags.IntVar(&maxTokens, "max-tokens", 0, "Maximum tokens to generate")
	flags.DurationVar(&timeout, "timeout", 0, "HTTP timeout, e.g. 90s")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Initialize(overridesFromFlags(cmd))
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Cleanup()
	}

	// Remove "completions" command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		configCmd.ConfigCmd,
		msg.MsgCmd,
		templates.TemplatesCmd,
	)
}

// overridesFromFlags only includes flags the user actually set
func overridesFromFlags(cmd *cobra.Command) *config.RuntimeOverrides {
	overrides := &config.RuntimeOverrides{}
	changed := cmd.Flags().Changed
	if changed("log-level") {
		overrides.LogLevel = &logLevel
	}
	if changed("log-file") {
		overrides.LogFile = &logFile
	}
	if changed("provider") {
		overrides.Provider = &provider
	}
	if changed("model") {
		overrides.Model = &model
	}
	if changed("endpoint") {
		overrides.Endpoint = &endpoint
	}
	if changed("temperature") {
		overrides.Temperature = &temperature
	}
	if changed("max-tokens") {
		overrides.MaxTokens = &maxTokens
	}
	if changed("timeout") {
		overrides.Timeout = &timeout
	}
	return overrides
}
