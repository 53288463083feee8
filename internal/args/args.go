package args

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ko10ok/doq/internal/config"
)

// ErrHelp signals that help output was printed and the process should exit
// cleanly without dispatching anything. ErrUsage signals that brief usage
// was printed because no arguments were given.
var (
	ErrHelp  = errors.New("help requested")
	ErrUsage = errors.New("usage shown")
)

// Arguments represents the command-line arguments structure. Query holds the
// positional tokens with flags already stripped; Raw echoes the full argv.
type Arguments struct {
	Query       []string
	Provider    string
	Interactive bool
	DryRun      bool
	Raw         []string
}

const longHelp = `doq sends free-text queries, optionally combined with file contents,
to an LLM provider and streams the answer back to the terminal.

Bare words that name an existing file are attached to the request; everything
else becomes query text. Quoted strings are always treated as text, even when
they match a file name.

Examples:
  doq "What is machine learning?"
  doq explain script.py
  doq "Review this code" main.go utils.go
  doq --llm=openai "What does this do?" script.py
  doq --dry-run "Test query" data.json
  doq -i "Review my code" *.go
  doq analyze .                     # embeds a directory tree
  doq "Что такое машинное обучение?"

Configuration file: $XDG_CONFIG_HOME/doq/config.yaml (or ~/.doq-config.yaml).
API keys come from ANTHROPIC_API_KEY, OPENAI_API_KEY and DEEPSEEK_API_KEY.`

// Parse extracts the recognized flags from argv and returns the remaining
// tokens untouched, in order, for the parser to tokenize. Unrecognized
// flag-shaped tokens are not an error: they stay in the query, because a
// leading dash on a word the user typed is still part of what they asked.
func Parse(argv []string, cfg *config.Config) (Arguments, error) {
	a := Arguments{Raw: append([]string(nil), argv...), Provider: cfg.Provider}

	rootCmd := &cobra.Command{
		Use:                "doq [flags] <query> [files...]",
		Short:              "Query LLM providers from the command line",
		Long:               longHelp,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, tokens []string) error {
			rest := make([]string, 0, len(tokens))
			for _, tok := range tokens {
				switch {
				case tok == "-h" || tok == "--help":
					_ = cmd.Help()
					return ErrHelp
				case tok == "-i" || tok == "--interactive":
					a.Interactive = true
				case tok == "--dry-run":
					a.DryRun = true
				case strings.HasPrefix(tok, "--llm="):
					a.Provider = strings.TrimPrefix(tok, "--llm=")
				default:
					rest = append(rest, tok)
				}
			}
			a.Query = rest
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Declared for the help listing only; parsing happens in RunE above.
	rootCmd.Flags().BoolP("interactive", "i", false, "confirm before sending")
	rootCmd.Flags().String("llm", cfg.Provider, "LLM provider (claude, openai, deepseek)")
	rootCmd.Flags().Bool("dry-run", false, "show request details without sending")

	if len(argv) == 0 {
		_ = rootCmd.Usage()
		return Arguments{}, ErrUsage
	}

	rootCmd.SetArgs(argv)
	if err := rootCmd.Execute(); err != nil {
		return Arguments{}, err
	}

	return a, nil
}
