package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"unicode/utf8"

	"github.com/cli/go-gh/v2/pkg/term"

	"github.com/ko10ok/doq/internal/args"
	"github.com/ko10ok/doq/internal/config"
	"github.com/ko10ok/doq/internal/parser"
	"github.com/ko10ok/doq/internal/provider"
	"github.com/ko10ok/doq/internal/render"
)

const (
	exitOK        = 0
	exitError     = 1
	exitInterrupt = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "doq: config:", err)
		cfg = config.Default()
	}

	a, err := args.Parse(argv, cfg)
	switch {
	case errors.Is(err, args.ErrHelp):
		return exitOK
	case errors.Is(err, args.ErrUsage):
		return exitError
	case err != nil:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}

	// Validate the provider before touching any file: an unknown name must
	// fail fast.
	prov, err := provider.New(a.Provider, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}

	p := parser.New(parser.Options{
		Provider:            a.Provider,
		Interactive:         a.Interactive,
		DryRun:              a.DryRun,
		RawArgs:             a.Raw,
		UploadCapable:       prov.SupportsUpload(),
		LargeFileThreshold:  cfg.Files.LargeFileThreshold,
		BinaryTruncateBytes: cfg.Files.BinaryTruncateBytes,
		SniffLen:            cfg.Files.SniffLen,
		NonTextRatio:        cfg.Files.NonTextRatio,
		Confirm:             confirmPolicy(a.Interactive),
	})

	req, err := p.Parse(ctx, a.Query)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "\nRequest interrupted by user.")
			return exitInterrupt
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}

	if req.DryRun {
		printDryRun(req)
		return exitOK
	}

	if req.Interactive && !confirmSend(req) {
		fmt.Println("Request cancelled.")
		return exitOK
	}

	chunks, err := prov.Stream(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}

	r := render.NewTerminalRenderer(render.ShouldUsePlainText(cfg.Render.Format))
	if err := r.Render(chunks); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "\nRequest interrupted by user.")
			return exitInterrupt
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitError
	}
	return exitOK
}

// confirmPolicy wires the large-file confirmation gate: a terminal prompt
// when the user can answer, a fixed auto-decline otherwise so scripts never
// block on stdin.
func confirmPolicy(interactive bool) parser.ConfirmFunc {
	if !interactive && !term.IsTerminal(os.Stdin) {
		return parser.DeclineAll
	}
	return func(path string, size int64) bool {
		fmt.Fprintf(os.Stderr, "File %s is large (%.1fMB). Include it? (y/N): ", path, float64(size)/(1024*1024))
		return readYes()
	}
}

// confirmSend previews the request in interactive mode and asks before
// dispatching.
func confirmSend(req *parser.Request) bool {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("INTERACTIVE MODE - Request Preview")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Provider: %s\n", req.Provider)
	fmt.Printf("Query: %s\n", previewText(req.TextQuery, 200))
	if len(req.Files) > 0 {
		fmt.Printf("Files: %d file(s)\n", len(req.Files))
	}
	fmt.Println()
	fmt.Print("Send this request? (y/N): ")
	return readYes()
}

// previewText truncates s to at most n bytes on a rune boundary, so a cut
// through a multibyte character never emits mojibake.
func previewText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

func readYes() bool {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

// printDryRun dumps the assembled request instead of dispatching it.
func printDryRun(req *parser.Request) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("DRY RUN - Request Information")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Provider: %s\n", req.Provider)
	fmt.Printf("Interactive mode: %v\n", req.Interactive)
	fmt.Printf("Text query length: %d characters\n", len(req.TextQuery))
	fmt.Println()

	if len(req.Files) > 0 {
		fmt.Println("Files to be included:")
		for _, fi := range req.Files {
			fmt.Printf("  - %s\n", fi.Path)
			fmt.Printf("    Size: %d bytes\n", fi.Size)
			fmt.Printf("    Binary: %v\n", fi.IsBinary)
			fmt.Printf("    Include mode: %s\n", fi.IncludeMode)
		}
		fmt.Println()
	}

	fmt.Println("Raw arguments:")
	quoted := make([]string, len(req.RawArgs))
	for i, arg := range req.RawArgs {
		if strings.Contains(arg, " ") {
			quoted[i] = `"` + arg + `"`
		} else {
			quoted[i] = arg
		}
	}
	fmt.Println(strings.Join(quoted, " "))
	fmt.Println()

	fmt.Println("Final query text:")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println(req.TextQuery)
	fmt.Println(strings.Repeat("-", 40))
}
