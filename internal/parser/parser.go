package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyQuery is returned when no query text remains after flags and file
// paths are stripped. A request with no text is never dispatched silently.
var ErrEmptyQuery = errors.New(`no query text provided (e.g. doq "explain this" file.py)`)

// Options configures a Parser. Flag-derived fields (Provider, Interactive,
// DryRun, RawArgs) are copied through to the Request unchanged; the parser
// never interprets them.
type Options struct {
	// WorkingDir anchors relative paths. Defaults to the process working
	// directory.
	WorkingDir string

	Provider    string
	Interactive bool
	DryRun      bool
	RawArgs     []string

	// UploadCapable marks the resolved provider as able to accept file
	// bytes out-of-band. When set, loaded files are kept as metadata only.
	UploadCapable bool

	// LargeFileThreshold is the size above which the confirmation gate
	// fires. Defaults to 10 MiB.
	LargeFileThreshold int64
	// BinaryTruncateBytes is the head/tail window for truncated binary
	// embedding. Defaults to 1024.
	BinaryTruncateBytes int
	// SniffLen is how many leading bytes the binary sniffer examines.
	// Defaults to 8192.
	SniffLen int
	// NonTextRatio is the share of invalid-UTF-8 bytes above which a file
	// without NUL bytes still classifies as binary. Defaults to 0.3.
	NonTextRatio float64

	// Confirm is the large-file confirmation gate. Defaults to DeclineAll.
	Confirm ConfirmFunc
	// Warn receives non-fatal omission warnings. Defaults to os.Stderr.
	Warn io.Writer
}

const (
	defaultLargeFileThreshold  = 10 * 1024 * 1024
	defaultBinaryTruncateBytes = 1024
	defaultSniffLen            = 8192
	defaultNonTextRatio        = 0.3
)

// Parser assembles Requests from raw arguments. A Parser is built fresh per
// invocation and is not safe for concurrent use.
type Parser struct {
	opts   Options
	loader *loader
}

// New returns a Parser with defaults applied for any zero-valued option.
func New(opts Options) *Parser {
	if opts.WorkingDir == "" {
		opts.WorkingDir, _ = os.Getwd()
	}
	if opts.LargeFileThreshold == 0 {
		opts.LargeFileThreshold = defaultLargeFileThreshold
	}
	if opts.BinaryTruncateBytes == 0 {
		opts.BinaryTruncateBytes = defaultBinaryTruncateBytes
	}
	if opts.SniffLen == 0 {
		opts.SniffLen = defaultSniffLen
	}
	if opts.NonTextRatio == 0 {
		opts.NonTextRatio = defaultNonTextRatio
	}
	if opts.Confirm == nil {
		opts.Confirm = DeclineAll
	}
	if opts.Warn == nil {
		opts.Warn = os.Stderr
	}
	p := &Parser{opts: opts}
	p.loader = &loader{opts: &p.opts}
	return p
}

// Parse tokenizes args, classifies bare tokens, loads file references and
// assembles the final Request. Arguments are processed strictly in order;
// the order of Files and of embedded blocks is part of the contract.
//
// Files that are unreadable or declined at the confirmation gate are omitted
// with a warning. The only errors are cancellation and an empty query.
func (p *Parser) Parse(ctx context.Context, args []string) (*Request, error) {
	var (
		textParts []string
		blocks    []string
		files     []FileInfo
	)

	appendFile := func(path string) error {
		fi, err := p.loader.load(ctx, path)
		if err != nil {
			return err
		}
		if fi == nil {
			return nil
		}
		files = append(files, *fi)
		if fi.IncludeMode != IncludeAsFile {
			blocks = append(blocks, p.formatBlock(fi))
		}
		return nil
	}

	for _, tok := range Tokenize(args) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tok.Quoted {
			textParts = append(textParts, tok.Text)
			continue
		}

		kind, resolved := p.classify(tok.Text)
		switch kind {
		case kindFile:
			if err := appendFile(resolved); err != nil {
				return nil, err
			}
		case kindDir:
			tree, err := directoryTree(resolved)
			if err != nil {
				fmt.Fprintf(p.opts.Warn, "doq: skipping %s: %v\n", resolved, err)
				continue
			}
			blocks = append(blocks, fmt.Sprintf("#### Directory structure: %s ####\n%s", p.displayPath(resolved), tree))
		case kindGlob:
			matches, err := expandGlob(resolved)
			if err != nil {
				fmt.Fprintf(p.opts.Warn, "doq: skipping %s: %v\n", tok.Text, err)
				continue
			}
			for _, m := range matches {
				if err := appendFile(m); err != nil {
					return nil, err
				}
			}
		default:
			textParts = append(textParts, tok.Text)
		}
	}

	if len(textParts) == 0 {
		return nil, ErrEmptyQuery
	}

	query := strings.Join(textParts, " ")
	for _, b := range blocks {
		query += "\n\n" + b
	}

	return &Request{
		TextQuery:   strings.TrimSpace(query),
		Provider:    p.opts.Provider,
		Interactive: p.opts.Interactive,
		DryRun:      p.opts.DryRun,
		Files:       files,
		RawArgs:     p.opts.RawArgs,
	}, nil
}

// formatBlock renders the embedded header+content block for a loaded file.
// The format is a wire contract:
//
//	### ./<relpath> ###\n<raw text>
//	### ./<relpath> (binary, <N> bytes) ###\n<hex>
func (p *Parser) formatBlock(fi *FileInfo) string {
	name := p.displayPath(fi.Path)
	if fi.IsBinary {
		return fmt.Sprintf("### %s (binary, %d bytes) ###\n%s", name, fi.Size, fi.Content)
	}
	return fmt.Sprintf("### %s ###\n%s", name, fi.Content)
}

// displayPath renders a path ./-relative to the working directory when it is
// inside it, and absolute otherwise.
func (p *Parser) displayPath(path string) string {
	rel, err := filepath.Rel(p.opts.WorkingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return "."
	}
	return "./" + filepath.ToSlash(rel)
}
