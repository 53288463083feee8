// Package parser turns shell-split command-line arguments into a single
// request: it resolves quoted text, classifies bare words as query text or
// file references, loads referenced files according to the size policy, and
// assembles the final text query with embedded file blocks.
package parser

// IncludeMode selects how a file's bytes enter the final request.
type IncludeMode string

const (
	// IncludeFull embeds the whole file (raw text, or hex for binary files).
	IncludeFull IncludeMode = "full"
	// IncludeTruncated embeds only the head and tail of a binary file as hex.
	IncludeTruncated IncludeMode = "truncated"
	// IncludeAsFile keeps the file out of the text query; its bytes are
	// handed to the dispatch layer for an out-of-band upload.
	IncludeAsFile IncludeMode = "as_file"
)

// FileInfo describes one resolved file reference.
type FileInfo struct {
	// Path is the absolute, cleaned filesystem path.
	Path string
	// IsBinary is decided by content sniffing, never by extension.
	IsBinary bool
	// Size is the byte length observed at classification time.
	Size int64
	// IncludeMode is chosen once during loading and never revised.
	IncludeMode IncludeMode
	// Content holds the embeddable payload (raw text or hex). Empty when
	// IncludeMode is IncludeAsFile.
	Content string
}

// Request is the assembled request handed to the dispatch layer.
type Request struct {
	// TextQuery is the joined text tokens followed by embedded file blocks.
	TextQuery string
	// Provider names the downstream dispatch target. The parser treats it
	// as opaque; validation belongs to the provider factory.
	Provider string
	// Interactive and DryRun are copied through from the CLI flags.
	Interactive bool
	DryRun      bool
	// Files lists loaded files in the order their arguments appeared.
	Files []FileInfo
	// RawArgs echoes the original argv for diagnostics and dry-run output.
	RawArgs []string
}
