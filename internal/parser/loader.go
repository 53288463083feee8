package parser

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ConfirmFunc decides whether a file above the large-file threshold should
// still be included. It receives the path as given and the file size in
// bytes. Non-interactive callers must supply a fixed policy (for example
// auto-decline) instead of a blocking prompt.
type ConfirmFunc func(path string, size int64) bool

// DeclineAll is the fixed confirmation policy for non-interactive runs.
func DeclineAll(string, int64) bool { return false }

// loader resolves one classified path into a FileInfo, applying the binary
// sniffing heuristics and the size policy.
type loader struct {
	opts *Options
}

// load produces a FileInfo for path, or nil when the file is omitted
// (unreadable, or declined at the confirmation gate). Omission is never an
// error; a non-nil error only reports cancellation.
func (l *loader) load(ctx context.Context, path string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		l.warnf("skipping %s: %v", path, err)
		return nil, nil
	}
	size := info.Size()

	isBinary, err := l.sniff(path)
	if err != nil {
		// Existence was already established, so a failed read stays an
		// unreadable-file omission rather than a reclassification to text.
		l.warnf("skipping %s: %v", path, err)
		return nil, nil
	}

	large := size > l.opts.LargeFileThreshold
	if large && !l.opts.Confirm(path, size) {
		return nil, nil
	}

	fi := &FileInfo{
		Path:        path,
		IsBinary:    isBinary,
		Size:        size,
		IncludeMode: IncludeFull,
	}

	switch {
	case l.opts.UploadCapable:
		// Upload-capable targets take the bytes out-of-band; nothing is
		// embedded and no content is loaded here.
		fi.IncludeMode = IncludeAsFile
		return fi, nil
	case large && isBinary && size > int64(2*l.opts.BinaryTruncateBytes):
		fi.IncludeMode = IncludeTruncated
	}

	content, isBinary, err := l.loadContent(path, isBinary, fi.IncludeMode, size)
	if err != nil {
		l.warnf("skipping %s: %v", path, err)
		return nil, nil
	}
	fi.IsBinary = isBinary
	fi.Content = content
	return fi, nil
}

// sniff reads the first chunk of a file and classifies it binary when it
// contains a NUL byte or too high a share of bytes that fail UTF-8 decoding.
// Both thresholds come from the parser options so boundary cases can be
// exercised deterministically.
func (l *loader) sniff(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	chunk := make([]byte, l.opts.SniffLen)
	n, err := io.ReadFull(f, chunk)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	chunk = chunk[:n]
	if n == 0 {
		return false, nil
	}

	invalid := 0
	for i := 0; i < len(chunk); {
		if chunk[i] == 0 {
			return true, nil
		}
		r, size := utf8.DecodeRune(chunk[i:])
		if r == utf8.RuneError && size == 1 {
			invalid++
		}
		i += size
	}
	return float64(invalid)/float64(len(chunk)) > l.opts.NonTextRatio, nil
}

// loadContent reads the embeddable payload for a file. Text files embed raw
// text; binary files embed hex, truncated to head and tail when the file is
// above the large-file threshold. The handle is released on every exit path.
func (l *loader) loadContent(path string, isBinary bool, mode IncludeMode, size int64) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", isBinary, err
	}
	defer f.Close()

	if mode == IncludeTruncated {
		content, err := truncatedHex(f, size, l.opts.BinaryTruncateBytes)
		return content, isBinary, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", isBinary, err
	}
	// The sniffer only sees the head of the file; a binary tail past
	// that window would otherwise pass through as raw text.
	if !isBinary && !utf8.Valid(data) {
		isBinary = true
	}
	if isBinary {
		return hex.EncodeToString(data), isBinary, nil
	}
	return string(data), isBinary, nil
}

// truncatedHex reads only the first and last n bytes of a large binary file
// and joins their hex encodings with a marker carrying the true byte count.
func truncatedHex(f *os.File, size int64, n int) (string, error) {
	head := make([]byte, n)
	if _, err := io.ReadFull(f, head); err != nil {
		return "", err
	}
	tail := make([]byte, n)
	if _, err := f.ReadAt(tail, size-int64(n)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s...%d...%s", hex.EncodeToString(head), size, hex.EncodeToString(tail)), nil
}

func (l *loader) warnf(format string, args ...any) {
	fmt.Fprintf(l.opts.Warn, "doq: "+format+"\n", args...)
}
