package parser

import (
	"os"
	"path/filepath"
	"strings"
)

// pathKind is the classification of a bare token.
type pathKind int

const (
	kindText pathKind = iota
	kindFile
	kindDir
	kindGlob
)

// classify decides what a bare token denotes. Only tokens that resolve to an
// existing regular file become file references; tokens that merely look like
// paths stay query text. Directory tokens and wildcard patterns over an
// existing directory are recognized so the parser can embed a structure tree
// or expand the pattern to its files.
func (p *Parser) classify(token string) (pathKind, string) {
	if token == "" {
		return kindText, ""
	}

	resolved := p.resolve(token)

	if strings.Contains(token, "*") {
		base := globBase(resolved)
		if info, err := os.Stat(base); err == nil && info.IsDir() {
			return kindGlob, resolved
		}
		return kindText, ""
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return kindText, ""
	}
	switch {
	case info.Mode().IsRegular():
		return kindFile, resolved
	case info.IsDir():
		return kindDir, resolved
	default:
		// Sockets, devices and other specials are never file references.
		return kindText, ""
	}
}

// resolve expands a leading ~ and makes the token absolute against the
// parser's working directory.
func (p *Parser) resolve(token string) string {
	token = expandHome(token)
	if !filepath.IsAbs(token) {
		token = filepath.Join(p.opts.WorkingDir, token)
	}
	return filepath.Clean(token)
}

// expandHome rewrites ~ and ~/... against the current user's home directory.
func expandHome(token string) string {
	if token != "~" && !strings.HasPrefix(token, "~/") {
		return token
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return token
	}
	if token == "~" {
		return home
	}
	return filepath.Join(home, token[2:])
}

// globBase returns the deepest directory prefix of a pattern that contains
// no wildcard, e.g. /w/src for /w/src/*.py.
func globBase(pattern string) string {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return pattern
	}
	return filepath.Dir(pattern[:star+1])
}

// expandGlob lists the regular files a wildcard pattern matches, in lexical
// order. A ** pattern walks the base directory recursively; a single *
// matches within one directory level.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return walkFiles(globBase(pattern))
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	return files, nil
}

// walkFiles collects every regular file beneath root, skipping dot entries.
func walkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
