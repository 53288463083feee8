package main

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"
)

func setupRun(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	return dir
}

func TestRunDryRun(t *testing.T) {
	dir := setupRun(t)
	if err := os.WriteFile(filepath.Join(dir, "script.py"), []byte("print(1)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run([]string{"--dry-run", "Explain this", "script.py"}); code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
}

func TestRunUnknownProvider(t *testing.T) {
	setupRun(t)
	if code := run([]string{"--llm=nope", "hello"}); code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
}

func TestRunEmptyQuery(t *testing.T) {
	setupRun(t)
	if code := run([]string{"--dry-run"}); code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
}

func TestRunNoArguments(t *testing.T) {
	setupRun(t)
	if code := run(nil); code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
}

func TestRunHelp(t *testing.T) {
	setupRun(t)
	if code := run([]string{"--help"}); code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
}

func TestPreviewText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short passes through", "hello", 200, "hello"},
		{"ascii cut", "abcdef", 3, "abc..."},
		{"exact length untouched", "abcdef", 6, "abcdef"},
		{"cut lands inside a multibyte rune", "что", 3, "ч..."},
		{"cyrillic cut on boundary", "что такое", 6, "что..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := previewText(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("previewText(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("previewText(%q, %d) produced invalid UTF-8", tt.in, tt.n)
			}
		})
	}
}
