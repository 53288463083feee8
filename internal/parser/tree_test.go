package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func buildTestTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "file1.py", []byte("print('hello')\n"))
	writeFile(t, dir, "file2.txt", []byte("some content\n"))
	if err := os.MkdirAll(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "subdir"), "file3.py", []byte("def test(): pass\n"))
	return dir
}

func TestDirectoryTree(t *testing.T) {
	dir := buildTestTree(t)

	tree, err := directoryTree(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"├── 📄 file1.py (15B)",
		"├── 📄 file2.txt (13B)",
		"└── 📁 subdir/",
		"    └── 📄 file3.py (17B)",
	} {
		if !strings.Contains(tree, want) {
			t.Errorf("tree missing %q:\n%s", want, tree)
		}
	}
}

func TestDirectoryPatternEmbedsTreeWithoutFiles(t *testing.T) {
	dir := buildTestTree(t)
	p := newTestParser(t, dir, nil)

	req, err := p.Parse(context.Background(), []string{"analyze", "."})
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Files) != 0 {
		t.Fatalf("Files = %d, want 0: bare directory patterns embed a tree only", len(req.Files))
	}
	if !strings.HasPrefix(req.TextQuery, "analyze\n\n#### Directory structure:") {
		t.Errorf("TextQuery = %q", req.TextQuery)
	}
	if !strings.Contains(req.TextQuery, "📁 subdir/") {
		t.Errorf("tree block missing from TextQuery:\n%s", req.TextQuery)
	}
}

func TestWildcardPatternIncludesDirectoryFiles(t *testing.T) {
	dir := buildTestTree(t)
	p := newTestParser(t, dir, nil)

	req, err := p.Parse(context.Background(), []string{"analyze", "./*"})
	if err != nil {
		t.Fatal(err)
	}
	// Non-recursive: file1.py and file2.txt, not subdir/file3.py.
	if len(req.Files) != 2 {
		t.Fatalf("Files = %d, want 2", len(req.Files))
	}
	if strings.Contains(req.TextQuery, "file3.py") {
		t.Error("single * matched recursively")
	}
}

func TestRecursiveWildcardIncludesNestedFiles(t *testing.T) {
	dir := buildTestTree(t)
	p := newTestParser(t, dir, nil)

	req, err := p.Parse(context.Background(), []string{"analyze", "./**"})
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Files) != 3 {
		t.Fatalf("Files = %d, want 3", len(req.Files))
	}
	if !strings.Contains(req.TextQuery, "### ./subdir/file3.py ###") {
		t.Errorf("nested file block missing:\n%s", req.TextQuery)
	}
}

func TestWildcardWithoutExistingBaseStaysText(t *testing.T) {
	p := newTestParser(t, t.TempDir(), nil)

	req, err := p.Parse(context.Background(), []string{"find", "missing/*.py"})
	if err != nil {
		t.Fatal(err)
	}
	if req.TextQuery != "find missing/*.py" {
		t.Errorf("TextQuery = %q", req.TextQuery)
	}
	if len(req.Files) != 0 {
		t.Errorf("Files = %d, want 0", len(req.Files))
	}
}
