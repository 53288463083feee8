package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// directoryTree renders the structure beneath root as an indented tree with
// per-file sizes, suitable for embedding in the text query. Dot entries are
// skipped.
func directoryTree(root string) (string, error) {
	var b strings.Builder
	if err := writeTreeLevel(&b, root, ""); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeTreeLevel(b *strings.Builder, dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var files, dirs []os.DirEntry
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, e)
		} else if e.Type().IsRegular() {
			files = append(files, e)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })

	total := len(files) + len(dirs)
	written := 0

	connector := func() (string, string) {
		written++
		if written == total {
			return "└── ", "    "
		}
		return "├── ", "│   "
	}

	for _, f := range files {
		branch, _ := connector()
		size := int64(0)
		if info, err := f.Info(); err == nil {
			size = info.Size()
		}
		fmt.Fprintf(b, "%s%s📄 %s (%s)\n", prefix, branch, f.Name(), humanSize(size))
	}
	for _, d := range dirs {
		branch, indent := connector()
		fmt.Fprintf(b, "%s%s📁 %s/\n", prefix, branch, d.Name())
		if err := writeTreeLevel(b, filepath.Join(dir, d.Name()), prefix+indent); err != nil {
			return err
		}
	}
	return nil
}

// humanSize renders a byte count the way the tree and confirmation prompt
// display it.
func humanSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	}
}
