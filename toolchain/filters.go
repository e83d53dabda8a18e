package toolchain

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	SoftFilterFile = "softFilterFile"
	HardFilterFile = "hardFilterFile"
)

// QuotePattern quotes s as a literal for the toolchain's regular expressions.
func QuotePattern(s string) string {
	if !strings.Contains(s, `\E`) {
		return `\Q` + s + `\E`
	}
	return `\Q` + strings.ReplaceAll(s, `\E`, `\E\\E\Q`) + `\E`
}

// SoftFilter excludes everything and includes either the inventory files or,
// when nothing was filtered, the source directories.
func SoftFilter(inv *Inventory, incremental bool) string {
	var b strings.Builder
	b.WriteString("-.*\n")
	if inv.Filtered || incremental {
		for _, f := range inv.Files {
			b.WriteString("+" + QuotePattern(f.Abs) + "\n")
		}
		return b.String()
	}
	for _, d := range inv.SourceDirs {
		b.WriteString("+" + QuotePattern(d+string(filepath.Separator)) + "\n")
	}
	return b.String()
}

// HardFilter excludes each pattern.
func HardFilter(exclusions []string) string {
	var b strings.Builder
	for _, e := range exclusions {
		b.WriteString("-" + e + "\n")
	}
	return b.String()
}

// WriteFilter writes content to <workDir>/<name> and returns the path.
func WriteFilter(fs afero.Fs, workDir, name, content string) (string, error) {
	workDir = strings.TrimSuffix(strings.TrimSuffix(workDir, `\.`), "/.")
	if err := fs.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory %s: %w", workDir, err)
	}
	path := filepath.Join(workDir, name)
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write filter file %s: %w", path, err)
	}
	return path, nil
}
