package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// SourceFile is a file handed to the toolchain.
type SourceFile struct {
	Rel string // slash separated, relative to the base directory
	Abs string
}

// Inventory lists the source files of one language.
type Inventory struct {
	BaseDir    string
	SourceDirs []string
	Files      []SourceFile
	// Filtered is set when inclusion or exclusion patterns were applied.
	Filtered bool
}

// InventoryOptions select the files of an Inventory.
type InventoryOptions struct {
	BaseDir    string
	SourceDirs []string
	Inclusions []string
	Exclusions []string
	IsSource   func(path string) bool
}

// Scan walks the source directories and collects the matching files. Missing
// source directories are skipped.
func Scan(fs afero.Fs, opts InventoryOptions) (*Inventory, error) {
	for _, p := range append(append([]string(nil), opts.Inclusions...), opts.Exclusions...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid file pattern %q", p)
		}
	}

	inv := &Inventory{
		BaseDir:  opts.BaseDir,
		Filtered: len(opts.Inclusions) > 0 || len(opts.Exclusions) > 0,
	}
	dirs := opts.SourceDirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	seen := make(map[string]bool)
	for _, d := range dirs {
		root := d
		if !filepath.IsAbs(root) {
			root = filepath.Join(opts.BaseDir, d)
		}
		if ok, _ := afero.DirExists(fs, root); !ok {
			continue
		}
		inv.SourceDirs = append(inv.SourceDirs, root)

		err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || seen[path] {
				return nil
			}
			if opts.IsSource != nil && !opts.IsSource(path) {
				return nil
			}
			rel, err := filepath.Rel(opts.BaseDir, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if !selected(rel, opts.Inclusions, opts.Exclusions) {
				return nil
			}
			seen[path] = true
			inv.Files = append(inv.Files, SourceFile{Rel: rel, Abs: path})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	sort.Slice(inv.Files, func(i, j int) bool { return inv.Files[i].Rel < inv.Files[j].Rel })
	return inv, nil
}

func selected(rel string, inclusions, exclusions []string) bool {
	if len(inclusions) > 0 && !matchAny(inclusions, rel) {
		return false
	}
	return !matchAny(exclusions, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.TrimPrefix(p, "/"), rel); ok {
			return true
		}
	}
	return false
}

// NotAnalyzedExclusions returns a **/path exclusion for every inventory file
// missing from included, which holds lowercase slash separated paths.
func NotAnalyzedExclusions(inv *Inventory, included map[string]bool) []string {
	base := strings.ToLower(filepath.ToSlash(inv.BaseDir))
	var out []string
	for _, f := range inv.Files {
		path := filepath.ToSlash(f.Abs)
		if included[strings.ToLower(path)] {
			continue
		}
		rest := path
		if len(path) >= len(base) && strings.ToLower(path[:len(base)]) == base {
			rest = path[len(base):]
		}
		out = append(out, "**"+rest)
	}
	return out
}

// Exclude drops the files matching any of the patterns and returns how many
// were dropped.
func (inv *Inventory) Exclude(patterns []string) int {
	if len(patterns) == 0 {
		return 0
	}
	kept := make([]SourceFile, 0, len(inv.Files))
	for _, f := range inv.Files {
		if !matchAny(patterns, f.Rel) {
			kept = append(kept, f)
		}
	}
	n := len(inv.Files) - len(kept)
	inv.Files = kept
	if n > 0 {
		inv.Filtered = true
	}
	return n
}
