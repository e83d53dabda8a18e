package toolchain

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/spf13/afero"
)

var (
	ErrResultsDirNotFound = errors.New("could not load results directory")
	ErrNoResults          = errors.New("no timestamped results found")
)

var timestampDir = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}[-_][0-9]{2}-[0-9]{2}-[0-9]{2}$`)

// ResultsDir returns <resultsRoot>/<projectName>/<languageKey>. A relative
// root that does not exist is retried relative to baseDir.
func ResultsDir(fs afero.Fs, resultsRoot, baseDir, projectName, languageKey string) (string, error) {
	dir := filepath.Join(resultsRoot, projectName, languageKey)
	if ok, _ := afero.DirExists(fs, dir); ok {
		return dir, nil
	}

	alt := filepath.Join(baseDir, dir)
	if ok, _ := afero.DirExists(fs, alt); ok {
		return alt, nil
	}
	return "", fmt.Errorf("%w: %s", ErrResultsDirNotFound, alt)
}

// LatestResultsDir returns the newest child of dir named like 2006-01-02-15-04-05.
func LatestResultsDir(fs afero.Fs, dir string) (string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", fmt.Errorf("failed to list results directory %s: %w", dir, err)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() && timestampDir.MatchString(info.Name()) {
			names = append(names, info.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoResults, dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

// GraphPath locates the result graph of the latest run.
func GraphPath(fs afero.Fs, resultsRoot, baseDir, projectName, languageKey string) (string, error) {
	dir, err := ResultsDir(fs, resultsRoot, baseDir, projectName, languageKey)
	if err != nil {
		return "", err
	}
	latest, err := LatestResultsDir(fs, dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(latest, projectName+".graph"), nil
}

// CopyPreviewState copies <root>/<p>/<p>.gsi to <root>/<p><suffix>/<p><suffix>.gsi.
// A stale target is removed when the source does not exist.
func CopyPreviewState(fs afero.Fs, resultsRoot, projectName, suffix string) error {
	from := filepath.Join(resultsRoot, projectName, projectName+".gsi")
	to := filepath.Join(resultsRoot, projectName+suffix, projectName+suffix+".gsi")

	exists, err := afero.Exists(fs, from)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", from, err)
	}
	if !exists {
		if ok, _ := afero.Exists(fs, to); ok {
			if err := fs.Remove(to); err != nil {
				return fmt.Errorf("failed to delete %s: %w", to, err)
			}
		}
		return nil
	}

	data, err := afero.ReadFile(fs, from)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", from, err)
	}
	if err := fs.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(to), err)
	}
	if err := afero.WriteFile(fs, to, data, 0o644); err != nil {
		return fmt.Errorf("failed to copy .gsi file: %w", err)
	}
	return nil
}
