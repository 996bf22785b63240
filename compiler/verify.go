package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DriftError reports committed binding files that no longer match a fresh
// render of the contract.
type DriftError struct {
	// Stale holds the affected paths relative to the bindings root, in
	// artifact order.
	Stale []string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("generated bindings are out of date: %s", strings.Join(e.Stale, ", "))
}

// WriteArtifacts writes each artifact under dir, creating target
// subdirectories as needed. Files already matching the rendered content
// are left untouched; the returned paths are the ones that changed.
func WriteArtifacts(dir string, artifacts []Artifact) ([]string, error) {
	var changed []string
	for _, a := range artifacts {
		path := filepath.Join(dir, filepath.FromSlash(a.Filename))
		current, err := os.ReadFile(path)
		if err == nil && bytes.Equal(current, a.Content) {
			continue
		}
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s bindings: %w", a.Target, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s bindings directory: %w", a.Target, err)
		}
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s bindings: %w", a.Target, err)
		}
		changed = append(changed, a.Filename)
	}
	return changed, nil
}

// VerifyArtifacts compares each artifact against the file committed under
// dir without writing anything. A missing file counts as stale. It returns
// a *DriftError listing every mismatch, or nil when everything is current.
func VerifyArtifacts(dir string, artifacts []Artifact) error {
	var stale []string
	for _, a := range artifacts {
		path := filepath.Join(dir, filepath.FromSlash(a.Filename))
		current, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				stale = append(stale, a.Filename)
				continue
			}
			return fmt.Errorf("reading %s bindings: %w", a.Target, err)
		}
		if !bytes.Equal(current, a.Content) {
			stale = append(stale, a.Filename)
		}
	}
	if len(stale) > 0 {
		return &DriftError{Stale: stale}
	}
	return nil
}
