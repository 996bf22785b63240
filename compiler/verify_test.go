package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteArtifactsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	artifacts := compileKuhn(t)

	changed, err := WriteArtifacts(dir, artifacts)
	require.NoError(t, err)
	require.Len(t, changed, len(artifacts), "fresh directory should write everything")

	// Verification is repeatable: up to date stays up to date.
	require.NoError(t, VerifyArtifacts(dir, artifacts))
	require.NoError(t, VerifyArtifacts(dir, artifacts))

	// A second write is a no-op.
	changed, err = WriteArtifacts(dir, artifacts)
	require.NoError(t, err)
	require.Empty(t, changed)
}

func TestVerifyArtifactsDetectsDrift(t *testing.T) {
	dir := t.TempDir()
	artifacts := compileKuhn(t)

	_, err := WriteArtifacts(dir, artifacts)
	require.NoError(t, err)

	stalePath := filepath.Join(dir, "python", "contract.py")
	require.NoError(t, os.WriteFile(stalePath, []byte("# edited by hand\n"), 0o644))

	err = VerifyArtifacts(dir, artifacts)
	var drift *DriftError
	require.ErrorAs(t, err, &drift)
	require.Equal(t, []string{"python/contract.py"}, drift.Stale)
}

func TestVerifyArtifactsMissingFileIsStale(t *testing.T) {
	dir := t.TempDir()
	artifacts := compileKuhn(t)

	_, err := WriteArtifacts(dir, artifacts)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "go", "contract.go")))

	err = VerifyArtifacts(dir, artifacts)
	var drift *DriftError
	require.ErrorAs(t, err, &drift)
	require.Equal(t, []string{"go/contract.go"}, drift.Stale)
}

// VerifyArtifacts must never repair drift itself.
func TestVerifyArtifactsDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	artifacts := compileKuhn(t)

	err := VerifyArtifacts(dir, artifacts)
	var drift *DriftError
	require.ErrorAs(t, err, &drift)
	require.Len(t, drift.Stale, len(artifacts))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
