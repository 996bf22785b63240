package compiler

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kuhnforge/gamecore/contract"
)

const testSource = "contracts/kuhn.v1.json"

func compileKuhn(t *testing.T) []Artifact {
	t.Helper()
	artifacts, err := Compile(contract.Kuhn(), testSource)
	require.NoError(t, err)
	return artifacts
}

func artifactByTarget(t *testing.T, artifacts []Artifact, target string) Artifact {
	t.Helper()
	for _, a := range artifacts {
		if a.Target == target {
			return a
		}
	}
	t.Fatalf("no %s artifact", target)
	return Artifact{}
}

func TestCompileRejectsInvalidContract(t *testing.T) {
	doc := contract.Kuhn()
	doc.Actions[1].ID = 7

	_, err := Compile(doc, testSource)
	require.Error(t, err)
}

func TestCompileCoversAllTargets(t *testing.T) {
	artifacts := compileKuhn(t)
	require.Len(t, artifacts, 3)
	require.Equal(t, "go/contract.go", artifactByTarget(t, artifacts, "go").Filename)
	require.Equal(t, "python/contract.py", artifactByTarget(t, artifacts, "python").Filename)
	require.Equal(t, "typescript/contract.ts", artifactByTarget(t, artifacts, "typescript").Filename)
}

func TestCompileIsDeterministic(t *testing.T) {
	first := compileKuhn(t)
	second := compileKuhn(t)

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.True(t, bytes.Equal(first[i].Content, second[i].Content),
			"artifact %s differs between runs", first[i].Filename)
	}
}

// Author ordering in the document must not leak into the artifacts.
func TestCompileCanonicalizesOrdering(t *testing.T) {
	canonical := compileKuhn(t)

	shuffled := contract.Kuhn()
	shuffled.Actions[0], shuffled.Actions[2] = shuffled.Actions[2], shuffled.Actions[0]
	shuffled.Observation.Segments[0], shuffled.Observation.Segments[2] =
		shuffled.Observation.Segments[2], shuffled.Observation.Segments[0]
	shuffled.Observation.HistoryBuckets[1], shuffled.Observation.HistoryBuckets[3] =
		shuffled.Observation.HistoryBuckets[3], shuffled.Observation.HistoryBuckets[1]

	artifacts, err := Compile(shuffled, testSource)
	require.NoError(t, err)
	for i := range canonical {
		require.True(t, bytes.Equal(canonical[i].Content, artifacts[i].Content),
			"artifact %s depends on declaration order", canonical[i].Filename)
	}
}

func TestCompileDoesNotMutateInput(t *testing.T) {
	doc := contract.Kuhn()
	doc.Actions[0], doc.Actions[2] = doc.Actions[2], doc.Actions[0]

	_, err := Compile(doc, testSource)
	require.NoError(t, err)
	require.Equal(t, contract.ActionFold, doc.Actions[0].ID)
}

func TestGoArtifactContent(t *testing.T) {
	content := string(artifactByTarget(t, compileKuhn(t), "go").Content)

	require.True(t, strings.HasPrefix(content,
		"// Code generated by contractgen from contracts/kuhn.v1.json. DO NOT EDIT."))
	require.Contains(t, content, "package gamecontract")
	require.Contains(t, content, "ActionCheckCall = 0")
	require.Contains(t, content, `"p0_response": {1, 0, 1},`)
	require.Contains(t, content, "ObservationDim = 10")
	require.Contains(t, content, `"check|bet": 3,`)
	require.Contains(t, content, "const ObsTerminalHistoryIndex = 4")
	require.Contains(t, content, `ONNXOutputMaskedLogitsName = "masked_logits"`)
}

func goMapEntries(t *testing.T, content, header string) map[string]string {
	t.Helper()
	_, rest, ok := strings.Cut(content, header)
	require.True(t, ok, "missing %s", header)
	body, _, ok := strings.Cut(rest, "\n}")
	require.True(t, ok, "unterminated %s", header)

	entries := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		entries[key] = strings.TrimSuffix(strings.TrimSpace(val), ",")
	}
	return entries
}

// The rendered id and name maps must be inverses of each other for any
// valid document, not just the canonical Kuhn one.
func TestGoActionMapsAreInverses(t *testing.T) {
	doc := contract.Kuhn()
	doc.Actions[1].Name = "raise_wager"
	doc.Actions[0], doc.Actions[2] = doc.Actions[2], doc.Actions[0]

	artifacts, err := Compile(doc, testSource)
	require.NoError(t, err)
	content := string(artifactByTarget(t, artifacts, "go").Content)

	nameByID := goMapEntries(t, content, "var ActionNameByID = map[int]string{")
	idByName := goMapEntries(t, content, "var ActionIDByName = map[string]int{")
	require.Len(t, nameByID, len(doc.Actions))
	require.Len(t, idByName, len(doc.Actions))

	for i := 0; i < len(doc.Actions); i++ {
		id := strconv.Itoa(i)
		name, ok := nameByID[id]
		require.True(t, ok, "no entry for id %s", id)
		require.Equal(t, id, idByName[name], "id %s does not round-trip through %s", id, name)
	}
	require.Contains(t, idByName, `"raise_wager"`)
}

func TestPythonArtifactContent(t *testing.T) {
	content := string(artifactByTarget(t, compileKuhn(t), "python").Content)

	require.Contains(t, content, "CONTRACT_NAME: Final[str] = 'kuhn_poker'")
	require.Contains(t, content, "ACTION_DIM: Final[int] = 3")
	require.Contains(t, content, "(4, None)")
	require.Contains(t, content, "{(): 0, ('check',): 1, ('bet',): 2, ('check', 'bet'): 3}")
	require.Contains(t, content, "'terminal': (0, 0, 0)")
	require.Contains(t, content, "ONNX_VALUE_DIM: Final[int] = 1")
}

func TestTypeScriptArtifactContent(t *testing.T) {
	content := string(artifactByTarget(t, compileKuhn(t), "typescript").Content)

	require.Contains(t, content, `export const CONTRACT_NAME = "kuhn_poker" as const`)
	require.Contains(t, content, "export const ACTION_CHECK_CALL = 0 as const")
	require.Contains(t, content, "export type ActionMask = readonly [number, number, number]")
	require.Contains(t, content, "{ index: 4, sequence: null },")
	require.Contains(t, content, "as const satisfies Record<Phase, ActionMask>")
	require.Contains(t, content, "export const OBS_TERMINAL_HISTORY_INDEX = 4 as const")
}

// The bindings committed in the repository must match a fresh render of
// the committed contract exactly.
func TestCommittedBindingsAreCurrent(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", testSource))
	require.NoError(t, err)
	doc, err := contract.Parse(data)
	require.NoError(t, err)

	artifacts, err := Compile(doc, testSource)
	require.NoError(t, err)
	require.NoError(t, VerifyArtifacts("../bindings", artifacts))
}
