package compiler

import (
	"fmt"
	"strings"

	"github.com/kuhnforge/gamecore/contract"
)

// pythonRenderer emits a module of Final-annotated constants in Python's
// repr notation, so the artifact reads as if printed by the interpreter.
type pythonRenderer struct{}

func (pythonRenderer) Target() string   { return "python" }
func (pythonRenderer) Filename() string { return "python/contract.py" }

func pyStr(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// pyStrTuple matches repr of a tuple of strings, trailing comma for a
// single element included.
func pyStrTuple(values []string) string {
	switch len(values) {
	case 0:
		return "()"
	case 1:
		return "(" + pyStr(values[0]) + ",)"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = pyStr(v)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

func pyIntTuple(values []int) string {
	switch len(values) {
	case 0:
		return "()"
	case 1:
		return fmt.Sprintf("(%d,)", values[0])
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = fmt.Sprintf("%d", v)
	}
	return "(" + strings.Join(rendered, ", ") + ")"
}

func pyDict(entries [][2]string) string {
	rendered := make([]string, len(entries))
	for i, e := range entries {
		rendered[i] = e[0] + ": " + e[1]
	}
	return "{" + strings.Join(rendered, ", ") + "}"
}

func (pythonRenderer) Render(doc *contract.Document, source string) ([]byte, error) {
	ent := doc.Entities
	tm := doc.TurnModel
	obs := doc.Observation

	card, ok := doc.SegmentByName(contract.SegmentPrivateCard)
	if !ok {
		return nil, fmt.Errorf("missing observation segment %q", contract.SegmentPrivateCard)
	}
	history, ok := doc.SegmentByName(contract.SegmentPublicHistory)
	if !ok {
		return nil, fmt.Errorf("missing observation segment %q", contract.SegmentPublicHistory)
	}
	actor, ok := doc.SegmentByName(contract.SegmentCurrentActor)
	if !ok {
		return nil, fmt.Errorf("missing observation segment %q", contract.SegmentCurrentActor)
	}

	idByName := make([][2]string, len(doc.Actions))
	nameByID := make([][2]string, len(doc.Actions))
	openByID := make([][2]string, len(doc.Actions))
	respByID := make([][2]string, len(doc.Actions))
	for i, a := range doc.Actions {
		id := fmt.Sprintf("%d", a.ID)
		idByName[i] = [2]string{pyStr(a.Name), id}
		nameByID[i] = [2]string{id, pyStr(a.Name)}
		openByID[i] = [2]string{id, pyStr(a.Labels.Open)}
		respByID[i] = [2]string{id, pyStr(a.Labels.Response)}
	}

	maskEntries := make([][2]string, len(ent.Phases))
	for i, phase := range ent.Phases {
		maskEntries[i] = [2]string{pyStr(phase), pyIntTuple(doc.LegalMasksByPhase[phase])}
	}

	bucketTuples := make([]string, len(obs.HistoryBuckets))
	var seqEntries [][2]string
	for i, b := range obs.HistoryBuckets {
		seq := "None"
		if b.Sequence != nil {
			seq = pyStrTuple(b.Sequence)
			seqEntries = append(seqEntries, [2]string{seq, fmt.Sprintf("%d", b.Index)})
		}
		bucketTuples[i] = fmt.Sprintf("(%d, %s)", b.Index, seq)
	}

	lines := []string{
		`"""Auto-generated contract constants.`,
		"",
		"Source: " + source,
		"Generated by: contractgen",
		`"""`,
		"",
		"from __future__ import annotations",
		"",
		"from typing import Final",
		"",
		"CONTRACT_NAME: Final[str] = " + pyStr(doc.ContractName),
		"CONTRACT_VERSION: Final[str] = " + pyStr(doc.Version),
		"",
		"PLAYERS: Final[tuple[str, ...]] = " + pyStrTuple(ent.Players),
		"CARDS: Final[tuple[str, ...]] = " + pyStrTuple(ent.Cards),
		"PUBLIC_ACTIONS: Final[tuple[str, ...]] = " + pyStrTuple(ent.PublicActions),
		"PHASES: Final[tuple[str, ...]] = " + pyStrTuple(ent.Phases),
		"",
		"INITIAL_PHASE: Final[str] = " + pyStr(tm.InitialPhase),
		"INITIAL_ACTOR: Final[str] = " + pyStr(tm.InitialActor),
		"TERMINAL_PHASE: Final[str] = " + pyStr(tm.TerminalPhase),
		"OPEN_ACTION_PHASES: Final[tuple[str, ...]] = " + pyStrTuple(tm.OpenActionPhases),
		"RESPONSE_ACTION_PHASES: Final[tuple[str, ...]] = " + pyStrTuple(tm.ResponseActionPhases),
		"",
		fmt.Sprintf("ACTION_DIM: Final[int] = %d", len(doc.Actions)),
		"ACTION_ID_BY_NAME: Final[dict[str, int]] = " + pyDict(idByName),
		"ACTION_NAME_BY_ID: Final[dict[int, str]] = " + pyDict(nameByID),
		"ACTION_OPEN_LABEL_BY_ID: Final[dict[int, str]] = " + pyDict(openByID),
		"ACTION_RESPONSE_LABEL_BY_ID: Final[dict[int, str]] = " + pyDict(respByID),
		"LEGAL_MASK_BY_PHASE: Final[dict[str, tuple[int, ...]]] = " + pyDict(maskEntries),
		"",
		fmt.Sprintf("OBSERVATION_DIM: Final[int] = %d", obs.Size),
		fmt.Sprintf("OBS_PRIVATE_CARD_OFFSET: Final[int] = %d", card.Offset),
		fmt.Sprintf("OBS_PRIVATE_CARD_DIM: Final[int] = %d", card.Size),
		fmt.Sprintf("OBS_HISTORY_OFFSET: Final[int] = %d", history.Offset),
		fmt.Sprintf("OBS_HISTORY_DIM: Final[int] = %d", history.Size),
		fmt.Sprintf("OBS_ACTOR_OFFSET: Final[int] = %d", actor.Offset),
		fmt.Sprintf("OBS_ACTOR_DIM: Final[int] = %d", actor.Size),
		"OBS_HISTORY_BUCKETS: Final[tuple[tuple[int, tuple[str, ...] | None], ...]] = (" +
			strings.Join(bucketTuples, ", ") + ")",
		"OBS_HISTORY_INDEX_BY_SEQUENCE: Final[dict[tuple[str, ...], int]] = " + pyDict(seqEntries),
		fmt.Sprintf("OBS_TERMINAL_HISTORY_INDEX: Final[int] = %d", obs.TerminalHistoryIndex),
		"",
		"CARD_INDEX_BY_LABEL: Final[dict[str, int]] = {label: index for index, label in enumerate(CARDS)}",
		"PLAYER_INDEX_BY_ID: Final[dict[str, int]] = {player: index for index, player in enumerate(PLAYERS)}",
		"",
		"ONNX_INPUT_OBSERVATION_NAME: Final[str] = " + pyStr(doc.Inference.InputNames.Observation),
		"ONNX_INPUT_ACTION_MASK_NAME: Final[str] = " + pyStr(doc.Inference.InputNames.ActionMask),
		"ONNX_OUTPUT_MASKED_LOGITS_NAME: Final[str] = " + pyStr(doc.Inference.OutputNames.MaskedLogits),
		"ONNX_OUTPUT_VALUE_NAME: Final[str] = " + pyStr(doc.Inference.OutputNames.Value),
		fmt.Sprintf("ONNX_VALUE_DIM: Final[int] = %d", doc.Inference.ValueDim),
	}
	return joinLines(lines), nil
}
