package compiler

import (
	"fmt"
	"strings"

	"github.com/kuhnforge/gamecore/contract"
)

// typescriptRenderer emits `as const` constants plus the literal union
// types a browser client derives from them.
type typescriptRenderer struct{}

func (typescriptRenderer) Target() string   { return "typescript" }
func (typescriptRenderer) Filename() string { return "typescript/contract.ts" }

func tsStrArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func tsIntArray(values []int) string {
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(rendered, ", ") + "]"
}

// tsObject renders a one-line object literal with quoted keys.
func tsObject(entries [][2]string) string {
	rendered := make([]string, len(entries))
	for i, e := range entries {
		rendered[i] = fmt.Sprintf("%q: %s", e[0], e[1])
	}
	return "{ " + strings.Join(rendered, ", ") + " }"
}

func (typescriptRenderer) Render(doc *contract.Document, source string) ([]byte, error) {
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

	maskType := "readonly [" + strings.TrimSuffix(strings.Repeat("number, ", len(doc.Actions)), ", ") + "]"

	lines := []string{
		"/* Auto-generated contract constants.",
		" * Source: " + source,
		" * Generated by: contractgen",
		" */",
		"",
		fmt.Sprintf("export const CONTRACT_NAME = %q as const", doc.ContractName),
		fmt.Sprintf("export const CONTRACT_VERSION = %q as const", doc.Version),
		"",
		"export const PLAYERS = " + tsStrArray(ent.Players) + " as const",
		"export type PlayerId = (typeof PLAYERS)[number]",
		"",
		"export const CARDS = " + tsStrArray(ent.Cards) + " as const",
		"export type Card = (typeof CARDS)[number]",
		"",
		"export const PUBLIC_ACTIONS = " + tsStrArray(ent.PublicActions) + " as const",
		"export type PublicAction = (typeof PUBLIC_ACTIONS)[number]",
		"",
		"export const PHASES = " + tsStrArray(ent.Phases) + " as const",
		"export type Phase = (typeof PHASES)[number]",
		"",
		fmt.Sprintf("export const INITIAL_PHASE = %q as const", tm.InitialPhase),
		fmt.Sprintf("export const INITIAL_ACTOR = %q as const", tm.InitialActor),
		fmt.Sprintf("export const TERMINAL_PHASE = %q as const", tm.TerminalPhase),
		"export const OPEN_ACTION_PHASES = " + tsStrArray(tm.OpenActionPhases) + " as const",
		"export const RESPONSE_ACTION_PHASES = " + tsStrArray(tm.ResponseActionPhases) + " as const",
		"",
		"export const ACTIONS = [",
	}
	for _, a := range doc.Actions {
		lines = append(lines, fmt.Sprintf(
			"  { id: %d, name: %q, labels: { open: %q, response: %q } },",
			a.ID, a.Name, a.Labels.Open, a.Labels.Response))
	}
	lines = append(lines,
		"] as const",
		`export type ActionName = (typeof ACTIONS)[number]["name"]`,
		`export type ActionId = (typeof ACTIONS)[number]["id"]`,
		"export type ActionMask = "+maskType,
		fmt.Sprintf("export const ACTION_DIM = %d as const", len(doc.Actions)))
	for _, a := range doc.Actions {
		lines = append(lines, fmt.Sprintf("export const ACTION_%s = %d as const",
			strings.ToUpper(a.Name), a.ID))
	}

	nameByID := make([][2]string, len(doc.Actions))
	idByName := make([][2]string, len(doc.Actions))
	openByID := make([][2]string, len(doc.Actions))
	respByID := make([][2]string, len(doc.Actions))
	for i, a := range doc.Actions {
		id := fmt.Sprintf("%d", a.ID)
		nameByID[i] = [2]string{id, fmt.Sprintf("%q", a.Name)}
		idByName[i] = [2]string{a.Name, id}
		openByID[i] = [2]string{id, fmt.Sprintf("%q", a.Labels.Open)}
		respByID[i] = [2]string{id, fmt.Sprintf("%q", a.Labels.Response)}
	}
	lines = append(lines,
		"",
		"export const ACTION_NAME_BY_ID = "+tsObject(nameByID)+" as const",
		"export const ACTION_ID_BY_NAME = "+tsObject(idByName)+" as const",
		"export const ACTION_OPEN_LABEL_BY_ID = "+tsObject(openByID)+" as const",
		"export const ACTION_RESPONSE_LABEL_BY_ID = "+tsObject(respByID)+" as const",
		"",
		"export const LEGAL_MASK_BY_PHASE = {")
	for _, phase := range ent.Phases {
		lines = append(lines, fmt.Sprintf("  %q: %s,", phase, tsIntArray(doc.LegalMasksByPhase[phase])))
	}
	lines = append(lines,
		"} as const satisfies Record<Phase, ActionMask>",
		"export const NO_LEGAL_ACTION_MASK = LEGAL_MASK_BY_PHASE[TERMINAL_PHASE]",
		"",
		fmt.Sprintf("export const OBSERVATION_DIM = %d as const", obs.Size),
		fmt.Sprintf("export const OBS_PRIVATE_CARD_OFFSET = %d as const", card.Offset),
		fmt.Sprintf("export const OBS_PRIVATE_CARD_DIM = %d as const", card.Size),
		fmt.Sprintf("export const OBS_HISTORY_OFFSET = %d as const", history.Offset),
		fmt.Sprintf("export const OBS_HISTORY_DIM = %d as const", history.Size),
		fmt.Sprintf("export const OBS_ACTOR_OFFSET = %d as const", actor.Offset),
		fmt.Sprintf("export const OBS_ACTOR_DIM = %d as const", actor.Size),
		"",
		"export const OBS_HISTORY_BUCKETS = [")
	var seqEntries [][2]string
	for _, b := range obs.HistoryBuckets {
		seq := "null"
		if b.Sequence != nil {
			seq = tsStrArray(b.Sequence)
			seqEntries = append(seqEntries, [2]string{
				contract.HistoryKey(b.Sequence),
				fmt.Sprintf("%d", b.Index),
			})
		}
		lines = append(lines, fmt.Sprintf("  { index: %d, sequence: %s },", b.Index, seq))
	}

	cardEntries := make([][2]string, len(ent.Cards))
	for i, label := range ent.Cards {
		cardEntries[i] = [2]string{label, fmt.Sprintf("%d", i)}
	}
	playerEntries := make([][2]string, len(ent.Players))
	for i, player := range ent.Players {
		playerEntries[i] = [2]string{player, fmt.Sprintf("%d", i)}
	}

	lines = append(lines,
		"] as const",
		"export const OBS_HISTORY_SEQUENCE_TO_INDEX = "+tsObject(seqEntries)+" as const",
		fmt.Sprintf("export const OBS_TERMINAL_HISTORY_INDEX = %d as const", obs.TerminalHistoryIndex),
		"",
		"export const CARD_INDEX_BY_LABEL = "+tsObject(cardEntries)+" as const",
		"export const PLAYER_INDEX_BY_ID = "+tsObject(playerEntries)+" as const",
		"",
		fmt.Sprintf("export const ONNX_INPUT_OBSERVATION_NAME = %q as const", doc.Inference.InputNames.Observation),
		fmt.Sprintf("export const ONNX_INPUT_ACTION_MASK_NAME = %q as const", doc.Inference.InputNames.ActionMask),
		fmt.Sprintf("export const ONNX_OUTPUT_MASKED_LOGITS_NAME = %q as const", doc.Inference.OutputNames.MaskedLogits),
		fmt.Sprintf("export const ONNX_OUTPUT_VALUE_NAME = %q as const", doc.Inference.OutputNames.Value),
		fmt.Sprintf("export const ONNX_VALUE_DIM = %d as const", doc.Inference.ValueDim))

	return joinLines(lines), nil
}
