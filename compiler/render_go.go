package compiler

import (
	"fmt"
	"strings"

	"github.com/kuhnforge/gamecore/contract"
)

// goRenderer emits a gofmt-clean constants package consumed by Go code
// that talks to the engine without loading the contract document.
type goRenderer struct{}

func (goRenderer) Target() string   { return "go" }
func (goRenderer) Filename() string { return "go/contract.go" }

func goStrSlice(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

func goMaskLiteral(mask []int) string {
	bits := make([]string, len(mask))
	for i, bit := range mask {
		bits[i] = fmt.Sprintf("%d", bit)
	}
	return "{" + strings.Join(bits, ", ") + "}"
}

func goMapBlock(header string, entries [][2]string) []string {
	lines := []string{header}
	for _, entry := range alignPairs(entries, "\t", " ") {
		lines = append(lines, entry+",")
	}
	return append(lines, "}")
}

func (goRenderer) Render(doc *contract.Document, source string) ([]byte, error) {
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

	lines := []string{
		fmt.Sprintf("// Code generated by contractgen from %s. DO NOT EDIT.", source),
		"",
		"// Package gamecontract exposes the game contract as typed Go constants.",
		"package gamecontract",
		"",
		"const (",
	}
	lines = append(lines, alignPairs([][2]string{
		{"ContractName", fmt.Sprintf("%q", doc.ContractName)},
		{"ContractVersion", fmt.Sprintf("%q", doc.Version)},
	}, "\t", " = ")...)
	lines = append(lines, ")", "", "var (")
	lines = append(lines, alignPairs([][2]string{
		{"Players", goStrSlice(ent.Players)},
		{"Cards", goStrSlice(ent.Cards)},
		{"PublicActions", goStrSlice(ent.PublicActions)},
		{"Phases", goStrSlice(ent.Phases)},
	}, "\t", " = ")...)
	lines = append(lines, ")", "", "const (")
	lines = append(lines, alignPairs([][2]string{
		{"InitialPhase", fmt.Sprintf("%q", tm.InitialPhase)},
		{"InitialActor", fmt.Sprintf("%q", tm.InitialActor)},
		{"TerminalPhase", fmt.Sprintf("%q", tm.TerminalPhase)},
	}, "\t", " = ")...)
	lines = append(lines, ")", "", "var (")
	lines = append(lines, alignPairs([][2]string{
		{"OpenActionPhases", goStrSlice(tm.OpenActionPhases)},
		{"ResponseActionPhases", goStrSlice(tm.ResponseActionPhases)},
	}, "\t", " = ")...)
	lines = append(lines, ")", "")

	lines = append(lines, fmt.Sprintf("const ActionDim = %d", len(doc.Actions)), "", "const (")
	actionConsts := make([][2]string, len(doc.Actions))
	for i, a := range doc.Actions {
		actionConsts[i] = [2]string{"Action" + exportedName(a.Name), fmt.Sprintf("%d", a.ID)}
	}
	lines = append(lines, alignPairs(actionConsts, "\t", " = ")...)
	lines = append(lines, ")", "")

	nameByID := make([][2]string, len(doc.Actions))
	idByName := make([][2]string, len(doc.Actions))
	openByID := make([][2]string, len(doc.Actions))
	respByID := make([][2]string, len(doc.Actions))
	for i, a := range doc.Actions {
		nameByID[i] = [2]string{fmt.Sprintf("%d:", a.ID), fmt.Sprintf("%q", a.Name)}
		idByName[i] = [2]string{fmt.Sprintf("%q:", a.Name), fmt.Sprintf("%d", a.ID)}
		openByID[i] = [2]string{fmt.Sprintf("%d:", a.ID), fmt.Sprintf("%q", a.Labels.Open)}
		respByID[i] = [2]string{fmt.Sprintf("%d:", a.ID), fmt.Sprintf("%q", a.Labels.Response)}
	}
	lines = append(lines, goMapBlock("var ActionNameByID = map[int]string{", nameByID)...)
	lines = append(lines, "")
	lines = append(lines, goMapBlock("var ActionIDByName = map[string]int{", idByName)...)
	lines = append(lines, "")
	lines = append(lines, goMapBlock("var ActionOpenLabelByID = map[int]string{", openByID)...)
	lines = append(lines, "")
	lines = append(lines, goMapBlock("var ActionResponseLabelByID = map[int]string{", respByID)...)
	lines = append(lines, "")

	maskEntries := make([][2]string, len(ent.Phases))
	for i, phase := range ent.Phases {
		maskEntries[i] = [2]string{fmt.Sprintf("%q:", phase), goMaskLiteral(doc.LegalMasksByPhase[phase])}
	}
	lines = append(lines, goMapBlock("var LegalMaskByPhase = map[string][]uint8{", maskEntries)...)
	lines = append(lines, "")

	lines = append(lines, "const (",
		fmt.Sprintf("\tObservationDim = %d", obs.Size),
		"")
	lines = append(lines, alignPairs([][2]string{
		{"ObsPrivateCardOffset", fmt.Sprintf("%d", card.Offset)},
		{"ObsPrivateCardDim", fmt.Sprintf("%d", card.Size)},
		{"ObsHistoryOffset", fmt.Sprintf("%d", history.Offset)},
		{"ObsHistoryDim", fmt.Sprintf("%d", history.Size)},
		{"ObsActorOffset", fmt.Sprintf("%d", actor.Offset)},
		{"ObsActorDim", fmt.Sprintf("%d", actor.Size)},
	}, "\t", " = ")...)
	lines = append(lines, ")", "")

	lines = append(lines,
		"// HistoryBucket pairs a one-hot index with the exact public-history",
		"// sequence it encodes. A nil Sequence marks the catch-all bucket.",
		"type HistoryBucket struct {",
		"\tIndex    int",
		"\tSequence []string",
		"}",
		"",
		"var ObsHistoryBuckets = []HistoryBucket{")
	for _, b := range obs.HistoryBuckets {
		seq := "nil"
		if b.Sequence != nil {
			seq = goStrSlice(b.Sequence)
		}
		lines = append(lines, fmt.Sprintf("\t{Index: %d, Sequence: %s},", b.Index, seq))
	}
	lines = append(lines, "}", "")

	var seqEntries [][2]string
	for _, b := range obs.HistoryBuckets {
		if b.Sequence == nil {
			continue
		}
		seqEntries = append(seqEntries, [2]string{
			fmt.Sprintf("%q:", contract.HistoryKey(b.Sequence)),
			fmt.Sprintf("%d", b.Index),
		})
	}
	lines = append(lines, goMapBlock("var ObsHistoryIndexBySequence = map[string]int{", seqEntries)...)
	lines = append(lines, "",
		fmt.Sprintf("const ObsTerminalHistoryIndex = %d", obs.TerminalHistoryIndex),
		"")

	cardEntries := make([][2]string, len(ent.Cards))
	for i, label := range ent.Cards {
		cardEntries[i] = [2]string{fmt.Sprintf("%q:", label), fmt.Sprintf("%d", i)}
	}
	lines = append(lines, goMapBlock("var CardIndexByLabel = map[string]int{", cardEntries)...)
	lines = append(lines, "")

	playerEntries := make([][2]string, len(ent.Players))
	for i, player := range ent.Players {
		playerEntries[i] = [2]string{fmt.Sprintf("%q:", player), fmt.Sprintf("%d", i)}
	}
	lines = append(lines, goMapBlock("var PlayerIndexByID = map[string]int{", playerEntries)...)
	lines = append(lines, "", "const (")
	lines = append(lines, alignPairs([][2]string{
		{"ONNXInputObservationName", fmt.Sprintf("%q", doc.Inference.InputNames.Observation)},
		{"ONNXInputActionMaskName", fmt.Sprintf("%q", doc.Inference.InputNames.ActionMask)},
		{"ONNXOutputMaskedLogitsName", fmt.Sprintf("%q", doc.Inference.OutputNames.MaskedLogits)},
		{"ONNXOutputValueName", fmt.Sprintf("%q", doc.Inference.OutputNames.Value)},
		{"ONNXValueDim", fmt.Sprintf("%d", doc.Inference.ValueDim)},
	}, "\t", " = ")...)
	lines = append(lines, ")")

	return joinLines(lines), nil
}
