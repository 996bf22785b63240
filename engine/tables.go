package engine

import (
	"errors"
	"fmt"

	"github.com/kuhnforge/gamecore/contract"
)

// phaseKind classifies a phase for the fixed transition rule.
type phaseKind uint8

const (
	kindOpen     phaseKind = iota // acting player chooses among {check, bet}
	kindResponse                  // acting player faces a bet, {call, fold}
	kindTerminal
)

// ruleset is the contract compiled into lookup tables. step and observe are
// table lookups plus the open/response transition rule; nothing in the
// engine branches on concrete phase names.
type ruleset struct {
	players     []string
	numCards    int
	actionCount int

	initialPhase  string
	initialActor  int
	terminalPhase string

	kinds   map[string]phaseKind
	openPos map[string]int // open phase -> position in acting order
	open    []string       // open phases in acting order
	respond []string       // responder player index -> response phase

	masks map[string][]uint8

	// Action id -> public-history token, per phase kind.
	openToken     []string
	responseToken []string

	obsSize       int
	cardOffset    int
	historyOffset int
	actorOffset   int

	bucketIndex    map[string]int // HistoryKey(sequence) -> one-hot index
	terminalBucket int
}

// newRuleset validates the document semantics and compiles the tables.
// Compilation rejects any document the validator rejects, so a constructed
// ruleset is always internally consistent.
func newRuleset(doc *contract.Document) (*ruleset, error) {
	if violations := contract.ValidateSemantics(doc); len(violations) > 0 {
		errs := make([]error, len(violations))
		for i, v := range violations {
			errs[i] = v
		}
		return nil, fmt.Errorf("contract %s/%s failed validation: %w",
			doc.ContractName, doc.Version, errors.Join(errs...))
	}

	r := &ruleset{
		players:       append([]string(nil), doc.Entities.Players...),
		numCards:      len(doc.Entities.Cards),
		actionCount:   doc.ActionCount(),
		initialPhase:  doc.TurnModel.InitialPhase,
		terminalPhase: doc.TurnModel.TerminalPhase,
		kinds:         make(map[string]phaseKind, len(doc.Entities.Phases)),
		openPos:       make(map[string]int, len(doc.TurnModel.OpenActionPhases)),
		open:          append([]string(nil), doc.TurnModel.OpenActionPhases...),
		respond:       append([]string(nil), doc.TurnModel.ResponseActionPhases...),
		masks:         make(map[string][]uint8, len(doc.LegalMasksByPhase)),
	}

	actor, ok := doc.PlayerIndex(doc.TurnModel.InitialActor)
	if !ok {
		return nil, fmt.Errorf("initial actor %q is not a declared player", doc.TurnModel.InitialActor)
	}
	r.initialActor = actor

	r.kinds[r.terminalPhase] = kindTerminal
	for pos, phase := range r.open {
		r.kinds[phase] = kindOpen
		r.openPos[phase] = pos
	}
	for _, phase := range r.respond {
		r.kinds[phase] = kindResponse
	}

	for phase, mask := range doc.LegalMasksByPhase {
		bits := make([]uint8, len(mask))
		for i, bit := range mask {
			bits[i] = uint8(bit)
		}
		r.masks[phase] = bits
	}

	r.openToken = make([]string, r.actionCount)
	r.responseToken = make([]string, r.actionCount)
	for _, a := range doc.Actions {
		r.openToken[a.ID] = a.Labels.Open
		r.responseToken[a.ID] = a.Labels.Response
	}

	r.obsSize = doc.Observation.Size
	card, _ := doc.SegmentByName(contract.SegmentPrivateCard)
	history, _ := doc.SegmentByName(contract.SegmentPublicHistory)
	actorSeg, _ := doc.SegmentByName(contract.SegmentCurrentActor)
	r.cardOffset = card.Offset
	r.historyOffset = history.Offset
	r.actorOffset = actorSeg.Offset

	r.bucketIndex = make(map[string]int, len(doc.Observation.HistoryBuckets))
	for _, b := range doc.Observation.HistoryBuckets {
		if b.Sequence == nil {
			continue
		}
		r.bucketIndex[contract.HistoryKey(b.Sequence)] = b.Index
	}
	r.terminalBucket = doc.Observation.TerminalHistoryIndex

	return r, nil
}

// historyBucket looks up the exact current history sequence, falling back
// to the catch-all terminal bucket when no declared bucket matches.
func (r *ruleset) historyBucket(history []string) int {
	if idx, ok := r.bucketIndex[contract.HistoryKey(history)]; ok {
		return idx
	}
	return r.terminalBucket
}

// mask returns the legal-action bit vector for a phase.
func (r *ruleset) mask(phase string) []uint8 {
	return r.masks[phase]
}
