// Package contract provides the typed game contract model, its JSON codec,
// and validation. The contract is the single source of truth for the rules
// of one hand of generalized Kuhn poker: every downstream consumer (the
// engine, the generated bindings, external training/inference code) agrees
// on action ids, phase names, legal masks, and the observation layout by
// reading the same document.
package contract

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Required observation segment names. The validator rejects any contract
// that omits one of these, and the engine resolves its encoding offsets
// through them.
const (
	SegmentPrivateCard   = "private_card_one_hot"
	SegmentPublicHistory = "public_history_one_hot"
	SegmentCurrentActor  = "current_actor_one_hot"
)

// Document is the complete declarative rules description.
// It is pure data; behavior lives in the validator, compiler, and engine.
type Document struct {
	ContractName string    `json:"contract_name"`
	Version      string    `json:"version"`
	Entities     Entities  `json:"entities"`
	TurnModel    TurnModel `json:"turn_model"`
	Actions      []Action  `json:"actions"`

	// LegalMasksByPhase maps every declared phase (terminal included) to a
	// 0/1 legality flag per action id.
	LegalMasksByPhase map[string][]int `json:"legal_masks_by_phase"`

	Observation Observation `json:"observation"`
	Inference   Inference   `json:"onnx"`
}

// Entities declares the ordered identifier sets of the game.
type Entities struct {
	Players []string `json:"players"`

	// Cards are strictly ranked by position: a higher index beats a lower
	// index at showdown.
	Cards []string `json:"cards"`

	// PublicActions are the token strings that may appear in the public
	// history (e.g. "check", "bet", "call", "fold").
	PublicActions []string `json:"public_actions"`

	Phases []string `json:"phases"`
}

// TurnModel declares how phases are ordered and who acts.
//
// OpenActionPhases are declared in acting order: the k-th open phase is
// acted by the player k seats after InitialActor. ResponseActionPhases are
// declared in responder order: the i-th entry is the phase in which player
// i responds to a pending bet.
type TurnModel struct {
	InitialPhase         string   `json:"initial_phase"`
	InitialActor         string   `json:"initial_actor"`
	TerminalPhase        string   `json:"terminal_phase"`
	OpenActionPhases     []string `json:"open_action_phases"`
	ResponseActionPhases []string `json:"response_action_phases"`
}

// Action binds a contiguous action id to a name and its two public-history
// labels. The same id resolves to Labels.Open in an open phase and
// Labels.Response in a response phase (id 0 is "check" when opening and
// "call" when responding).
type Action struct {
	ID     int          `json:"id"`
	Name   string       `json:"name"`
	Labels ActionLabels `json:"labels"`
}

// ActionLabels holds the phase-kind-dependent public tokens for one action.
type ActionLabels struct {
	Open     string `json:"open"`
	Response string `json:"response"`
}

// Observation declares the fixed-size feature vector layout.
type Observation struct {
	Size     int       `json:"size"`
	Segments []Segment `json:"segments"`

	// HistoryBuckets enumerate the exact public-history sequences the
	// history one-hot distinguishes. A nil sequence marks the catch-all
	// bucket used for terminal or otherwise unmatched histories.
	HistoryBuckets []HistoryBucket `json:"history_buckets"`

	TerminalHistoryIndex int `json:"terminal_history_index"`
}

// Segment is one named, contiguous slice of the observation vector.
type Segment struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
}

// HistoryBucket maps one exact public-history sequence to a one-hot index.
// Sequence == nil is the catch-all bucket; an empty non-nil sequence is the
// start-of-hand bucket. JSON null/[] round-trips preserve the distinction.
type HistoryBucket struct {
	Index    int      `json:"index"`
	Sequence []string `json:"sequence"`
}

// Inference declares the tensor names fixed at the policy-export boundary.
// Illegal actions are masked by an extremely negative score under these
// names, not removed from the output.
type Inference struct {
	InputNames  InferenceInputs  `json:"input_names"`
	OutputNames InferenceOutputs `json:"output_names"`
	ValueDim    int              `json:"value_dim"`
}

// InferenceInputs names the exported model inputs.
type InferenceInputs struct {
	Observation string `json:"observation"`
	ActionMask  string `json:"action_mask"`
}

// InferenceOutputs names the exported model outputs.
type InferenceOutputs struct {
	MaskedLogits string `json:"masked_logits"`
	Value        string `json:"value"`
}

// ActionCount returns the number of declared actions.
func (d *Document) ActionCount() int { return len(d.Actions) }

// PlayerIndex resolves a player identifier to its declared position.
func (d *Document) PlayerIndex(player string) (int, bool) {
	for i, p := range d.Entities.Players {
		if p == player {
			return i, true
		}
	}
	return 0, false
}

// CardIndex resolves a card label to its rank position.
func (d *Document) CardIndex(card string) (int, bool) {
	for i, c := range d.Entities.Cards {
		if c == card {
			return i, true
		}
	}
	return 0, false
}

// SegmentByName returns the named observation segment.
func (d *Document) SegmentByName(name string) (Segment, bool) {
	for _, s := range d.Observation.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return Segment{}, false
}

// HistoryKey flattens a public-history sequence into the lookup key used
// for bucket matching. Tokens never contain '|'.
func HistoryKey(sequence []string) string {
	return strings.Join(sequence, "|")
}

// Load decodes a contract document from JSON.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding contract document: %w", err)
	}
	return &doc, nil
}

// Parse decodes a contract document from raw JSON bytes.
func Parse(data []byte) (*Document, error) {
	return Load(strings.NewReader(string(data)))
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	clone := *d

	clone.Entities.Players = append([]string(nil), d.Entities.Players...)
	clone.Entities.Cards = append([]string(nil), d.Entities.Cards...)
	clone.Entities.PublicActions = append([]string(nil), d.Entities.PublicActions...)
	clone.Entities.Phases = append([]string(nil), d.Entities.Phases...)

	clone.TurnModel.OpenActionPhases = append([]string(nil), d.TurnModel.OpenActionPhases...)
	clone.TurnModel.ResponseActionPhases = append([]string(nil), d.TurnModel.ResponseActionPhases...)

	clone.Actions = append([]Action(nil), d.Actions...)

	if d.LegalMasksByPhase != nil {
		clone.LegalMasksByPhase = make(map[string][]int, len(d.LegalMasksByPhase))
		for phase, mask := range d.LegalMasksByPhase {
			clone.LegalMasksByPhase[phase] = append([]int(nil), mask...)
		}
	}

	clone.Observation.Segments = append([]Segment(nil), d.Observation.Segments...)
	if d.Observation.HistoryBuckets != nil {
		clone.Observation.HistoryBuckets = make([]HistoryBucket, len(d.Observation.HistoryBuckets))
		for i, b := range d.Observation.HistoryBuckets {
			clone.Observation.HistoryBuckets[i] = HistoryBucket{Index: b.Index}
			if b.Sequence != nil {
				clone.Observation.HistoryBuckets[i].Sequence = append([]string{}, b.Sequence...)
			}
		}
	}

	return &clone
}
