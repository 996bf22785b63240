package contract

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError represents one contract violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Report is the outcome of a full (structural + semantic) validation run.
// Every violation found is collected; a single run reports all problems.
type Report struct {
	Errors []ValidationError

	// Degraded is true when the JSON schema could not be compiled and the
	// structural pass fell back to checking only the schema's top-level
	// required-key list. This mode is strictly weaker than full schema
	// validation and callers must not treat it as equivalent.
	Degraded bool
}

// Valid reports whether the run found no violations.
func (r Report) Valid() bool { return len(r.Errors) == 0 }

// Validate runs the structural schema check and, when the document decodes,
// the semantic invariant checks. It is a pure function of its inputs.
func Validate(contractJSON, schemaJSON []byte) Report {
	report := Report{}

	structural, degraded := validateStructural(contractJSON, schemaJSON)
	report.Errors = append(report.Errors, structural...)
	report.Degraded = degraded

	doc, err := Parse(contractJSON)
	if err != nil {
		report.Errors = append(report.Errors, ValidationError{
			Field:   "<root>",
			Message: err.Error(),
		})
		return report
	}

	report.Errors = append(report.Errors, ValidateSemantics(doc)...)
	return report
}

// validateStructural checks the raw contract against the JSON schema.
// When the schema itself cannot be compiled it falls back to the degraded
// required-keys check and reports degraded=true.
func validateStructural(contractJSON, schemaJSON []byte) ([]ValidationError, bool) {
	schema, err := jsonschema.CompileString("game_contract.schema.json", string(schemaJSON))
	if err != nil {
		return validateRequiredKeysOnly(contractJSON, schemaJSON), true
	}

	var instance interface{}
	if err := json.Unmarshal(contractJSON, &instance); err != nil {
		return []ValidationError{{Field: "<root>", Message: fmt.Sprintf("contract is not valid JSON: %v", err)}}, false
	}

	err = schema.Validate(instance)
	if err == nil {
		return nil, false
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []ValidationError{{Field: "<root>", Message: err.Error()}}, false
	}

	var errors []ValidationError
	for _, cause := range ve.BasicOutput().Errors {
		if cause.Error == "" {
			continue
		}
		field := cause.InstanceLocation
		if field == "" {
			field = "<root>"
		}
		errors = append(errors, ValidationError{Field: field, Message: cause.Error})
	}
	if len(errors) == 0 {
		errors = append(errors, ValidationError{Field: "<root>", Message: ve.Error()})
	}
	return errors, false
}

// validateRequiredKeysOnly is the degraded structural check: it only
// verifies that the schema's top-level required keys are present.
func validateRequiredKeysOnly(contractJSON, schemaJSON []byte) []ValidationError {
	var errors []ValidationError

	var schema struct {
		Type     string   `json:"type"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(schemaJSON, &schema); err != nil || schema.Type != "object" {
		return []ValidationError{{Field: "<schema>", Message: "schema file is malformed"}}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(contractJSON, &doc); err != nil {
		return []ValidationError{{Field: "<root>", Message: fmt.Sprintf("contract is not a JSON object: %v", err)}}
	}

	for _, key := range schema.Required {
		if _, ok := doc[key]; !ok {
			errors = append(errors, ValidationError{
				Field:   key,
				Message: "missing required top-level key",
			})
		}
	}
	return errors
}

// ValidateSemantics enforces the contract invariants on a decoded document.
// All violations are collected; the slice is empty for a valid document.
func ValidateSemantics(doc *Document) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateActions(doc)...)
	errors = append(errors, validateTurnModel(doc)...)
	errors = append(errors, validateMasks(doc)...)
	errors = append(errors, validateObservation(doc)...)

	return errors
}

func validateActions(doc *Document) []ValidationError {
	var errors []ValidationError

	ids := make([]int, 0, len(doc.Actions))
	for _, a := range doc.Actions {
		ids = append(ids, a.ID)
	}
	sort.Ints(ids)
	for i, id := range ids {
		if id != i {
			errors = append(errors, ValidationError{
				Field:   "actions",
				Message: fmt.Sprintf("action ids must be contiguous from 0, got %v", ids),
			})
			break
		}
	}

	names := make(map[string]bool, len(doc.Actions))
	for _, a := range doc.Actions {
		if names[a.Name] {
			errors = append(errors, ValidationError{
				Field:   "actions",
				Message: fmt.Sprintf("duplicate action name %q", a.Name),
			})
		}
		names[a.Name] = true
	}

	public := make(map[string]bool, len(doc.Entities.PublicActions))
	for _, token := range doc.Entities.PublicActions {
		public[token] = true
	}
	for _, a := range doc.Actions {
		if !public[a.Labels.Open] {
			errors = append(errors, ValidationError{
				Field:   "actions",
				Message: fmt.Sprintf("action %q open label %q is not a public action token", a.Name, a.Labels.Open),
			})
		}
		if !public[a.Labels.Response] {
			errors = append(errors, ValidationError{
				Field:   "actions",
				Message: fmt.Sprintf("action %q response label %q is not a public action token", a.Name, a.Labels.Response),
			})
		}
	}

	return errors
}

func validateTurnModel(doc *Document) []ValidationError {
	var errors []ValidationError
	tm := doc.TurnModel

	if len(doc.Entities.Players) != 2 {
		errors = append(errors, ValidationError{
			Field:   "entities.players",
			Message: fmt.Sprintf("exactly 2 players required, got %d", len(doc.Entities.Players)),
		})
	}
	if len(doc.Entities.Cards) < 2 {
		errors = append(errors, ValidationError{
			Field:   "entities.cards",
			Message: fmt.Sprintf("at least 2 ranked cards required, got %d", len(doc.Entities.Cards)),
		})
	}

	phases := make(map[string]bool, len(doc.Entities.Phases))
	for _, p := range doc.Entities.Phases {
		phases[p] = true
	}

	if _, ok := doc.PlayerIndex(tm.InitialActor); !ok {
		errors = append(errors, ValidationError{
			Field:   "turn_model.initial_actor",
			Message: fmt.Sprintf("%q is not a declared player", tm.InitialActor),
		})
	}
	if !phases[tm.InitialPhase] {
		errors = append(errors, ValidationError{
			Field:   "turn_model.initial_phase",
			Message: fmt.Sprintf("%q is not a declared phase", tm.InitialPhase),
		})
	}
	if !phases[tm.TerminalPhase] {
		errors = append(errors, ValidationError{
			Field:   "turn_model.terminal_phase",
			Message: fmt.Sprintf("%q is not a declared phase", tm.TerminalPhase),
		})
	}

	open := make(map[string]bool, len(tm.OpenActionPhases))
	for _, p := range tm.OpenActionPhases {
		open[p] = true
		if !phases[p] {
			errors = append(errors, ValidationError{
				Field:   "turn_model.open_action_phases",
				Message: fmt.Sprintf("%q is not a declared phase", p),
			})
		}
	}
	for _, p := range tm.ResponseActionPhases {
		if !phases[p] {
			errors = append(errors, ValidationError{
				Field:   "turn_model.response_action_phases",
				Message: fmt.Sprintf("%q is not a declared phase", p),
			})
		}
		if open[p] {
			errors = append(errors, ValidationError{
				Field:   "turn_model.response_action_phases",
				Message: fmt.Sprintf("%q is declared as both an open and a response phase", p),
			})
		}
	}

	if open[tm.TerminalPhase] {
		errors = append(errors, ValidationError{
			Field:   "turn_model.terminal_phase",
			Message: "terminal phase cannot be an open action phase",
		})
	}
	for _, p := range tm.ResponseActionPhases {
		if p == tm.TerminalPhase {
			errors = append(errors, ValidationError{
				Field:   "turn_model.terminal_phase",
				Message: "terminal phase cannot be a response action phase",
			})
		}
	}

	if len(tm.OpenActionPhases) == 0 {
		errors = append(errors, ValidationError{
			Field:   "turn_model.open_action_phases",
			Message: "at least one open action phase is required",
		})
	} else if tm.InitialPhase != tm.OpenActionPhases[0] {
		errors = append(errors, ValidationError{
			Field:   "turn_model.initial_phase",
			Message: fmt.Sprintf("initial phase %q must be the first open action phase %q", tm.InitialPhase, tm.OpenActionPhases[0]),
		})
	}

	// The engine routes a bet to the response phase of the responding
	// player by index, so the contract must declare either no response
	// phases or exactly one per player.
	if n := len(tm.ResponseActionPhases); n != 0 && n != len(doc.Entities.Players) {
		errors = append(errors, ValidationError{
			Field:   "turn_model.response_action_phases",
			Message: fmt.Sprintf("expected 0 or %d response phases (one per player), got %d", len(doc.Entities.Players), n),
		})
	}

	return errors
}

func validateMasks(doc *Document) []ValidationError {
	var errors []ValidationError
	actionCount := doc.ActionCount()

	seen := make(map[string]bool, len(doc.LegalMasksByPhase))
	for _, phase := range doc.Entities.Phases {
		mask, ok := doc.LegalMasksByPhase[phase]
		if !ok {
			errors = append(errors, ValidationError{
				Field:   "legal_masks_by_phase",
				Message: fmt.Sprintf("phase %q has no mask entry", phase),
			})
			continue
		}
		seen[phase] = true
		if len(mask) != actionCount {
			errors = append(errors, ValidationError{
				Field:   "legal_masks_by_phase." + phase,
				Message: fmt.Sprintf("mask length %d != action count %d", len(mask), actionCount),
			})
		}
		for _, bit := range mask {
			if bit != 0 && bit != 1 {
				errors = append(errors, ValidationError{
					Field:   "legal_masks_by_phase." + phase,
					Message: fmt.Sprintf("mask values must be 0 or 1, got %d", bit),
				})
				break
			}
		}
	}
	for phase := range doc.LegalMasksByPhase {
		if !seen[phase] {
			errors = append(errors, ValidationError{
				Field:   "legal_masks_by_phase",
				Message: fmt.Sprintf("mask declared for unknown phase %q", phase),
			})
		}
	}

	if mask, ok := doc.LegalMasksByPhase[doc.TurnModel.TerminalPhase]; ok {
		for _, bit := range mask {
			if bit != 0 {
				errors = append(errors, ValidationError{
					Field:   "legal_masks_by_phase." + doc.TurnModel.TerminalPhase,
					Message: "terminal phase mask must be all zeros",
				})
				break
			}
		}
	}

	return errors
}

func validateObservation(doc *Document) []ValidationError {
	var errors []ValidationError
	obs := doc.Observation

	segments := append([]Segment(nil), obs.Segments...)
	sort.Slice(segments, func(i, j int) bool { return segments[i].Offset < segments[j].Offset })

	expected := 0
	for _, s := range segments {
		if s.Offset != expected {
			errors = append(errors, ValidationError{
				Field:   "observation.segments",
				Message: fmt.Sprintf("segment %q has offset %d, expected %d (segments must be contiguous from 0)", s.Name, s.Offset, expected),
			})
		}
		expected = s.Offset + s.Size
	}
	if expected != obs.Size {
		errors = append(errors, ValidationError{
			Field:   "observation.size",
			Message: fmt.Sprintf("segment sizes sum to %d, declared size is %d", expected, obs.Size),
		})
	}

	for _, required := range []string{SegmentPrivateCard, SegmentPublicHistory, SegmentCurrentActor} {
		if _, ok := doc.SegmentByName(required); !ok {
			errors = append(errors, ValidationError{
				Field:   "observation.segments",
				Message: fmt.Sprintf("missing required segment %q", required),
			})
		}
	}

	if s, ok := doc.SegmentByName(SegmentPrivateCard); ok && s.Size != len(doc.Entities.Cards) {
		errors = append(errors, ValidationError{
			Field:   "observation.segments",
			Message: fmt.Sprintf("%s size %d must equal card count %d", SegmentPrivateCard, s.Size, len(doc.Entities.Cards)),
		})
	}
	if s, ok := doc.SegmentByName(SegmentCurrentActor); ok && s.Size != len(doc.Entities.Players) {
		errors = append(errors, ValidationError{
			Field:   "observation.segments",
			Message: fmt.Sprintf("%s size %d must equal player count %d", SegmentCurrentActor, s.Size, len(doc.Entities.Players)),
		})
	}
	if s, ok := doc.SegmentByName(SegmentPublicHistory); ok && s.Size != len(obs.HistoryBuckets) {
		errors = append(errors, ValidationError{
			Field:   "observation.segments",
			Message: fmt.Sprintf("%s size %d must equal history bucket count %d", SegmentPublicHistory, s.Size, len(obs.HistoryBuckets)),
		})
	}

	indices := make([]int, 0, len(obs.HistoryBuckets))
	for _, b := range obs.HistoryBuckets {
		indices = append(indices, b.Index)
	}
	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i {
			errors = append(errors, ValidationError{
				Field:   "observation.history_buckets",
				Message: fmt.Sprintf("bucket indices must be contiguous from 0, got %v", indices),
			})
			break
		}
	}

	terminalFound := false
	for _, b := range obs.HistoryBuckets {
		if b.Index == obs.TerminalHistoryIndex {
			terminalFound = true
			break
		}
	}
	if !terminalFound {
		errors = append(errors, ValidationError{
			Field:   "observation.terminal_history_index",
			Message: fmt.Sprintf("index %d is not a declared history bucket", obs.TerminalHistoryIndex),
		})
	}

	sequences := make(map[string]bool, len(obs.HistoryBuckets))
	for _, b := range obs.HistoryBuckets {
		if b.Sequence == nil {
			continue
		}
		key := HistoryKey(b.Sequence)
		if sequences[key] {
			errors = append(errors, ValidationError{
				Field:   "observation.history_buckets",
				Message: fmt.Sprintf("duplicate history sequence %v", b.Sequence),
			})
		}
		sequences[key] = true
	}

	return errors
}
