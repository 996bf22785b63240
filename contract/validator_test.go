package contract

import (
	"encoding/json"
	"os"
	"testing"
)

func loadSchema(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../contracts/schema/game_contract.schema.json")
	if err != nil {
		t.Fatalf("reading schema: %v", err)
	}
	return data
}

func marshalDoc(t *testing.T, doc *Document) []byte {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshaling contract: %v", err)
	}
	return data
}

func hasFieldError(errors []ValidationError, field string) bool {
	for _, e := range errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateCanonicalKuhnContract(t *testing.T) {
	report := Validate(marshalDoc(t, Kuhn()), loadSchema(t))
	if !report.Valid() {
		t.Errorf("canonical contract should have no errors, got: %v", report.Errors)
	}
	if report.Degraded {
		t.Error("schema compiled, report should not be degraded")
	}
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	report := Validate([]byte("{not json"), loadSchema(t))
	if report.Valid() {
		t.Fatal("expected error for malformed JSON, got none")
	}
	if !hasFieldError(report.Errors, "<root>") {
		t.Errorf("expected <root> error, got: %v", report.Errors)
	}
}

func TestValidateStructuralUnknownKey(t *testing.T) {
	var raw map[string]any
	if err := json.Unmarshal(marshalDoc(t, Kuhn()), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw["surprise"] = true
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	report := Validate(data, loadSchema(t))
	if report.Valid() {
		t.Error("expected error for undeclared top-level key, got none")
	}
}

func TestValidateDegradedModeMissingKey(t *testing.T) {
	var raw map[string]any
	if err := json.Unmarshal(marshalDoc(t, Kuhn()), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	delete(raw, "turn_model")
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// A schema that does not compile forces the required-key fallback.
	report := Validate(data, []byte(`{"type": "object", "required": ["contract_name", "turn_model"], "$ref": "http://nowhere.invalid/missing.json"}`))
	if !report.Degraded {
		t.Error("expected degraded report when schema cannot compile")
	}
	if !hasFieldError(report.Errors, "turn_model") {
		t.Errorf("expected missing-key error for turn_model, got: %v", report.Errors)
	}
}

func TestValidateSemanticsNonContiguousActionIDs(t *testing.T) {
	doc := Kuhn()
	doc.Actions[2].ID = 5

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "actions") {
		t.Errorf("expected actions error for gap in ids, got: %v", errors)
	}
}

func TestValidateSemanticsDuplicateActionNames(t *testing.T) {
	doc := Kuhn()
	doc.Actions[2].Name = doc.Actions[1].Name

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "actions") {
		t.Errorf("expected actions error for duplicate names, got: %v", errors)
	}
}

func TestValidateSemanticsLabelNotPublicAction(t *testing.T) {
	doc := Kuhn()
	doc.Actions[1].Labels.Open = "raise"

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "actions") {
		t.Errorf("expected actions error for unknown label token, got: %v", errors)
	}
}

func TestValidateSemanticsWrongPlayerCount(t *testing.T) {
	doc := Kuhn()
	doc.Entities.Players = append(doc.Entities.Players, "player_2")

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "entities.players") {
		t.Errorf("expected entities.players error, got: %v", errors)
	}
}

func TestValidateSemanticsUndeclaredInitialActor(t *testing.T) {
	doc := Kuhn()
	doc.TurnModel.InitialActor = "player_9"

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "turn_model.initial_actor") {
		t.Errorf("expected turn_model.initial_actor error, got: %v", errors)
	}
}

func TestValidateSemanticsOverlappingPhaseSets(t *testing.T) {
	doc := Kuhn()
	doc.TurnModel.ResponseActionPhases[0] = PhaseP0Act

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "turn_model.response_action_phases") {
		t.Errorf("expected disjointness error, got: %v", errors)
	}
}

func TestValidateSemanticsMaskCoverage(t *testing.T) {
	doc := Kuhn()
	delete(doc.LegalMasksByPhase, PhaseP1Act)

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "legal_masks_by_phase") {
		t.Errorf("expected coverage error for missing phase mask, got: %v", errors)
	}
}

func TestValidateSemanticsMaskLengthAndBits(t *testing.T) {
	doc := Kuhn()
	doc.LegalMasksByPhase[PhaseP0Act] = []int{1, 1}
	doc.LegalMasksByPhase[PhaseP1Act] = []int{1, 2, 0}

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "legal_masks_by_phase."+PhaseP0Act) {
		t.Errorf("expected length error for %s, got: %v", PhaseP0Act, errors)
	}
	if !hasFieldError(errors, "legal_masks_by_phase."+PhaseP1Act) {
		t.Errorf("expected bit-value error for %s, got: %v", PhaseP1Act, errors)
	}
}

func TestValidateSemanticsTerminalMaskMustBeZero(t *testing.T) {
	doc := Kuhn()
	doc.LegalMasksByPhase[PhaseTerminal] = []int{1, 0, 0}

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "legal_masks_by_phase."+PhaseTerminal) {
		t.Errorf("expected terminal-mask error, got: %v", errors)
	}
}

func TestValidateSemanticsSegmentGap(t *testing.T) {
	doc := Kuhn()
	doc.Observation.Segments[1].Offset = 4

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "observation.segments") {
		t.Errorf("expected segment contiguity error, got: %v", errors)
	}
}

func TestValidateSemanticsSizeMismatch(t *testing.T) {
	doc := Kuhn()
	doc.Observation.Size = 11

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "observation.size") {
		t.Errorf("expected observation.size error, got: %v", errors)
	}
}

func TestValidateSemanticsDuplicateHistorySequence(t *testing.T) {
	doc := Kuhn()
	doc.Observation.HistoryBuckets[2].Sequence = []string{"check"}

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "observation.history_buckets") {
		t.Errorf("expected duplicate-sequence error, got: %v", errors)
	}
}

func TestValidateSemanticsUndeclaredTerminalHistoryIndex(t *testing.T) {
	doc := Kuhn()
	doc.Observation.TerminalHistoryIndex = 9

	errors := ValidateSemantics(doc)
	if !hasFieldError(errors, "observation.terminal_history_index") {
		t.Errorf("expected terminal_history_index error, got: %v", errors)
	}
}

func TestValidateSemanticsCollectsAllViolations(t *testing.T) {
	doc := Kuhn()
	doc.Actions[1].Labels.Open = "raise"
	doc.TurnModel.InitialActor = "player_9"
	doc.Observation.Size = 11

	errors := ValidateSemantics(doc)
	if len(errors) < 3 {
		t.Errorf("expected all three violations reported together, got: %v", errors)
	}
}
