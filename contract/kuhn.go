package contract

// Canonical Kuhn contract identifiers. Engine and binding consumers that
// hard-code against the built-in contract use these instead of string
// literals.
const (
	KuhnContractName    = "kuhn_poker"
	KuhnContractVersion = "v1"

	PhaseP0Act      = "p0_act"
	PhaseP1Act      = "p1_act"
	PhaseP0Response = "p0_response"
	PhaseP1Response = "p1_response"
	PhaseTerminal   = "terminal"

	TokenCheck = "check"
	TokenBet   = "bet"
	TokenCall  = "call"
	TokenFold  = "fold"
)

// Canonical Kuhn action ids. Id 0 doubles as check (open) and call
// (response); the labels in the contract carry that mapping.
const (
	ActionCheckCall = 0
	ActionBet       = 1
	ActionFold      = 2
)

// Kuhn returns the built-in canonical 3-card Kuhn poker contract. It is
// structurally identical to contracts/kuhn.v1.json; the file is the
// interchange form for non-Go runtimes, this is the in-process form.
func Kuhn() *Document {
	return &Document{
		ContractName: KuhnContractName,
		Version:      KuhnContractVersion,
		Entities: Entities{
			Players:       []string{"player_0", "player_1"},
			Cards:         []string{"J", "Q", "K"},
			PublicActions: []string{TokenCheck, TokenBet, TokenCall, TokenFold},
			Phases: []string{
				PhaseP0Act,
				PhaseP1Act,
				PhaseP0Response,
				PhaseP1Response,
				PhaseTerminal,
			},
		},
		TurnModel: TurnModel{
			InitialPhase:         PhaseP0Act,
			InitialActor:         "player_0",
			TerminalPhase:        PhaseTerminal,
			OpenActionPhases:     []string{PhaseP0Act, PhaseP1Act},
			ResponseActionPhases: []string{PhaseP0Response, PhaseP1Response},
		},
		Actions: []Action{
			{
				ID:     ActionCheckCall,
				Name:   "check_call",
				Labels: ActionLabels{Open: TokenCheck, Response: TokenCall},
			},
			{
				ID:     ActionBet,
				Name:   "bet",
				Labels: ActionLabels{Open: TokenBet, Response: TokenBet},
			},
			{
				ID:     ActionFold,
				Name:   "fold",
				Labels: ActionLabels{Open: TokenFold, Response: TokenFold},
			},
		},
		LegalMasksByPhase: map[string][]int{
			PhaseP0Act:      {1, 1, 0},
			PhaseP1Act:      {1, 1, 0},
			PhaseP0Response: {1, 0, 1},
			PhaseP1Response: {1, 0, 1},
			PhaseTerminal:   {0, 0, 0},
		},
		Observation: Observation{
			Size: 10,
			Segments: []Segment{
				{Name: SegmentPrivateCard, Offset: 0, Size: 3},
				{Name: SegmentPublicHistory, Offset: 3, Size: 5},
				{Name: SegmentCurrentActor, Offset: 8, Size: 2},
			},
			HistoryBuckets: []HistoryBucket{
				{Index: 0, Sequence: []string{}},
				{Index: 1, Sequence: []string{TokenCheck}},
				{Index: 2, Sequence: []string{TokenBet}},
				{Index: 3, Sequence: []string{TokenCheck, TokenBet}},
				{Index: 4, Sequence: nil},
			},
			TerminalHistoryIndex: 4,
		},
		Inference: Inference{
			InputNames: InferenceInputs{
				Observation: "observation",
				ActionMask:  "action_mask",
			},
			OutputNames: InferenceOutputs{
				MaskedLogits: "masked_logits",
				Value:        "value",
			},
			ValueDim: 1,
		},
	}
}
