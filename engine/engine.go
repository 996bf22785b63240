// Package engine executes one hand of a contract-defined Kuhn-style game.
//
// An Engine interprets a validated contract document: phases, legal-action
// masks, and action labels are table lookups, and the only hard-coded
// behavior is the open/response transition rule. One Engine instance is
// reused across hands via Reset; it performs no locking and must be owned
// by a single logical caller.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/kuhnforge/gamecore/contract"
)

const numPlayers = 2

// Engine is the turn-based phase state machine for one hand. All mutable
// state belongs to the current hand and is discarded by the next Reset.
type Engine struct {
	rules *ruleset
	rng   uint64

	started bool
	handID  uuid.UUID

	phase      string
	actor      int // -1 once terminal
	dealt      [numPlayers]int
	history    []string
	contrib    [numPlayers]int
	lastBettor int // -1 until a bet is placed

	terminated [numPlayers]bool
	truncated  [numPlayers]bool
	rewards    [numPlayers]float64
}

// Observation is the per-agent view produced by Observe.
type Observation struct {
	// Vector is the fixed-size feature encoding declared by the contract:
	// private card one-hot, history bucket one-hot, current actor one-hot.
	Vector []float32

	// ActionMask is all zeros unless the observed player is the live
	// current actor, in which case it is the contract mask for the phase.
	ActionMask []uint8
}

// New compiles the contract into rule tables and returns a fresh engine.
// The engine must be Reset before the first Step.
func New(doc *contract.Document) (*Engine, error) {
	rules, err := newRuleset(doc)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: rules}, nil
}

// xorshift64. Zero state is not a valid seed.
func (e *Engine) nextRand() uint64 {
	x := e.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	e.rng = x
	return x
}

func (e *Engine) randN(n uint64) uint64 {
	return e.nextRand() % n
}

// Reset starts a new hand: reseeds the deal RNG (seed 0 keeps the current
// stream, falling back to a time-derived seed on first use), deals two
// distinct cards, posts the ante, and restores the initial phase and actor.
func (e *Engine) Reset(seed uint64) {
	if seed != 0 {
		e.rng = seed
	}
	if e.rng == 0 {
		e.rng = uint64(time.Now().UnixNano()) | 1
	}

	// Partial Fisher-Yates over card indices: a deal without replacement.
	cards := make([]int, e.rules.numCards)
	for i := range cards {
		cards[i] = i
	}
	for p := 0; p < numPlayers; p++ {
		j := p + int(e.randN(uint64(len(cards)-p)))
		cards[p], cards[j] = cards[j], cards[p]
		e.dealt[p] = cards[p]
	}

	e.history = e.history[:0]
	for p := 0; p < numPlayers; p++ {
		e.contrib[p] = 1 // ante
		e.terminated[p] = false
		e.truncated[p] = false
		e.rewards[p] = 0
	}
	e.lastBettor = -1
	e.phase = e.rules.initialPhase
	e.actor = e.rules.initialActor
	e.handID = uuid.New()
	e.started = true
}

// ForceDeal overrides the dealt cards of the current hand. It exists for
// deterministic tests and tooling; cards are ranked indices and must be
// distinct and in range.
func (e *Engine) ForceDeal(cards ...int) error {
	if !e.started {
		return &ProtocolError{Op: "force deal", Reason: "engine has not been reset"}
	}
	if len(cards) != numPlayers {
		return &ProtocolError{Op: "force deal", Reason: "exactly one card per player required"}
	}
	if cards[0] == cards[1] {
		return &ProtocolError{Op: "force deal", Reason: "cards must be distinct"}
	}
	for _, c := range cards {
		if c < 0 || c >= e.rules.numCards {
			return &ProtocolError{Op: "force deal", Reason: "card index out of range"}
		}
	}
	for p := 0; p < numPlayers; p++ {
		e.dealt[p] = cards[p]
	}
	return nil
}

func other(player int) int { return 1 - player }

// legalMask returns the mask checked for a step or observation by this
// player: the phase mask when the player is the live current actor, all
// zeros otherwise.
func (e *Engine) legalMask(player int) []uint8 {
	mask := make([]uint8, e.rules.actionCount)
	if player != e.actor || e.terminated[player] || e.truncated[player] {
		return mask
	}
	copy(mask, e.rules.mask(e.phase))
	return mask
}

// Step advances the hand by one ply for the given player. The whole step
// is atomic: on any error no state has changed.
func (e *Engine) Step(player, action int) error {
	if !e.started {
		return &ProtocolError{Op: "step", Reason: "engine has not been reset"}
	}
	if player < 0 || player >= numPlayers {
		return &ProtocolError{Op: "step", Reason: "unknown player index"}
	}
	if e.terminated[player] || e.truncated[player] {
		return &ProtocolError{Op: "step", Reason: "hand has ended for this player; acknowledge with DeadStep"}
	}

	mask := e.legalMask(player)
	if action < 0 || action >= e.rules.actionCount || mask[action] == 0 {
		return &IllegalActionError{Player: player, Action: action, Mask: mask}
	}

	kind := e.rules.kinds[e.phase]
	var token string
	switch kind {
	case kindOpen:
		token = e.rules.openToken[action]
	case kindResponse:
		token = e.rules.responseToken[action]
	default:
		return &ProtocolError{Op: "step", Reason: "no acting phase"}
	}

	// Resolve the full transition before mutating anything.
	next, err := e.transition(kind, player, token)
	if err != nil {
		return err
	}

	e.history = append(e.history, token)
	if token == contract.TokenBet || token == contract.TokenCall {
		e.contrib[player]++
	}
	if token == contract.TokenBet {
		e.lastBettor = player
	}

	if next.terminal {
		e.settle(next.winner)
	} else {
		e.phase = next.phase
		e.actor = next.actor
	}
	return nil
}

// stepOutcome is a fully-resolved transition, applied only after every
// precondition has passed.
type stepOutcome struct {
	phase    string
	actor    int
	terminal bool
	winner   int
}

// transition applies the contract-driven rule: in an open phase a check
// advances to the next open phase or ends in showdown after the last one,
// and a bet moves the other player into their response phase; in a
// response phase a call ends in showdown and a fold awards the hand to the
// last bettor.
func (e *Engine) transition(kind phaseKind, player int, token string) (stepOutcome, error) {
	switch kind {
	case kindOpen:
		switch token {
		case contract.TokenCheck:
			pos := e.rules.openPos[e.phase]
			if pos+1 < len(e.rules.open) {
				return stepOutcome{phase: e.rules.open[pos+1], actor: other(player)}, nil
			}
			return stepOutcome{terminal: true, winner: e.showdownWinner()}, nil
		case contract.TokenBet:
			responder := other(player)
			return stepOutcome{phase: e.rules.respond[responder], actor: responder}, nil
		}
	case kindResponse:
		switch token {
		case contract.TokenCall:
			return stepOutcome{terminal: true, winner: e.showdownWinner()}, nil
		case contract.TokenFold:
			// A response phase is only reachable after a bet.
			if e.lastBettor < 0 {
				return stepOutcome{}, &ProtocolError{Op: "step", Reason: "fold with no recorded bettor"}
			}
			return stepOutcome{terminal: true, winner: e.lastBettor}, nil
		}
	}
	return stepOutcome{}, &ProtocolError{
		Op:     "step",
		Reason: "contract label " + token + " has no transition in this phase kind",
	}
}

// showdownWinner compares private cards; ranks are distinct by
// construction, so there is never a tie.
func (e *Engine) showdownWinner() int {
	if e.dealt[0] > e.dealt[1] {
		return 0
	}
	return 1
}

// settle moves the hand to the terminal phase and assigns zero-sum payoffs:
// the winner nets the loser's contribution, the loser forfeits their own.
func (e *Engine) settle(winner int) {
	loser := other(winner)
	pot := e.contrib[0] + e.contrib[1]
	e.rewards[winner] = float64(pot - e.contrib[winner])
	e.rewards[loser] = -float64(e.contrib[loser])
	for p := 0; p < numPlayers; p++ {
		e.terminated[p] = true
	}
	e.phase = e.rules.terminalPhase
	e.actor = -1
}

// DeadStep acknowledges one synchronized ply for a player whose hand has
// already ended. It never mutates state; multi-agent drivers that expect
// every agent to act once per ply call it in place of Step after terminal.
func (e *Engine) DeadStep(player int) error {
	if !e.started {
		return &ProtocolError{Op: "dead step", Reason: "engine has not been reset"}
	}
	if player < 0 || player >= numPlayers {
		return &ProtocolError{Op: "dead step", Reason: "unknown player index"}
	}
	if !e.terminated[player] && !e.truncated[player] {
		return &ProtocolError{Op: "dead step", Reason: "hand has not ended; a live player must provide an action"}
	}
	return nil
}

// Last reports the per-agent terminal view queried after each step.
// Truncation never occurs in this game; the flag is part of the external
// training contract.
func (e *Engine) Last(player int) (reward float64, terminated, truncated bool, err error) {
	if !e.started {
		return 0, false, false, &ProtocolError{Op: "last", Reason: "engine has not been reset"}
	}
	if player < 0 || player >= numPlayers {
		return 0, false, false, &ProtocolError{Op: "last", Reason: "unknown player index"}
	}
	return e.rewards[player], e.terminated[player], e.truncated[player], nil
}

// Phase returns the current phase identifier.
func (e *Engine) Phase() string { return e.phase }

// ActingPlayer returns the player to act, or false once the hand is over.
func (e *Engine) ActingPlayer() (int, bool) {
	if e.actor < 0 {
		return 0, false
	}
	return e.actor, true
}

// LastBettor returns the player who placed the pending bet, if any.
func (e *Engine) LastBettor() (int, bool) {
	if e.lastBettor < 0 {
		return 0, false
	}
	return e.lastBettor, true
}

// History returns a copy of the public-history tokens of the current hand.
func (e *Engine) History() []string {
	return append([]string(nil), e.history...)
}

// Contribution returns the chips committed by a player this hand.
func (e *Engine) Contribution(player int) int {
	if player < 0 || player >= numPlayers {
		return 0
	}
	return e.contrib[player]
}

// Pot returns the total chips committed this hand.
func (e *Engine) Pot() int { return e.contrib[0] + e.contrib[1] }

// HandID identifies the current hand for log correlation across parallel
// workers. A new ID is stamped on every Reset.
func (e *Engine) HandID() uuid.UUID { return e.handID }

// PlayerName resolves a player index to the contract's identifier.
func (e *Engine) PlayerName(player int) string {
	if player < 0 || player >= len(e.rules.players) {
		return ""
	}
	return e.rules.players[player]
}
