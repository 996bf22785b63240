package engine

// Observe encodes the hand from one player's seat. The vector layout is
// declared by the contract's observation segments:
//
//	[card one-hot | history bucket one-hot | current actor one-hot]
//
// The card segment is all zeros before a deal, the history segment always
// carries exactly one hot bit (the catch-all bucket covers terminal and
// undeclared sequences), and the actor segment is all zeros once the hand
// is over.
func (e *Engine) Observe(player int) (Observation, error) {
	if !e.started {
		return Observation{}, &ProtocolError{Op: "observe", Reason: "engine has not been reset"}
	}
	if player < 0 || player >= numPlayers {
		return Observation{}, &ProtocolError{Op: "observe", Reason: "unknown player index"}
	}

	vec := make([]float32, e.rules.obsSize)
	if card := e.dealt[player]; card >= 0 {
		vec[e.rules.cardOffset+card] = 1
	}
	vec[e.rules.historyOffset+e.rules.historyBucket(e.history)] = 1
	if e.actor >= 0 {
		vec[e.rules.actorOffset+e.actor] = 1
	}

	return Observation{Vector: vec, ActionMask: e.legalMask(player)}, nil
}
