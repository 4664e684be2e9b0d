package models

// Turn is one completed exchange: the player's action and the story segment it produced.
// Turns are created by the session orchestrator after a successful continuation and never change.
type Turn struct {
	Sequence int    `json:"sequence"` // 0-based position in the history
	Action   string `json:"action"`
	Story    string `json:"story"`
}

// History is the chronological, append-only list of turns of one session.
type History []Turn

// Clone returns a copy that does not share the backing array.
func (h History) Clone() History {
	if h == nil {
		return History{}
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// ContinuationRequest asks the relay to extend the story with a new player action.
type ContinuationRequest struct {
	History           History `json:"history"`
	Action            string  `json:"action"`
	SystemInstruction string  `json:"systemInstruction"`
}

// ContinuationResult is the normalized model answer: a story segment and exactly
// ChoiceCount suggested actions.
type ContinuationResult struct {
	Story   string   `json:"story"`
	Choices []string `json:"choices"`
}

// ChoiceCount is the number of suggested actions every continuation carries.
const ChoiceCount = 3

// SeedRequest asks for a standalone opening premise. Hint is optional.
type SeedRequest struct {
	Hint string `json:"hint,omitempty"`
}

// SeedResult carries the generated start condition. It is not part of the history.
type SeedResult struct {
	StartCondition string `json:"startCondition"`
}

// SessionConfig is fixed for the lifetime of a session.
type SessionConfig struct {
	StartCondition    string `json:"startCondition"`
	SystemInstruction string `json:"systemInstruction"`
}
