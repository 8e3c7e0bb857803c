package domain

import "time"

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	SpeakerEmployee  Speaker = "employee"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one utterance in a conversation.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is an append-only ordered sequence of turns scoped to one
// session. Append returns a new transcript so earlier snapshots passed
// downstream are never mutated.
type Transcript []Turn

// Append returns a new transcript with the turn added.
func (t Transcript) Append(turn Turn) Transcript {
	out := make(Transcript, len(t), len(t)+1)
	copy(out, t)
	return append(out, turn)
}

// Last returns at most n trailing turns.
func (t Transcript) Last(n int) []Turn {
	if n <= 0 || len(t) == 0 {
		return nil
	}
	if len(t) <= n {
		return append([]Turn(nil), t...)
	}
	return append([]Turn(nil), t[len(t)-n:]...)
}
