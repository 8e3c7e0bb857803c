package dto

import (
	"time"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// StartConversationRequest opens a new intake session.
type StartConversationRequest struct {
	Language string `json:"language"`
}

// TurnResponse is one transcript entry.
type TurnResponse struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// StartConversationResponse returns the session id and the greeting.
type StartConversationResponse struct {
	SessionID  string         `json:"session_id"`
	Language   string         `json:"language"`
	Transcript []TurnResponse `json:"transcript"`
}

// SubmitTurnRequest carries one employee utterance.
type SubmitTurnRequest struct {
	Text string `json:"text"`
}

// SubmitTurnResponse returns the decision for the turn and, when the
// turn was terminal, the created ticket.
type SubmitTurnResponse struct {
	Result *domain.IntentResult `json:"result"`
	Ticket *TicketSummary       `json:"ticket,omitempty"`
}

// CloseConversationResponse returns the ticket guaranteed at close, if
// the conversation had any turns left unticketed.
type CloseConversationResponse struct {
	Ticket *TicketSummary `json:"ticket,omitempty"`
}

// TranscriptResponse is a session transcript snapshot.
type TranscriptResponse struct {
	SessionID  string         `json:"session_id"`
	Transcript []TurnResponse `json:"transcript"`
}

// TurnResponses converts a domain transcript.
func TurnResponses(transcript domain.Transcript) []TurnResponse {
	turns := make([]TurnResponse, 0, len(transcript))
	for _, turn := range transcript {
		turns = append(turns, TurnResponse{
			Speaker:   string(turn.Speaker),
			Text:      turn.Text,
			Timestamp: turn.Timestamp,
		})
	}
	return turns
}
