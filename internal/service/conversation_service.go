package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-intake/internal/compose"
	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/engine"
	"github.com/spec-kit/hr-intake/internal/events"
)

var (
	// ErrSessionNotFound marks an unknown conversation id.
	ErrSessionNotFound = errors.New("conversation not found")
	// ErrConversationClosed marks turns submitted after close, including
	// in-flight fallback results that arrived for a closed session.
	ErrConversationClosed = errors.New("conversation closed")
)

// session is one live conversation. turnMu serializes turn processing:
// a new utterance is never classified until the previous turn's result
// and any resulting ticket are finalized.
type session struct {
	id         string
	employeeID string
	lang       domain.Language

	turnMu     sync.Mutex
	transcript domain.Transcript
	lastResult *domain.IntentResult
	ticketed   bool

	stateMu        sync.Mutex
	closed         bool
	cancelInflight context.CancelFunc
}

func (s *session) isClosed() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.closed
}

func (s *session) setInflight(cancel context.CancelFunc) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.cancelInflight = cancel
}

// close marks the session closed and cancels any in-flight fallback
// call so its eventual result is discarded.
func (s *session) close() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.closed = true
	if s.cancelInflight != nil {
		s.cancelInflight()
		s.cancelInflight = nil
	}
}

// TurnOutcome is what one submitted utterance produced.
type TurnOutcome struct {
	Result *domain.IntentResult
	Ticket *domain.Ticket
}

// ConversationService manages live sessions and guarantees that every
// conversation with at least one turn ends with exactly one ticket for
// its last open request.
type ConversationService struct {
	engine     *engine.Engine
	tickets    *TicketService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// ConversationDependencies bundles collaborators.
type ConversationDependencies struct {
	Engine     *engine.Engine
	Tickets    *TicketService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewConversationService constructs the service.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		engine:     deps.Engine,
		tickets:    deps.Tickets,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		clock:      clock,
		sessions:   make(map[string]*session),
	}
}

// Start opens a session. employeeID may be empty when the caller is not
// authenticated as a specific employee; the engine then relies on
// extraction. The assistant's welcome is the first transcript turn.
func (c *ConversationService) Start(_ context.Context, employeeID string, lang domain.Language) (string, domain.Transcript, error) {
	sess := &session{
		id:         uuid.NewString(),
		employeeID: employeeID,
		lang:       lang,
	}
	sess.transcript = sess.transcript.Append(domain.Turn{
		Speaker:   domain.SpeakerAssistant,
		Text:      compose.Welcome(lang),
		Timestamp: c.clock(),
	})

	c.mu.Lock()
	c.sessions[sess.id] = sess
	c.mu.Unlock()

	c.logger.Info("conversation started",
		zap.String("session_id", sess.id),
		zap.String("employee_id", employeeID),
		zap.String("lang", string(lang)))
	return sess.id, sess.transcript, nil
}

// Submit processes one utterance through the decision engine. Turns are
// strictly sequential per session; concurrent submissions queue on the
// session lock.
func (c *ConversationService) Submit(ctx context.Context, sessionID, utterance string) (*TurnOutcome, error) {
	sess, err := c.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()

	if sess.isClosed() {
		return nil, ErrConversationClosed
	}

	// Snapshot the history before appending: the fallback window must
	// carry only prior turns, the current utterance travels separately.
	priorTranscript := sess.transcript
	sess.transcript = sess.transcript.Append(domain.Turn{
		Speaker:   domain.SpeakerEmployee,
		Text:      utterance,
		Timestamp: c.clock(),
	})

	turnCtx, cancel := context.WithCancel(ctx)
	sess.setInflight(cancel)
	defer func() {
		cancel()
		sess.setInflight(nil)
	}()

	result := c.engine.Decide(turnCtx, utterance, sess.lang, priorTranscript, sess.employeeID)

	// The session may have been closed while the fallback call was in
	// flight; the result is discarded, the utterance stays on the
	// transcript for close-time synthesis.
	if sess.isClosed() {
		c.logger.Info("discarding result for closed conversation", zap.String("session_id", sessionID))
		return nil, ErrConversationClosed
	}

	sess.transcript = sess.transcript.Append(domain.Turn{
		Speaker:   domain.SpeakerAssistant,
		Text:      result.Response,
		Timestamp: c.clock(),
	})
	sess.lastResult = result

	if result.EscalationRequired {
		c.publish(ctx, events.Event{
			Type: events.EventTurnEscalated,
			Payload: events.TurnEscalatedPayload{
				EmployeeID: result.Entities.EmployeeID,
				Intent:     result.Intent,
				AuditLog:   result.AuditLog,
			},
		})
	}

	outcome := &TurnOutcome{Result: result}
	if result.IsFinal {
		ticket, err := c.tickets.CreateFromResult(ctx, result, sess.transcript)
		if err != nil {
			return nil, err
		}
		outcome.Ticket = ticket
		sess.ticketed = true
	}
	return outcome, nil
}

// Transcript returns a snapshot of the session's transcript.
func (c *ConversationService) Transcript(_ context.Context, sessionID string) (domain.Transcript, error) {
	sess, err := c.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()
	return sess.transcript, nil
}

// Close ends a session. When no turn reached finality the service still
// synthesizes a best-effort ticket from the transcript so the
// interaction is never silently discarded.
func (c *ConversationService) Close(ctx context.Context, sessionID string) (*domain.Ticket, error) {
	sess, err := c.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.close()

	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()

	var ticket *domain.Ticket
	if !sess.ticketed && len(sess.transcript) > 0 {
		if sess.lastResult != nil && sess.lastResult.IsFinal {
			ticket, err = c.tickets.CreateFromResult(ctx, sess.lastResult, sess.transcript)
		} else {
			ticket, err = c.tickets.SynthesizeFromTranscript(ctx, sess.transcript, sess.lang)
		}
		if err != nil {
			return nil, err
		}
		sess.ticketed = true
	}

	c.mu.Lock()
	delete(c.sessions, sessionID)
	c.mu.Unlock()

	c.publish(ctx, events.Event{
		Type: events.EventConversationClosed,
		Payload: events.ConversationClosedPayload{
			SessionID:    sessionID,
			TurnCount:    len(sess.transcript),
			ReachedFinal: sess.lastResult != nil && sess.lastResult.IsFinal,
		},
	})
	c.logger.Info("conversation closed", zap.String("session_id", sessionID))
	return ticket, nil
}

func (c *ConversationService) session(id string) (*session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sess, ok := c.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (c *ConversationService) publish(ctx context.Context, event events.Event) {
	if c.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.clock()
	}
	_ = c.dispatcher.Publish(ctx, event)
}
