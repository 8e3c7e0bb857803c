package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/engine"
	"github.com/spec-kit/hr-intake/internal/repository"
)

type stubFallback struct {
	calls   int
	result  *domain.IntentResult
	block   chan struct{}
	lastReq engine.FallbackRequest
}

func (f *stubFallback) Resolve(ctx context.Context, req engine.FallbackRequest) (*domain.IntentResult, error) {
	f.calls++
	f.lastReq = req
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	out := *f.result
	return &out, nil
}

func newConversationFixture(fb engine.Fallback) (*ConversationService, *TicketService) {
	clock := func() time.Time {
		return time.Date(2024, 12, 20, 15, 4, 5, 0, time.UTC)
	}
	eng := engine.New(engine.Dependencies{
		Directory: testRoster(),
		Cache:     engine.NewMemoryCache(engine.DefaultCacheTTL, nil),
		Fallback:  fb,
		Clock:     clock,
	})
	tickets := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(),
		Directory:  testRoster(),
		Clock:      clock,
	})
	conversations := NewConversationService(ConversationDependencies{
		Engine:  eng,
		Tickets: tickets,
		Clock:   clock,
	})
	return conversations, tickets
}

func TestStartOpensWithWelcome(t *testing.T) {
	conversations, _ := newConversationFixture(nil)

	id, transcript, err := conversations.Start(context.Background(), "AC78923", domain.LanguageFR)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, transcript, 1)
	assert.Equal(t, domain.SpeakerAssistant, transcript[0].Speaker)
	assert.Contains(t, transcript[0].Text, "Bonjour")
}

func TestSubmitFinalTurnCreatesTicket(t *testing.T) {
	conversations, tickets := newConversationFixture(nil)
	ctx := context.Background()

	id, _, err := conversations.Start(ctx, "AC78923", domain.LanguageEN)
	require.NoError(t, err)

	outcome, err := conversations.Submit(ctx, id, "I need to call in sick today")
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.True(t, outcome.Result.IsFinal)
	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, domain.TicketStatusPending, outcome.Ticket.Status)

	// Closing afterwards must not create a second ticket.
	closeTicket, err := conversations.Close(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, closeTicket)

	stored, err := tickets.ListTickets(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSubmitNonFinalTurnDefersTicket(t *testing.T) {
	conversations, tickets := newConversationFixture(nil)
	ctx := context.Background()

	id, _, err := conversations.Start(ctx, "", domain.LanguageEN)
	require.NoError(t, err)

	// Under the OT limit with no hour count: follow-up question, no ticket.
	outcome, err := conversations.Submit(ctx, id, "AC78923 requesting overtime")
	require.NoError(t, err)
	assert.False(t, outcome.Result.IsFinal)
	assert.Nil(t, outcome.Ticket)

	stored, err := tickets.ListTickets(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// Close synthesizes the pending request into exactly one ticket.
	closeTicket, err := conversations.Close(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, closeTicket)
	assert.Equal(t, domain.IntentOvertimeRequest, closeTicket.Type)
	assert.Equal(t, domain.BadgePendingInfo, closeTicket.ReasonBadge)

	stored, err = tickets.ListTickets(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestMultiTurnConversationCompletes(t *testing.T) {
	conversations, tickets := newConversationFixture(nil)
	ctx := context.Background()

	id, _, err := conversations.Start(ctx, "AC78923", domain.LanguageEN)
	require.NoError(t, err)

	outcome, err := conversations.Submit(ctx, id, "I'd like some overtime")
	require.NoError(t, err)
	assert.False(t, outcome.Result.IsFinal)

	// "1 hour" lands under the ceiling: 11+1=12.
	outcome, err = conversations.Submit(ctx, id, "1 hour please")
	require.NoError(t, err)
	require.True(t, outcome.Result.IsFinal)
	assert.Equal(t, domain.VerdictPassed, outcome.Result.Compliance)
	require.NotNil(t, outcome.Ticket)

	_, err = conversations.Close(ctx, id)
	require.NoError(t, err)
	stored, err := tickets.ListTickets(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSubmitAfterCloseRejected(t *testing.T) {
	conversations, _ := newConversationFixture(nil)
	ctx := context.Background()

	id, _, err := conversations.Start(ctx, "AC78923", domain.LanguageEN)
	require.NoError(t, err)
	_, err = conversations.Close(ctx, id)
	require.NoError(t, err)

	_, err = conversations.Submit(ctx, id, "hello?")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUnknownSession(t *testing.T) {
	conversations, _ := newConversationFixture(nil)
	_, err := conversations.Submit(context.Background(), "nope", "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = conversations.Close(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCloseWelcomeOnlySynthesizesInquiry(t *testing.T) {
	// The welcome turn alone still counts as a transcript, so close
	// synthesizes a GENERAL_INQUIRY record for auditability.
	conversations, tickets := newConversationFixture(nil)
	ctx := context.Background()

	id, _, err := conversations.Start(ctx, "AC78923", domain.LanguageEN)
	require.NoError(t, err)
	closeTicket, err := conversations.Close(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, closeTicket)
	assert.Equal(t, domain.IntentGeneralInquiry, closeTicket.Type)

	stored, err := tickets.ListTickets(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSubmitHistoryExcludesCurrentUtterance(t *testing.T) {
	fb := &stubFallback{result: &domain.IntentResult{
		Intent:   domain.IntentGeneralInquiry,
		Response: "noted",
	}}
	conversations, _ := newConversationFixture(fb)
	ctx := context.Background()

	id, _, err := conversations.Start(ctx, "", domain.LanguageEN)
	require.NoError(t, err)

	_, err = conversations.Submit(ctx, id, "first odd question")
	require.NoError(t, err)
	_, err = conversations.Submit(ctx, id, "second odd question")
	require.NoError(t, err)

	// The window for the second turn holds welcome, the first utterance
	// and its reply; the current utterance travels only as the final
	// user message, never duplicated into the history.
	require.Len(t, fb.lastReq.History, 3)
	for _, turn := range fb.lastReq.History {
		assert.NotEqual(t, "second odd question", turn.Text)
	}
	assert.Equal(t, "first odd question", fb.lastReq.History[1].Text)
	assert.Equal(t, "second odd question", fb.lastReq.Utterance)
}

func TestCloseDiscardsInflightFallbackResult(t *testing.T) {
	fb := &stubFallback{
		result: &domain.IntentResult{
			Intent:   domain.IntentGeneralInquiry,
			Response: "late reply",
			IsFinal:  true,
		},
		block: make(chan struct{}),
	}
	conversations, tickets := newConversationFixture(fb)
	ctx := context.Background()

	id, _, err := conversations.Start(ctx, "", domain.LanguageEN)
	require.NoError(t, err)

	submitErr := make(chan error, 1)
	go func() {
		_, err := conversations.Submit(ctx, id, "something only the model can answer")
		submitErr <- err
	}()

	// Wait for the turn to reach the fallback, then close underneath it.
	require.Eventually(t, func() bool {
		return fb.calls > 0
	}, time.Second, 5*time.Millisecond)

	// Close blocks on the turn lock until the in-flight call is
	// cancelled, so run it concurrently with the submit.
	closeDone := make(chan struct{})
	go func() {
		_, _ = conversations.Close(ctx, id)
		close(closeDone)
	}()

	require.ErrorIs(t, <-submitErr, ErrConversationClosed)
	<-closeDone
	close(fb.block)

	// The late result never became a conversation ticket; only the
	// close-time synthesis (from the utterance left on the transcript)
	// exists.
	stored, err := tickets.ListTickets(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.NotEqual(t, "late reply", stored[0].Summary)
}
