package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-intake/internal/directory"
	"github.com/spec-kit/hr-intake/internal/domain"
)

type fakeFallback struct {
	calls  int
	result *domain.IntentResult
	err    error
	lastReq FallbackRequest
}

func (f *fakeFallback) Resolve(_ context.Context, req FallbackRequest) (*domain.IntentResult, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	return &out, nil
}

func testDirectory() directory.Directory {
	return directory.NewMemoryDirectory([]domain.Employee{
		{ID: "AC78923", Name: "Jean Tremblay", Station: "YYZ", Workgroup: "Ramp Services", SickDaysRemaining: 7, OTHoursThisWeek: 11},
		{ID: "AC45678", Name: "Sarah Liu", Station: "YVR", SickDaysRemaining: 3, OTHoursThisWeek: 12},
	})
}

func fixedEngineClock() time.Time {
	return time.Date(2024, 12, 20, 15, 4, 5, 0, time.UTC)
}

func TestDecideLocallyNeverCallsFallback(t *testing.T) {
	fb := &fakeFallback{result: &domain.IntentResult{Intent: domain.IntentUnknown, Response: "llm"}}
	eng := New(Dependencies{
		Directory: testDirectory(),
		Cache:     NewMemoryCache(DefaultCacheTTL, nil),
		Fallback:  fb,
		Clock:     fixedEngineClock,
	})

	result := eng.Decide(context.Background(), "I need to call in sick, this is AC78923", domain.LanguageEN, nil, "")
	require.NotNil(t, result)
	assert.Equal(t, domain.IntentSickLeave, result.Intent)
	assert.Equal(t, "Sick leave approved for Jean Tremblay. You have 7 days remaining.", result.Response)
	assert.True(t, result.IsFinal)
	assert.Zero(t, fb.calls)
}

func TestDecideUsesKnownEmployeeID(t *testing.T) {
	fb := &fakeFallback{result: &domain.IntentResult{Intent: domain.IntentUnknown, Response: "llm"}}
	eng := New(Dependencies{Directory: testDirectory(), Fallback: fb, Clock: fixedEngineClock})

	// No id in the utterance; the session-bound id carries it.
	result := eng.Decide(context.Background(), "I'm feeling sick today", domain.LanguageEN, nil, "AC78923")
	assert.Equal(t, domain.IntentSickLeave, result.Intent)
	assert.Zero(t, fb.calls)
}

func TestDecideFallsBackWhenUnclassified(t *testing.T) {
	fb := &fakeFallback{result: &domain.IntentResult{
		Intent:   domain.IntentGeneralInquiry,
		Response: "Happy to help with that.",
	}}
	eng := New(Dependencies{
		Directory: testDirectory(),
		Cache:     NewMemoryCache(DefaultCacheTTL, nil),
		Fallback:  fb,
		Clock:     fixedEngineClock,
	})

	result := eng.Decide(context.Background(), "what's the cafeteria schedule", domain.LanguageEN, nil, "AC78923")
	assert.Equal(t, 1, fb.calls)
	assert.Equal(t, domain.IntentGeneralInquiry, result.Intent)
	// Missing compliance defaults to PENDING.
	assert.Equal(t, domain.VerdictPending, result.Compliance)
	assert.Contains(t, fb.lastReq.EmployeeContext, "AC78923:Jean Tremblay,OT=11,Sick=7")
	assert.Contains(t, fb.lastReq.EmployeeContext, "AC45678:Sarah Liu,OT=12,Sick=3")
}

func TestDecideCachesFallbackResponses(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)}
	fb := &fakeFallback{result: &domain.IntentResult{
		Intent:   domain.IntentGeneralInquiry,
		Response: "Cached answer.",
	}}
	eng := New(Dependencies{
		Directory: testDirectory(),
		Cache:     NewMemoryCache(DefaultCacheTTL, clock.Now),
		Fallback:  fb,
		Clock:     clock.Now,
	})

	first := eng.Decide(context.Background(), "What Is The Cafeteria Schedule", domain.LanguageEN, nil, "AC78923")
	clock.Advance(30 * time.Second)
	// Same normalized utterance inside the TTL: served from cache.
	second := eng.Decide(context.Background(), "  what is the cafeteria schedule ", domain.LanguageEN, nil, "AC78923")

	assert.Equal(t, 1, fb.calls)
	assert.Equal(t, first.Response, second.Response)

	clock.Advance(60 * time.Second)
	_ = eng.Decide(context.Background(), "what is the cafeteria schedule", domain.LanguageEN, nil, "AC78923")
	assert.Equal(t, 2, fb.calls)
}

func TestDecideCacheIsLanguageScoped(t *testing.T) {
	fb := &fakeFallback{result: &domain.IntentResult{Intent: domain.IntentGeneralInquiry, Response: "reply"}}
	eng := New(Dependencies{
		Directory: testDirectory(),
		Cache:     NewMemoryCache(DefaultCacheTTL, nil),
		Fallback:  fb,
		Clock:     fixedEngineClock,
	})

	_ = eng.Decide(context.Background(), "random question", domain.LanguageEN, nil, "AC78923")
	_ = eng.Decide(context.Background(), "random question", domain.LanguageFR, nil, "AC78923")
	assert.Equal(t, 2, fb.calls)
}

func TestDecideSynthesizesFailureOnFallbackError(t *testing.T) {
	fb := &fakeFallback{err: errors.New("upstream timeout")}
	eng := New(Dependencies{Directory: testDirectory(), Fallback: fb, Clock: fixedEngineClock})

	result := eng.Decide(context.Background(), "something unclassifiable", domain.LanguageEN, nil, "")
	require.NotNil(t, result)
	assert.Equal(t, domain.IntentUnknown, result.Intent)
	assert.Equal(t, "Sorry, having trouble. Let me connect you.", result.Response)
	assert.Equal(t, domain.VerdictPending, result.Compliance)
	assert.True(t, result.EscalationRequired)
	assert.True(t, result.IsFinal)
	assert.Contains(t, result.AuditLog, "FALLBACK_ERROR")
}

func TestDecideSynthesizesFailureWithoutFallback(t *testing.T) {
	eng := New(Dependencies{Directory: testDirectory(), Clock: fixedEngineClock})

	result := eng.Decide(context.Background(), "unclassifiable text", domain.LanguageFR, nil, "")
	require.NotNil(t, result)
	assert.Equal(t, "Désolé, problème technique. Je vous mets en relation avec un agent.", result.Response)
}

func TestDecideRejectsMalformedFallbackResult(t *testing.T) {
	fb := &fakeFallback{result: &domain.IntentResult{Intent: "", Response: ""}}
	eng := New(Dependencies{Directory: testDirectory(), Fallback: fb, Clock: fixedEngineClock})

	result := eng.Decide(context.Background(), "unclassifiable text", domain.LanguageEN, nil, "")
	assert.Equal(t, domain.IntentUnknown, result.Intent)
	assert.True(t, result.EscalationRequired)
}

func TestDecideBoundsHistoryWindow(t *testing.T) {
	fb := &fakeFallback{result: &domain.IntentResult{Intent: domain.IntentGeneralInquiry, Response: "ok"}}
	eng := New(Dependencies{Directory: testDirectory(), Fallback: fb, Clock: fixedEngineClock})

	var transcript domain.Transcript
	for i := 0; i < 10; i++ {
		transcript = transcript.Append(domain.Turn{Speaker: domain.SpeakerEmployee, Text: "turn"})
	}
	_ = eng.Decide(context.Background(), "unclassifiable", domain.LanguageEN, transcript, "")
	assert.Len(t, fb.lastReq.History, HistoryWindow)
}
