package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for HTTP traffic and
// decisioning outcomes. All methods are nil-receiver safe so optional
// wiring stays simple.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64

	decisionsByIntent map[string]int64
	localResolved     int64
	fallbackResolved  int64
	fallbackFailures  int64
	cacheHits         int64
	ticketsCreated    int64
	ticketsApproved   int64
	ticketsDenied     int64
}

// DecisionSummary is a point-in-time snapshot for the metrics endpoint.
type DecisionSummary struct {
	DecisionsByIntent map[string]int64 `json:"decisions_by_intent"`
	LocalResolved     int64            `json:"local_resolved"`
	FallbackResolved  int64            `json:"fallback_resolved"`
	FallbackFailures  int64            `json:"fallback_failures"`
	CacheHits         int64            `json:"cache_hits"`
	TicketsCreated    int64            `json:"tickets_created"`
	TicketsApproved   int64            `json:"tickets_approved"`
	TicketsDenied     int64            `json:"tickets_denied"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:      make(map[string]int64),
		errorCount:        make(map[string]int64),
		decisionsByIntent: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordDecision counts a resolved turn by intent and resolution path.
func (m *Metrics) RecordDecision(intent string, local bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisionsByIntent[intent]++
	if local {
		m.localResolved++
	} else {
		m.fallbackResolved++
	}
}

// RecordFallback counts one fallback round trip.
func (m *Metrics) RecordFallback(ok bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !ok {
		m.fallbackFailures++
	}
}

// RecordCacheHit counts a fallback response served from cache.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

// RecordTicket counts ticket lifecycle activity.
func (m *Metrics) RecordTicket(status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch status {
	case "APPROVED":
		m.ticketsApproved++
	case "DENIED":
		m.ticketsDenied++
	default:
		m.ticketsCreated++
	}
}

// Summary snapshots the decisioning counters.
func (m *Metrics) Summary() DecisionSummary {
	if m == nil {
		return DecisionSummary{DecisionsByIntent: map[string]int64{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byIntent := make(map[string]int64, len(m.decisionsByIntent))
	for k, v := range m.decisionsByIntent {
		byIntent[k] = v
	}
	return DecisionSummary{
		DecisionsByIntent: byIntent,
		LocalResolved:     m.localResolved,
		FallbackResolved:  m.fallbackResolved,
		FallbackFailures:  m.fallbackFailures,
		CacheHits:         m.cacheHits,
		TicketsCreated:    m.ticketsCreated,
		TicketsApproved:   m.ticketsApproved,
		TicketsDenied:     m.ticketsDenied,
	}
}
