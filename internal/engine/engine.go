package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-intake/internal/compose"
	"github.com/spec-kit/hr-intake/internal/directory"
	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/nlu"
	"github.com/spec-kit/hr-intake/internal/observability"
	"github.com/spec-kit/hr-intake/internal/policy"
)

// HistoryWindow caps how many prior turns are replayed to the fallback
// collaborator (3 exchanges).
const HistoryWindow = 6

// FallbackRequest is the bounded context handed to the fallback
// collaborator for one unresolved utterance.
type FallbackRequest struct {
	Utterance       string
	Language        domain.Language
	History         []domain.Turn
	EmployeeContext string
}

// Fallback is the external language-model collaborator. It must return
// a result with at least intent, response and finality populated;
// anything else is treated as a failure by the engine.
type Fallback interface {
	Resolve(ctx context.Context, req FallbackRequest) (*domain.IntentResult, error)
}

// Engine sequences extraction, classification, rule evaluation and
// response composition for one conversational turn, delegating to the
// fallback collaborator only when local resolution is impossible.
type Engine struct {
	directory directory.Directory
	cache     ResponseCache
	fallback  Fallback
	metrics   *observability.Metrics
	logger    *zap.Logger
	clock     func() time.Time
}

// Dependencies bundles collaborators for the engine.
type Dependencies struct {
	Directory directory.Directory
	Cache     ResponseCache
	Fallback  Fallback
	Metrics   *observability.Metrics
	Logger    *zap.Logger
	Clock     func() time.Time
}

// New constructs the engine. Cache and Fallback may be nil: a nil cache
// disables response caching, a nil fallback turns every fallback-path
// request into the synthesized escalation result.
func New(deps Dependencies) *Engine {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		directory: deps.Directory,
		cache:     deps.Cache,
		fallback:  deps.Fallback,
		metrics:   deps.Metrics,
		logger:    logger,
		clock:     clock,
	}
}

// Decide resolves one utterance. It never fails: every path yields a
// valid IntentResult, including fallback outages.
func (e *Engine) Decide(ctx context.Context, utterance string, lang domain.Language, transcript domain.Transcript, knownEmployeeID string) *domain.IntentResult {
	if result := e.decideLocally(ctx, utterance, lang, knownEmployeeID); result != nil {
		e.logger.Debug("resolved locally", zap.String("intent", string(result.Intent)))
		e.metrics.RecordDecision(string(result.Intent), true)
		return result
	}

	key := CacheKey(utterance, lang)
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, key); ok {
			e.logger.Debug("fallback cache hit", zap.String("key", key))
			e.metrics.RecordCacheHit()
			return cached
		}
	}

	result, err := e.callFallback(ctx, utterance, lang, transcript)
	if err != nil {
		e.logger.Warn("fallback unavailable", zap.Error(err))
		e.metrics.RecordFallback(false)
		return e.synthesizeFailure(lang)
	}
	e.metrics.RecordFallback(true)
	e.metrics.RecordDecision(string(result.Intent), false)

	if e.cache != nil {
		e.cache.Set(ctx, key, result)
	}
	return result
}

// decideLocally runs the extractor, classifier, evaluator and composer.
// A nil return means the turn needs the fallback path.
func (e *Engine) decideLocally(ctx context.Context, utterance string, lang domain.Language, knownEmployeeID string) *domain.IntentResult {
	facts := nlu.Extract(utterance)
	intent, classified := nlu.Classify(utterance)
	if !classified {
		return nil
	}

	employeeID := knownEmployeeID
	if employeeID == "" {
		employeeID = facts.EmployeeID
	}
	if employeeID == "" {
		return nil
	}

	emp, err := e.directory.Lookup(ctx, employeeID)
	if err != nil {
		if err != directory.ErrNotFound {
			e.logger.Warn("directory lookup failed", zap.String("employee_id", employeeID), zap.Error(err))
		}
		return nil
	}

	decision, ok := policy.Evaluate(intent, facts, emp)
	if !ok {
		return nil
	}
	return compose.Compose(decision, lang, e.clock())
}

func (e *Engine) callFallback(ctx context.Context, utterance string, lang domain.Language, transcript domain.Transcript) (*domain.IntentResult, error) {
	if e.fallback == nil {
		return nil, fmt.Errorf("no fallback collaborator configured")
	}

	employeeContext, err := e.employeeContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("build employee context: %w", err)
	}

	result, err := e.fallback.Resolve(ctx, FallbackRequest{
		Utterance:       utterance,
		Language:        lang,
		History:         transcript.Last(HistoryWindow),
		EmployeeContext: employeeContext,
	})
	if err != nil {
		return nil, err
	}
	if err := validateFallbackResult(result); err != nil {
		return nil, err
	}
	if result.Compliance == "" {
		result.Compliance = domain.VerdictPending
	}
	return result, nil
}

// employeeContext renders the roster as one compact line per the
// fallback prompt budget: "AC78923:Jean Tremblay,OT=11,Sick=7|...".
func (e *Engine) employeeContext(ctx context.Context) (string, error) {
	employees, err := e.directory.List(ctx)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(employees))
	for _, emp := range employees {
		parts = append(parts, fmt.Sprintf("%s:%s,OT=%d,Sick=%d", emp.ID, emp.Name, emp.OTHoursThisWeek, emp.SickDaysRemaining))
	}
	return strings.Join(parts, "|"), nil
}

func validateFallbackResult(result *domain.IntentResult) error {
	if result == nil {
		return fmt.Errorf("fallback returned no result")
	}
	if result.Intent == "" {
		return fmt.Errorf("fallback result missing intent")
	}
	if strings.TrimSpace(result.Response) == "" {
		return fmt.Errorf("fallback result missing response")
	}
	return nil
}

// synthesizeFailure builds the safe terminal result for fallback
// outages: escalated, pending compliance, localized apology.
func (e *Engine) synthesizeFailure(lang domain.Language) *domain.IntentResult {
	return &domain.IntentResult{
		Intent:             domain.IntentUnknown,
		Response:           compose.Apology(lang),
		Compliance:         domain.VerdictPending,
		EscalationRequired: true,
		IsFinal:            true,
		AuditLog:           domain.FormatAuditLog(string(domain.IntentUnknown), "", e.clock(), "FALLBACK_ERROR"),
	}
}
