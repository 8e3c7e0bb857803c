// Package fallback implements the language-model collaborator the
// engine delegates to when local rules cannot resolve an utterance.
package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-intake/internal/config"
	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/engine"
)

// resultPayload is the structured reply schema requested from the
// model. Field names match the wire shape of IntentResult.
type resultPayload struct {
	Intent             string `json:"intent"`
	Response           string `json:"response"`
	ComplianceStatus   string `json:"complianceStatus"`
	EscalationRequired bool   `json:"escalationRequired"`
	IsFinal            bool   `json:"isFinal"`
	AuditLog           string `json:"auditLog"`
	ExtractedData      struct {
		EmployeeID   string `json:"employeeId"`
		EmployeeName string `json:"employeeName"`
	} `json:"extractedData"`
	RuleChecks []struct {
		Rule    string `json:"rule"`
		Result  string `json:"result"`
		Details string `json:"details"`
	} `json:"ruleChecks"`
	SystemStatus []struct {
		System string `json:"system"`
		Status string `json:"status"`
	} `json:"systemStatus"`
}

var resultSchema = generateSchema[resultPayload]()

func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// Client calls an OpenAI-compatible chat endpoint with a strict JSON
// response schema. It satisfies engine.Fallback.
type Client struct {
	openai    openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// New builds the fallback client from config.
func New(cfg config.FallbackConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("fallback API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &Client{
		openai:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
		timeout:   cfg.Timeout(),
		logger:    logger,
	}, nil
}

// Resolve sends the bounded conversation window plus the compact
// employee context and decodes the schema-validated reply. Any
// malformed reply is an error; the engine recovers from it.
func (c *Client) Resolve(ctx context.Context, req engine.FallbackRequest) (*domain.IntentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt(req)))
	for _, turn := range req.History {
		if turn.Speaker == domain.SpeakerAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(req.Utterance))

	params := openai.ChatCompletionNewParams{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: openai.Int(int64(c.maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "hr_intent_result",
					Description: openai.String("Structured HR decision result"),
					Schema:      resultSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fallback chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("fallback returned no choices")
	}

	c.logger.Debug("fallback completed",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens))

	var payload resultPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode fallback reply: %w", err)
	}
	return toIntentResult(payload), nil
}

// systemPrompt keeps the instruction compact on purpose; the employee
// roster is already a single line.
func systemPrompt(req engine.FallbackRequest) string {
	return fmt.Sprintf("HR Assistant. Lang:%s. Employees:%s. Reply briefly.", req.Language, req.EmployeeContext)
}

func toIntentResult(p resultPayload) *domain.IntentResult {
	result := &domain.IntentResult{
		Intent:             domain.IntentCategory(p.Intent),
		Response:           p.Response,
		Compliance:         domain.Verdict(p.ComplianceStatus),
		EscalationRequired: p.EscalationRequired,
		IsFinal:            p.IsFinal,
		AuditLog:           p.AuditLog,
		Entities: domain.Entities{
			EmployeeID:   p.ExtractedData.EmployeeID,
			EmployeeName: p.ExtractedData.EmployeeName,
		},
	}
	for _, rc := range p.RuleChecks {
		result.RuleChecks = append(result.RuleChecks, domain.RuleCheck{
			Rule:    rc.Rule,
			Result:  domain.RuleResult(rc.Result),
			Details: rc.Details,
		})
	}
	for _, ss := range p.SystemStatus {
		result.SystemStatus = append(result.SystemStatus, domain.SystemStatus{
			System: ss.System,
			Status: ss.Status,
		})
	}
	return result
}
