package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/voxline-ai/sales-triage/internal/qualification"
	"github.com/voxline-ai/sales-triage/pkg/logging"
)

// CallerInfo carries caller metadata known before any conversation analysis,
// typically from caller ID lookup or a prior session.
type CallerInfo struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Bundle is the combined output of one extraction pass over a conversation.
// Degraded marks a bundle whose signals could not be extracted; the engine
// treats it as empty signals and issues its conservative fallback decision.
type Bundle struct {
	Signals  qualification.Signals              `json:"extracted_data"`
	Intent   qualification.IntentClassification `json:"intent_classification"`
	Degraded bool                               `json:"-"`
}

// Extractor turns raw conversation text into qualification signals and an
// intent classification. Implementations must degrade rather than fail:
// when analysis is impossible the returned Bundle carries empty signals and
// a zero-confidence intent, and the error is non-nil only when the caller's
// context was cancelled.
type Extractor interface {
	Extract(ctx context.Context, conversationContext string, caller CallerInfo, previousIntent qualification.Intent) (Bundle, error)
}

const (
	defaultExtractionTimeout = 8 * time.Second
	extractionMaxTokens      = 1500
	extractionTemperature    = 0.1
)

// LLMExtractor analyzes conversations with two model calls, one for
// qualification signals and one for intent classification. Each call gets its
// own timeout and a single retry.
type LLMExtractor struct {
	client  LLMClient
	model   string
	timeout time.Duration
	logger  *logging.Logger
}

// NewLLMExtractor creates an extractor backed by the given model client.
func NewLLMExtractor(client LLMClient, model string, timeout time.Duration, logger *logging.Logger) *LLMExtractor {
	if client == nil {
		panic("extraction: LLMClient is required")
	}
	if timeout <= 0 {
		timeout = defaultExtractionTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMExtractor{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Extract runs both analysis calls. Signal extraction and intent
// classification fail independently: a bad signals response still leaves a
// usable intent and vice versa.
func (e *LLMExtractor) Extract(ctx context.Context, conversationContext string, caller CallerInfo, previousIntent qualification.Intent) (Bundle, error) {
	bundle := Bundle{
		Signals: qualification.Signals{},
		Intent: qualification.IntentClassification{
			PrimaryIntent: qualification.IntentOther,
			Confidence:    0,
		},
	}

	signals, err := e.extractSignals(ctx, conversationContext, caller)
	if err != nil {
		if ctx.Err() != nil {
			return bundle, ctx.Err()
		}
		e.logger.Warn("signal extraction degraded to empty signals", "error", err)
		bundle.Degraded = true
	} else {
		bundle.Signals = signals
	}

	intent, err := e.classifyIntent(ctx, conversationContext, caller, previousIntent)
	if err != nil {
		if ctx.Err() != nil {
			return bundle, ctx.Err()
		}
		e.logger.Warn("intent classification degraded to other", "error", err)
	} else {
		bundle.Intent = intent
	}

	return bundle, nil
}

func (e *LLMExtractor) extractSignals(ctx context.Context, conversationContext string, caller CallerInfo) (qualification.Signals, error) {
	raw, err := e.complete(ctx, signalsSystemPrompt, signalsUserPrompt(conversationContext, caller))
	if err != nil {
		return qualification.Signals{}, err
	}

	var signals qualification.Signals
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &signals); err != nil {
		return qualification.Signals{}, errors.New("extraction: signals response is not valid JSON")
	}
	return signals.Sanitize(), nil
}

func (e *LLMExtractor) classifyIntent(ctx context.Context, conversationContext string, caller CallerInfo, previousIntent qualification.Intent) (qualification.IntentClassification, error) {
	raw, err := e.complete(ctx, intentSystemPrompt, intentUserPrompt(conversationContext, caller, string(previousIntent)))
	if err != nil {
		return qualification.IntentClassification{}, err
	}

	var intent qualification.IntentClassification
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &intent); err != nil {
		return qualification.IntentClassification{}, errors.New("extraction: intent response is not valid JSON")
	}

	switch intent.PrimaryIntent {
	case qualification.IntentSales, qualification.IntentSupport, qualification.IntentOther:
	default:
		intent.PrimaryIntent = qualification.IntentOther
	}
	if intent.Confidence < 0 {
		intent.Confidence = 0
	}
	if intent.Confidence > 1 {
		intent.Confidence = 1
	}
	// The shift flag is only meaningful once a prior classification exists.
	if previousIntent == "" {
		intent.ContextShift = false
	} else if previousIntent != intent.PrimaryIntent {
		intent.ContextShift = true
	}
	return intent, nil
}

// complete issues one model call with a per-call timeout and retries once on
// transient failure.
func (e *LLMExtractor) complete(ctx context.Context, system, user string) (string, error) {
	req := Request{
		Model:       e.model,
		System:      []string{system},
		Messages:    []Message{{Role: RoleUser, Content: user}},
		MaxTokens:   extractionMaxTokens,
		Temperature: extractionTemperature,
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		resp, err := e.client.Complete(callCtx, req)
		cancel()
		if err == nil {
			if strings.TrimSpace(resp.Text) == "" {
				lastErr = errors.New("extraction: model returned empty response")
				continue
			}
			return resp.Text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

// stripCodeFences unwraps a markdown-fenced JSON body when the model ignores
// the plain-JSON instruction.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
