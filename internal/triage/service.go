// Package triage orchestrates one conversation turn: analyze the transcript,
// decide the qualification stage, pick a routing target and persist the
// outcome.
package triage

import (
	"context"
	"errors"
	"time"

	"github.com/voxline-ai/sales-triage/internal/decisions"
	"github.com/voxline-ai/sales-triage/internal/events"
	"github.com/voxline-ai/sales-triage/internal/extraction"
	"github.com/voxline-ai/sales-triage/internal/observability/metrics"
	"github.com/voxline-ai/sales-triage/internal/qualification"
	"github.com/voxline-ai/sales-triage/internal/routing"
	"github.com/voxline-ai/sales-triage/internal/triage/session"
	"github.com/voxline-ai/sales-triage/pkg/logging"
)

// ErrMissingConversationID is returned when a request has no conversation id.
var ErrMissingConversationID = errors.New("triage: conversation id is required")

// IntentStore is the slice of the session store the service needs.
type IntentStore interface {
	Get(ctx context.Context, conversationID string) (qualification.Intent, error)
	Set(ctx context.Context, conversationID string, intent qualification.Intent) error
}

// DecideRequest is one conversation turn to triage.
type DecideRequest struct {
	ConversationID      string                `json:"conversation_id"`
	ConversationContext string                `json:"conversation_context"`
	Caller              extraction.CallerInfo `json:"caller_info"`
}

// DecideResponse bundles the stage decision with its routing outcome.
type DecideResponse struct {
	ConversationID string                 `json:"conversation_id"`
	Decision       qualification.Decision `json:"decision"`
	Score          int                    `json:"qualification_score"`
	Routing        routing.Decision       `json:"routing"`
}

// Service runs the triage pipeline. Extraction failures degrade to a
// conservative decision instead of failing the turn; storage and publishing
// failures are logged and never block the caller.
type Service struct {
	extractor extraction.Extractor
	engine    *qualification.Engine
	sessions  IntentStore
	repo      decisions.Repository
	publisher events.Publisher
	metrics   *metrics.TriageMetrics
	logger    *logging.Logger
}

// NewService wires the pipeline. sessions, repo, publisher and metrics may be
// nil; the service skips the corresponding step.
func NewService(
	extractor extraction.Extractor,
	engine *qualification.Engine,
	sessions IntentStore,
	repo decisions.Repository,
	publisher events.Publisher,
	m *metrics.TriageMetrics,
	logger *logging.Logger,
) *Service {
	if extractor == nil {
		panic("triage: extractor is required")
	}
	if engine == nil {
		engine = qualification.NewEngine()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		extractor: extractor,
		engine:    engine,
		sessions:  sessions,
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Decide triages one conversation turn.
func (s *Service) Decide(ctx context.Context, req DecideRequest) (DecideResponse, error) {
	if req.ConversationID == "" {
		return DecideResponse{}, ErrMissingConversationID
	}

	previous := s.previousIntent(ctx, req.ConversationID)

	start := time.Now()
	bundle, err := s.extractor.Extract(ctx, req.ConversationContext, req.Caller, previous)
	if err != nil {
		// Extraction only errors on context cancellation.
		s.metrics.ObserveExtractionLatency("cancelled", time.Since(start).Seconds())
		return DecideResponse{}, err
	}

	outcome := "ok"
	var decision qualification.Decision
	if bundle.Degraded {
		// Signals were unavailable; issue the conservative fallback so a
		// human picks the conversation up.
		outcome = "degraded"
		decision = s.engine.FallbackDecision(bundle.Intent, "analysis unavailable")
	} else {
		decision = s.engine.Decide(bundle.Signals, bundle.Intent)
	}
	s.metrics.ObserveExtractionLatency(outcome, time.Since(start).Seconds())

	route := routing.Route(routing.Request{
		Stage:   decision.Stage,
		Urgency: decision.Signals.Urgency(),
		Reason:  decision.Reasoning,
		Intent:  decision.Intent,
	})

	s.metrics.ObserveDecision(string(decision.Stage), string(decision.Intent.PrimaryIntent))
	s.metrics.ObserveRouting(string(route.Priority), string(route.Target))

	s.remember(ctx, req.ConversationID, decision.Intent.PrimaryIntent)
	rec := s.persist(ctx, req.ConversationID, decision, route)
	s.publish(ctx, rec)

	return DecideResponse{
		ConversationID: req.ConversationID,
		Decision:       decision,
		Score:          decision.Score(),
		Routing:        route,
	}, nil
}

func (s *Service) previousIntent(ctx context.Context, conversationID string) qualification.Intent {
	if s.sessions == nil {
		return ""
	}
	intent, err := s.sessions.Get(ctx, conversationID)
	if errors.Is(err, session.ErrNotFound) {
		return ""
	}
	if err != nil {
		s.logger.Warn("previous intent lookup failed", "conversation_id", conversationID, "error", err)
		return ""
	}
	return intent
}

func (s *Service) remember(ctx context.Context, conversationID string, intent qualification.Intent) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Set(ctx, conversationID, intent); err != nil {
		s.logger.Warn("intent session write failed", "conversation_id", conversationID, "error", err)
	}
}

func (s *Service) persist(ctx context.Context, conversationID string, d qualification.Decision, r routing.Decision) decisions.Record {
	rec := decisions.NewRecord(conversationID, d, r)
	if s.repo == nil {
		return rec
	}
	stored, err := s.repo.Log(ctx, rec)
	if err != nil {
		s.logger.Error("decision log write failed", "conversation_id", conversationID, "error", err)
		return rec
	}
	return stored
}

func (s *Service) publish(ctx context.Context, rec decisions.Record) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishDecision(ctx, events.NewDecisionEvent(rec)); err != nil {
		s.logger.Error("decision event publish failed", "conversation_id", rec.ConversationID, "error", err)
	}
}

// History returns the stored decisions for a conversation.
func (s *Service) History(ctx context.Context, conversationID string) ([]decisions.Record, error) {
	if conversationID == "" {
		return nil, ErrMissingConversationID
	}
	if s.repo == nil {
		return nil, decisions.ErrRecordNotFound
	}
	return s.repo.ListByConversation(ctx, conversationID)
}
