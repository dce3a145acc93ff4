package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline-ai/sales-triage/internal/decisions"
	"github.com/voxline-ai/sales-triage/internal/events"
	"github.com/voxline-ai/sales-triage/internal/extraction"
	"github.com/voxline-ai/sales-triage/internal/qualification"
	"github.com/voxline-ai/sales-triage/internal/routing"
	"github.com/voxline-ai/sales-triage/internal/triage/session"
)

type stubExtractor struct {
	bundle   extraction.Bundle
	err      error
	previous qualification.Intent
}

func (s *stubExtractor) Extract(_ context.Context, _ string, _ extraction.CallerInfo, previous qualification.Intent) (extraction.Bundle, error) {
	s.previous = previous
	return s.bundle, s.err
}

type memoryIntentStore struct {
	intents map[string]qualification.Intent
}

func newMemoryIntentStore() *memoryIntentStore {
	return &memoryIntentStore{intents: make(map[string]qualification.Intent)}
}

func (m *memoryIntentStore) Get(_ context.Context, conversationID string) (qualification.Intent, error) {
	intent, ok := m.intents[conversationID]
	if !ok {
		return "", session.ErrNotFound
	}
	return intent, nil
}

func (m *memoryIntentStore) Set(_ context.Context, conversationID string, intent qualification.Intent) error {
	m.intents[conversationID] = intent
	return nil
}

type capturePublisher struct {
	published []events.DecisionEvent
}

func (p *capturePublisher) PublishDecision(_ context.Context, event events.DecisionEvent) error {
	p.published = append(p.published, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func intPtr(v int) *int { return &v }

func salesBundle() extraction.Bundle {
	return extraction.Bundle{
		Signals: qualification.Signals{
			MonthlyBudget: intPtr(2500),
			UseCase:       "customer notifications",
		},
		Intent: qualification.IntentClassification{
			PrimaryIntent: qualification.IntentSales,
			Confidence:    0.9,
		},
	}
}

func TestServiceDecide(t *testing.T) {
	extractor := &stubExtractor{bundle: salesBundle()}
	sessions := newMemoryIntentStore()
	repo := decisions.NewInMemoryRepository()
	publisher := &capturePublisher{}

	svc := NewService(extractor, qualification.NewEngine(), sessions, repo, publisher, nil, nil)

	resp, err := svc.Decide(context.Background(), DecideRequest{
		ConversationID:      "conv-1",
		ConversationContext: "caller: we spend about 2500 a month on notifications",
	})
	require.NoError(t, err)

	assert.Equal(t, qualification.StageSQL, resp.Decision.Stage)
	assert.Equal(t, 85, resp.Score)
	assert.True(t, resp.Routing.ShouldTransfer)
	assert.Equal(t, routing.TargetAE, resp.Routing.Target)
	assert.Equal(t, routing.PrioritySalesQualified, resp.Routing.Priority)

	// The decision is persisted and published.
	recs, err := repo.ListByConversation(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, qualification.StageSQL, recs[0].Stage)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "conv-1", publisher.published[0].ConversationID)
	assert.Equal(t, "SQL", publisher.published[0].Stage)

	// The turn's intent is remembered for the next turn.
	stored, err := sessions.Get(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, qualification.IntentSales, stored)
}

func TestServiceDecidePassesPreviousIntent(t *testing.T) {
	extractor := &stubExtractor{bundle: salesBundle()}
	sessions := newMemoryIntentStore()
	require.NoError(t, sessions.Set(context.Background(), "conv-1", qualification.IntentSupport))

	svc := NewService(extractor, nil, sessions, nil, nil, nil, nil)

	_, err := svc.Decide(context.Background(), DecideRequest{ConversationID: "conv-1", ConversationContext: "hello"})
	require.NoError(t, err)
	assert.Equal(t, qualification.IntentSupport, extractor.previous)
}

func TestServiceDecideDegradedAnalysis(t *testing.T) {
	extractor := &stubExtractor{bundle: extraction.Bundle{
		Intent:   qualification.IntentClassification{PrimaryIntent: qualification.IntentOther},
		Degraded: true,
	}}

	svc := NewService(extractor, nil, nil, nil, nil, nil, nil)

	resp, err := svc.Decide(context.Background(), DecideRequest{ConversationID: "conv-1", ConversationContext: "..."})
	require.NoError(t, err)

	assert.Equal(t, qualification.StageDQ, resp.Decision.Stage)
	assert.Less(t, resp.Decision.Confidence, 0.1)
	assert.False(t, resp.Routing.ShouldTransfer)
	assert.Contains(t, resp.Decision.ResponseGuidance, "connect you with someone")
}

func TestServiceDecideRequiresConversationID(t *testing.T) {
	svc := NewService(&stubExtractor{bundle: salesBundle()}, nil, nil, nil, nil, nil, nil)

	_, err := svc.Decide(context.Background(), DecideRequest{ConversationContext: "hello"})
	assert.ErrorIs(t, err, ErrMissingConversationID)
}

func TestServiceDecideCancelledContext(t *testing.T) {
	extractor := &stubExtractor{err: context.Canceled}
	svc := NewService(extractor, nil, nil, nil, nil, nil, nil)

	_, err := svc.Decide(context.Background(), DecideRequest{ConversationID: "conv-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServiceHistory(t *testing.T) {
	repo := decisions.NewInMemoryRepository()
	svc := NewService(&stubExtractor{bundle: salesBundle()}, nil, nil, repo, nil, nil, nil)

	_, err := svc.History(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingConversationID)

	_, err = svc.History(context.Background(), "conv-unknown")
	assert.ErrorIs(t, err, decisions.ErrRecordNotFound)

	_, err = svc.Decide(context.Background(), DecideRequest{ConversationID: "conv-1", ConversationContext: "hi"})
	require.NoError(t, err)

	recs, err := svc.History(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
