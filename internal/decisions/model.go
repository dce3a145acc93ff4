// Package decisions persists every qualification decision for later review
// and pipeline analytics.
package decisions

import (
	"time"

	"github.com/voxline-ai/sales-triage/internal/qualification"
	"github.com/voxline-ai/sales-triage/internal/routing"
)

// Record is one stored qualification decision.
type Record struct {
	ID                string              `json:"id"`
	ConversationID    string              `json:"conversation_id"`
	Stage             qualification.Stage `json:"stage"`
	Score             int                 `json:"score"`
	Confidence        float64             `json:"confidence"`
	IntentLabel       string              `json:"intent_label"`
	IntentConfidence  float64             `json:"intent_confidence"`
	RecommendTransfer bool                `json:"recommend_transfer"`
	TransferTarget    string              `json:"transfer_target,omitempty"`
	RoutingPriority   string              `json:"routing_priority"`
	Urgency           string              `json:"urgency"`
	Reasoning         string              `json:"reasoning"`
	CreatedAt         time.Time           `json:"created_at"`
}

// NewRecord flattens an engine decision and its routing outcome into a row.
func NewRecord(conversationID string, d qualification.Decision, r routing.Decision) Record {
	return Record{
		ConversationID:    conversationID,
		Stage:             d.Stage,
		Score:             d.Score(),
		Confidence:        d.Confidence,
		IntentLabel:       string(d.Intent.PrimaryIntent),
		IntentConfidence:  d.Intent.Confidence,
		RecommendTransfer: r.ShouldTransfer,
		TransferTarget:    string(r.Target),
		RoutingPriority:   string(r.Priority),
		Urgency:           d.Signals.Urgency(),
		Reasoning:         d.Reasoning,
	}
}
