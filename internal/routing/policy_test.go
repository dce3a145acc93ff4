package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxline-ai/sales-triage/internal/qualification"
)

func intent(label qualification.Intent, conf float64) qualification.IntentClassification {
	return qualification.IntentClassification{PrimaryIntent: label, Confidence: conf}
}

func TestRoutePriorityOrder(t *testing.T) {
	tests := []struct {
		name         string
		req          Request
		wantTransfer bool
		wantTarget   Target
		wantPriority Priority
	}{
		{
			name:         "support beats SQL stage",
			req:          Request{Stage: qualification.StageSQL, Urgency: "low", Reason: "service is down", Intent: intent(qualification.IntentSupport, 0.95)},
			wantTransfer: true,
			wantTarget:   TargetSupport,
			wantPriority: PrioritySupport,
		},
		{
			name:         "support with billing vocabulary",
			req:          Request{Stage: qualification.StageSSL, Urgency: "low", Reason: "my invoice doubled and the credit card failed", Intent: intent(qualification.IntentSupport, 0.80)},
			wantTransfer: true,
			wantTarget:   TargetBilling,
			wantPriority: PrioritySupport,
		},
		{
			name:         "support below gate falls through to fallback",
			req:          Request{Stage: qualification.StageSQL, Urgency: "low", Reason: "billing question", Intent: intent(qualification.IntentSupport, 0.50)},
			wantTransfer: true,
			wantTarget:   TargetAE,
			wantPriority: PriorityTraditional,
		},
		{
			name:         "sales SQL to AE",
			req:          Request{Stage: qualification.StageSQL, Urgency: "low", Reason: "wants a quote", Intent: intent(qualification.IntentSales, 0.90)},
			wantTransfer: true,
			wantTarget:   TargetAE,
			wantPriority: PrioritySalesQualified,
		},
		{
			name:         "sales urgent SSL to BDR",
			req:          Request{Stage: qualification.StageSSL, Urgency: "high", Reason: "launching this week", Intent: intent(qualification.IntentSales, 0.90)},
			wantTransfer: true,
			wantTarget:   TargetBDR,
			wantPriority: PriorityTraditional,
		},
		{
			name:         "sales calm SSL continues discovery",
			req:          Request{Stage: qualification.StageSSL, Urgency: "low", Reason: "exploring options", Intent: intent(qualification.IntentSales, 0.90)},
			wantTransfer: false,
			wantPriority: PriorityTraditional,
		},
		{
			name:         "sales NEEDS_INFO stays in discovery even when urgent",
			req:          Request{Stage: qualification.StageNeedsInfo, Urgency: "high", Reason: "unclear volumes", Intent: intent(qualification.IntentSales, 0.90)},
			wantTransfer: false,
			wantPriority: PriorityTraditional,
		},
		{
			name:         "low-confidence sales falls back to AE on SQL",
			req:          Request{Stage: qualification.StageSQL, Urgency: "low", Reason: "maybe interested", Intent: intent(qualification.IntentSales, 0.50)},
			wantTransfer: true,
			wantTarget:   TargetAE,
			wantPriority: PriorityTraditional,
		},
		{
			name:         "fallback urgent non-SQL to BDR",
			req:          Request{Stage: qualification.StageNeedsInfo, Urgency: "high", Reason: "needs help now", Intent: intent(qualification.IntentOther, 0.30)},
			wantTransfer: true,
			wantTarget:   TargetBDR,
			wantPriority: PriorityTraditional,
		},
		{
			name:         "fallback calm non-SQL continues",
			req:          Request{Stage: qualification.StageDQ, Urgency: "low", Reason: "just browsing", Intent: intent(qualification.IntentOther, 0.30)},
			wantTransfer: false,
			wantPriority: PriorityTraditional,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.req)
			assert.Equal(t, tt.wantTransfer, got.ShouldTransfer)
			assert.Equal(t, tt.wantTarget, got.Target)
			assert.Equal(t, tt.wantPriority, got.Priority)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestRouteSupportNeverYieldsAE(t *testing.T) {
	// Monotonicity: confirmed support intent can only land on SUPPORT or
	// BILLING, regardless of stage or urgency.
	stages := []qualification.Stage{qualification.StageSQL, qualification.StageSSL, qualification.StageDQ, qualification.StageNeedsInfo}
	for _, stage := range stages {
		for _, urgency := range []string{"high", "low"} {
			got := Route(Request{Stage: stage, Urgency: urgency, Reason: "account problem", Intent: intent(qualification.IntentSupport, 0.95)})
			assert.True(t, got.ShouldTransfer)
			assert.Contains(t, []Target{TargetSupport, TargetBilling}, got.Target)
			assert.Equal(t, PrioritySupport, got.Priority)
		}
	}
}

func TestLookup(t *testing.T) {
	info, ok := Lookup(TargetBilling)
	assert.True(t, ok)
	assert.Equal(t, "Billing Support", info.Name)

	_, ok = Lookup(Target("NOPE"))
	assert.False(t, ok)
}
