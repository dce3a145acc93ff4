package routing

import (
	"strings"

	"github.com/voxline-ai/sales-triage/internal/qualification"
)

// Target is a transfer queue class. Mapping a class to a concrete destination
// (including a named account owner for AE) is the transfer-execution
// collaborator's job; the policy only emits the class.
type Target string

const (
	TargetAE      Target = "AE"
	TargetBDR     Target = "BDR"
	TargetSupport Target = "SUPPORT"
	TargetBilling Target = "BILLING"
)

// Priority records which policy rule produced a decision. Required for
// observability and test assertions.
type Priority string

const (
	PrioritySupport        Priority = "support"
	PrioritySalesQualified Priority = "sales_qualified"
	PriorityTraditional    Priority = "traditional_qualification"
)

// ConfidenceGate is the minimum intent confidence for the intent label to
// drive routing. Below it the policy falls back to pure qualification logic.
const ConfidenceGate = 0.70

// Request carries everything the policy needs for one routing decision.
type Request struct {
	Stage   qualification.Stage
	Urgency string // "high" or "low"
	Reason  string
	Intent  qualification.IntentClassification
}

// Decision is the policy output.
type Decision struct {
	ShouldTransfer bool     `json:"should_transfer"`
	Target         Target   `json:"transfer_target,omitempty"`
	Reason         string   `json:"transfer_reason"`
	Priority       Priority `json:"routing_priority"`
}

// rule is one guard/result pair in the strict priority chain.
type rule struct {
	name   string
	applies func(Request) bool
	decide  func(Request) Decision
}

// rules is evaluated top to bottom; the first matching rule wins and no
// lower-priority rule is combined with it.
var rules = []rule{
	{
		name: "support_priority",
		applies: func(r Request) bool {
			return r.Intent.PrimaryIntent == qualification.IntentSupport && r.Intent.Confidence >= ConfidenceGate
		},
		decide: decideSupport,
	},
	{
		name: "sales_priority",
		applies: func(r Request) bool {
			return r.Intent.PrimaryIntent == qualification.IntentSales && r.Intent.Confidence >= ConfidenceGate
		},
		decide: decideSales,
	},
	{
		name: "fallback",
		applies: func(r Request) bool {
			return true
		},
		decide: decideFallback,
	},
}

// Route picks a transfer target using the strict priority order: support
// intent first, gated sales intent second, qualification-only fallback last.
// Pure and safe for concurrent use.
func Route(req Request) Decision {
	for _, r := range rules {
		if r.applies(req) {
			return r.decide(req)
		}
	}
	// Unreachable: the fallback rule always applies.
	return decideFallback(req)
}

var billingVocabulary = []string{"billing", "invoice", "payment", "credit card"}

// decideSupport routes confirmed support intent, even when the stage is SQL:
// existing-customer issues are resolved before any sales handoff.
func decideSupport(r Request) Decision {
	reason := strings.ToLower(r.Reason)
	for _, word := range billingVocabulary {
		if strings.Contains(reason, word) {
			return Decision{
				ShouldTransfer: true,
				Target:         TargetBilling,
				Reason:         "Support intent detected - routing to Billing Support for account issues",
				Priority:       PrioritySupport,
			}
		}
	}
	return Decision{
		ShouldTransfer: true,
		Target:         TargetSupport,
		Reason:         "Support intent detected - routing to Customer Support for technical assistance",
		Priority:       PrioritySupport,
	}
}

func decideSales(r Request) Decision {
	if r.Stage == qualification.StageSQL {
		return Decision{
			ShouldTransfer: true,
			Target:         TargetAE,
			Reason:         "Sales intent + SQL qualification - routing to Account Executive",
			Priority:       PrioritySalesQualified,
		}
	}
	if (r.Stage == qualification.StageSSL || r.Stage == qualification.StageDQ) && r.Urgency == "high" {
		return Decision{
			ShouldTransfer: true,
			Target:         TargetBDR,
			Reason:         "Sales intent + high urgency - routing to BDR for immediate assistance",
			Priority:       PriorityTraditional,
		}
	}
	return Decision{
		Reason:   "Sales intent + low urgency - continuing discovery conversation",
		Priority: PriorityTraditional,
	}
}

// decideFallback ignores the intent label entirely.
func decideFallback(r Request) Decision {
	if r.Stage == qualification.StageSQL {
		return Decision{
			ShouldTransfer: true,
			Target:         TargetAE,
			Reason:         "SQL qualification - routing to Account Executive (intent unclear)",
			Priority:       PriorityTraditional,
		}
	}
	if r.Urgency == "high" {
		return Decision{
			ShouldTransfer: true,
			Target:         TargetBDR,
			Reason:         "High urgency situation - routing to BDR (intent unclear)",
			Priority:       PriorityTraditional,
		}
	}
	return Decision{
		Reason:   "Continuing conversation - additional discovery needed",
		Priority: PriorityTraditional,
	}
}
