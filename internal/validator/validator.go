package validator

import (
	"fmt"

	"github.com/voxline-ai/sales-triage/pkg/logging"
)

// Violation is one capability-boundary breach found in a candidate response.
type Violation struct {
	Category  Category `json:"category"`
	PatternID string   `json:"pattern_id"`
	Severity  Severity `json:"severity"`
}

// Result is the verdict for a single candidate utterance. Results are
// computed fresh per candidate and never cached: the same sentence can be
// valid for a qualified contract customer and invalid for anyone else.
type Result struct {
	Approved         bool        `json:"approved"`
	Violations       []Violation `json:"violations,omitempty"`
	SafeResponse     string      `json:"safe_response,omitempty"`
	OriginalResponse string      `json:"original_response"`
	// FallbackUsed marks a fail-open verdict after an internal evaluation
	// failure. The response was not actually validated.
	FallbackUsed bool `json:"fallback_used,omitempty"`
}

const (
	auditResponseSnippet = 200
	auditContextSnippet  = 100
)

// Validator scans candidate outbound utterances against the capability
// boundary rule table. Safe for concurrent use.
type Validator struct {
	rules  []categoryRules
	logger *logging.Logger
}

// New returns a validator over the built-in rule table.
func New(logger *logging.Logger) *Validator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Validator{rules: ruleTable, logger: logger}
}

// Validate checks a candidate response against every category, applies the
// contract-context exception, and substitutes the safe alternative of the
// most severe remaining violation. A rejected candidate must never be
// delivered; its replacement is always in SafeResponse.
func (v *Validator) Validate(candidate, conversationContext string) (result Result) {
	// Fail open on any defect in pattern evaluation: an unvalidated but
	// plausible response beats a blocked conversation with no fallback text.
	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("response validation failed internally, failing open",
				"panic", fmt.Sprint(r),
			)
			result = Result{
				Approved:         true,
				OriginalResponse: candidate,
				FallbackUsed:     true,
			}
		}
	}()

	violations := v.scan(candidate)

	if len(violations) > 0 && hasContractContext(candidate, conversationContext) {
		violations = dropExcusedPricing(violations)
	}

	if len(violations) == 0 {
		return Result{Approved: true, OriginalResponse: candidate}
	}

	primary := mostSevere(violations)
	safe := v.safeResponseFor(primary.Category)

	v.auditRejection(violations, candidate, conversationContext)

	return Result{
		Approved:         false,
		Violations:       violations,
		SafeResponse:     safe,
		OriginalResponse: candidate,
	}
}

// scan records at most one violation per category: the first pattern that
// matches, in the category's declared pattern order.
func (v *Validator) scan(candidate string) []Violation {
	var violations []Violation
	for _, cat := range v.rules {
		for _, p := range cat.patterns {
			if !p.re.MatchString(candidate) {
				continue
			}
			if p.unless != nil && p.unless.MatchString(candidate) {
				continue
			}
			violations = append(violations, Violation{
				Category:  cat.category,
				PatternID: p.id,
				Severity:  cat.severity,
			})
			break
		}
	}
	return violations
}

// hasContractContext reports whether the combined response and conversation
// context carry contract-qualification phrases.
func hasContractContext(candidate, conversationContext string) bool {
	combined := candidate + " " + conversationContext
	for _, re := range contractContextPatterns {
		if re.MatchString(combined) {
			return true
		}
	}
	return false
}

// dropExcusedPricing removes pricing violations triggered by discount-offer
// patterns. Everything else stays.
func dropExcusedPricing(violations []Violation) []Violation {
	kept := violations[:0]
	for _, viol := range violations {
		if viol.Category == CategoryPricing && discountPatternIDs[viol.PatternID] {
			continue
		}
		kept = append(kept, viol)
	}
	return kept
}

// mostSevere picks the violation to answer with. Ties are broken by the rule
// table's category declaration order, which scan already preserves.
func mostSevere(violations []Violation) Violation {
	best := violations[0]
	for _, viol := range violations[1:] {
		if severityRank(viol.Severity) > severityRank(best.Severity) {
			best = viol
		}
	}
	return best
}

func (v *Validator) safeResponseFor(c Category) string {
	for _, cat := range v.rules {
		if cat.category == c {
			return cat.safeResponse
		}
	}
	// Unknown category can only mean a rule-table defect; the commitment
	// fallback is the most conservative text.
	return v.rules[0].safeResponse
}

// auditRejection logs every blocked candidate with truncated snippets, kept
// separate from the verdict returned to the caller.
func (v *Validator) auditRejection(violations []Violation, candidate, conversationContext string) {
	v.logger.Warn("response blocked by capability validator",
		"violation_count", len(violations),
		"primary_category", string(mostSevere(violations).Category),
		"blocked_snippet", truncateHead(candidate, auditResponseSnippet),
		"context_snippet", truncateTail(conversationContext, auditContextSnippet),
	)
}

func truncateHead(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncateTail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
