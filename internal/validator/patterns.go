package validator

import "regexp"

// Category tags a capability-boundary violation. The set is closed.
type Category string

const (
	CategoryCommitment  Category = "commitment"
	CategoryPricing     Category = "pricing"
	CategoryTechnical   Category = "technical"
	CategoryInformation Category = "information"
)

// Severity orders violations for safe-response selection.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// detectionPattern is one detection regex. Go's regexp has no lookaheads, so
// exceptions the source rules expressed inline (e.g. "discount for contract
// customers is fine") live in the separate unless regex: when unless matches
// the candidate text, the pattern does not fire.
type detectionPattern struct {
	id     string
	re     *regexp.Regexp
	unless *regexp.Regexp
}

// categoryRules holds one category's ordered detection patterns, its fixed
// severity, and its safe alternative. Declaration order in ruleTable is the
// tie-break order for equally severe violations.
type categoryRules struct {
	category     Category
	severity     Severity
	patterns     []detectionPattern
	safeResponse string
}

// ruleTable was built from real transferred-call transcripts: each pattern is
// a promise the assistant is not authorized to make.
var ruleTable = []categoryRules{
	{
		category: CategoryCommitment,
		severity: SeverityHigh,
		patterns: []detectionPattern{
			{id: "email_commitment", re: regexp.MustCompile(`(?i)\b(?:i'll|i will)\s+(?:email|send|forward)\s+you`)},
			{id: "followup_commitment", re: regexp.MustCompile(`(?i)\bi'll\s+(?:get back to you|follow up|reach out)`)},
			{id: "callback_promise", re: regexp.MustCompile(`(?i)\b(?:i'll|someone will)\s+call\s+you\s+back`)},
			{id: "callback_delegate", re: regexp.MustCompile(`(?i)\bi'll\s+have\s+someone\s+(?:call|contact)\s+you`)},
			{id: "demo_scheduling", re: regexp.MustCompile(`(?i)\b(?:i'll|i can|let me)\s+schedule\s+(?:a|your|the)\s+(?:demo|meeting|call)`)},
			{id: "booking_offer", re: regexp.MustCompile(`(?i)\blet me\s+book\s+(?:you|a|your)\s+(?:demo|meeting|appointment)`)},
			{id: "check_on_that", re: regexp.MustCompile(`(?i)\bi'll\s+(?:check on|follow up on|look into)\s+that`)},
			{id: "make_sure", re: regexp.MustCompile(`(?i)\bi'll\s+make sure\s+(?:you|that|this)`)},
			{
				id:     "crm_access",
				re:     regexp.MustCompile(`(?i)\bi'll\s+(?:update|check)\s+your\s+(?:crm|account)`),
				unless: regexp.MustCompile(`(?i)\bi'll\s+(?:update|check)\s+your\s+(?:crm|account)\s+with\s+us`),
			},
			{
				id:     "external_system_access",
				re:     regexp.MustCompile(`(?i)\blet me\s+access\s+your\s+\S+`),
				unless: regexp.MustCompile(`(?i)\blet me\s+access\s+your\s+(?:sales|account)\s+portal`),
			},
		},
		safeResponse: "I can't handle that directly, but I can transfer you to someone from our team who can help with that request right away.",
	},
	{
		category: CategoryPricing,
		severity: SeverityHigh,
		patterns: []detectionPattern{
			{id: "unauthorized_quote", re: regexp.MustCompile(`(?i)\byour\s+(?:price|cost|rate)\s+(?:would|will)\s+be\s+\$\d+`)},
			{
				id:     "discount_offer",
				re:     regexp.MustCompile(`(?i)\bi\s+can\s+give\s+you\s+\d+%\s+discount`),
				unless: regexp.MustCompile(`(?i)discount\s+(?:if|for\s+contract)`),
			},
			{id: "contract_terms", re: regexp.MustCompile(`(?i)\bi\s+can\s+offer\s+you\s+a\s+\d+-?year\s+deal`)},
			{
				id:     "fee_waiver",
				re:     regexp.MustCompile(`(?i)\bno\s+setup\s+fees?\s+for\s+you`),
				unless: regexp.MustCompile(`(?i)\bno\s+setup\s+fees?\s+for\s+you\s+with\s+contract`),
			},
			{id: "billing_adjustment", re: regexp.MustCompile(`(?i)\bi'll\s+(?:adjust|update|modify)\s+your\s+billing`)},
			{id: "refund_promise", re: regexp.MustCompile(`(?i)\bi\s+can\s+(?:process|handle)\s+a\s+refund`)},
		},
		safeResponse: "For product or pricing questions I'd recommend checking our pricing page - it won't be any different from what you see online. The platform is built for self-service customers, so you can find all pricing and feature information there.",
	},
	{
		category: CategoryTechnical,
		severity: SeverityMedium,
		patterns: []detectionPattern{
			{id: "feature_promise", re: regexp.MustCompile(`(?i)\b(?:we're|i'm)\s+(?:adding|building)\s+that\s+feature`)},
			{id: "availability_promise", re: regexp.MustCompile(`(?i)\bthat\s+(?:will|should)\s+be\s+available\s+(?:soon|next)`)},
			{id: "implementation_commitment", re: regexp.MustCompile(`(?i)\bi'll\s+(?:set up|configure|implement)\b`)},
			{id: "get_configured", re: regexp.MustCompile(`(?i)\b(?:i'll|let me)\s+get\s+that\s+(?:configured|set up)`)},
			{id: "fix_promise", re: regexp.MustCompile(`(?i)\bi'll\s+(?:fix|resolve|troubleshoot)\s+(?:that|your)`)},
			{id: "hands_on_help", re: regexp.MustCompile(`(?i)\bi\s+can\s+help\s+you\s+(?:configure|set up|implement)`)},
		},
		safeResponse: "For technical implementation support, I'd recommend reaching out to our support team who can assist with that. As a sales assistant, I'm not able to help with support-related questions.",
	},
	{
		category: CategoryInformation,
		severity: SeverityMedium,
		patterns: []detectionPattern{
			{id: "document_delivery", re: regexp.MustCompile(`(?i)\bi'll\s+(?:send|share|forward)\s+you\s+(?:documentation|whitepaper)`)},
			{id: "send_that", re: regexp.MustCompile(`(?i)\blet me\s+send\s+you\s+(?:that|the)`)},
			{id: "data_analysis", re: regexp.MustCompile(`(?i)\bi'll\s+(?:pull|analyze|review)\s+your\s+(?:reports|data|usage)`)},
			{id: "account_check", re: regexp.MustCompile(`(?i)\bi\s+can\s+check\s+your\s+(?:account\s+history|call\s+logs)`)},
		},
		safeResponse: "I can transfer you to someone who can provide you with the specific information and documentation you need.",
	},
}

// contractContextPatterns mark a conversation as a qualified contract
// discussion, which excuses discount-offer pricing violations.
var contractContextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$?1,?000\s*\+?\s*(?:/|per\s+)month`),
	regexp.MustCompile(`(?i)contract\s+customer`),
	regexp.MustCompile(`(?i)high-?volume`),
	regexp.MustCompile(`(?i)enterprise\s+customer`),
	regexp.MustCompile(`(?i)spending\s+over\s+.{0,20}\$?1,?000`),
}

// discountPatternIDs are the pricing patterns the contract-context exception
// applies to. All other violations stand regardless of context.
var discountPatternIDs = map[string]bool{
	"discount_offer": true,
}
