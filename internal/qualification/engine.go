package qualification

import (
	"fmt"
	"strings"
)

// Thresholds are the hard sales-qualification bars. Any single satisfied
// criterion is sufficient for SQL; thresholds are not cumulative.
type Thresholds struct {
	Budget            int // USD per month
	Messages          int // messages per month
	PhoneNumbers      int
	VoicePhoneNumbers int // raised bar for voice/video use cases
	Countries         int
	VoiceCountries    int // raised bar for voice/video use cases
	DataMB            int // MB per month
	SIMCards          int
	VoiceMinutes      int // minutes per month
	Calls             int // calls per month
}

// DefaultThresholds mirrors the sales playbook used by the inbound desk.
var DefaultThresholds = Thresholds{
	Budget:            1000,
	Messages:          10000,
	PhoneNumbers:      10,
	VoicePhoneNumbers: 50,
	Countries:         3,
	VoiceCountries:    5,
	DataMB:            100,
	SIMCards:          10,
	VoiceMinutes:      100000,
	Calls:             100000,
}

// highConfidenceBar is the confidence above which an SQL/DQ stage is
// considered actionable and no follow-up question may be attached.
const highConfidenceBar = 0.80

// intentConfidenceGate is the minimum confidence for an intent label to
// influence transfer recommendations. Applied uniformly.
const intentConfidenceGate = 0.70

// sqlCriterion is a single named sales-qualification check.
type sqlCriterion struct {
	name string
	met  func(s Signals, t Thresholds) bool
}

// sqlCriteria is the full OR-list of SQL checks. Order is cosmetic only
// (reasoning text); any single hit qualifies.
var sqlCriteria = []sqlCriterion{
	{"monthly budget", func(s Signals, t Thresholds) bool {
		return s.MonthlyBudget != nil && *s.MonthlyBudget >= t.Budget
	}},
	{"monthly volume", func(s Signals, t Thresholds) bool {
		return s.MonthlyVolume != nil && *s.MonthlyVolume >= t.Messages
	}},
	{"phone numbers", func(s Signals, t Thresholds) bool {
		bar := t.PhoneNumbers
		if s.voiceUseCase() {
			bar = t.VoicePhoneNumbers
		}
		return s.PhoneNumbers != nil && *s.PhoneNumbers >= bar
	}},
	{"countries", func(s Signals, t Thresholds) bool {
		bar := t.Countries
		if s.voiceUseCase() {
			bar = t.VoiceCountries
		}
		return s.Countries != nil && *s.Countries >= bar
	}},
	{"data volume", func(s Signals, t Thresholds) bool {
		return s.DataMB != nil && *s.DataMB >= t.DataMB
	}},
	{"sim cards", func(s Signals, t Thresholds) bool {
		return s.SIMCards != nil && *s.SIMCards >= t.SIMCards
	}},
	{"voice minutes", func(s Signals, t Thresholds) bool {
		return s.VoiceMinutes != nil && *s.VoiceMinutes >= t.VoiceMinutes
	}},
	{"call volume", func(s Signals, t Thresholds) bool {
		return s.Calls != nil && *s.Calls >= t.Calls
	}},
	{"enterprise growth", func(s Signals, t Thresholds) bool {
		return s.BusinessQuality.CompanyMaturity == MaturityEnterprise && len(s.BusinessQuality.GrowthSignals) >= 2
	}},
}

// disallowedUseCases disqualify regardless of business quality.
var disallowedUseCases = []string{"spam", "phishing", "robocall", "scam", "fraud", "illegal", "harassment"}

// Engine applies deterministic threshold rules to extracted signals.
// All methods are pure and safe for concurrent use.
type Engine struct {
	thresholds Thresholds
}

// NewEngine returns an engine with the default playbook thresholds.
func NewEngine() *Engine {
	return &Engine{thresholds: DefaultThresholds}
}

// NewEngineWithThresholds returns an engine with custom bars, used by tests
// and tenant overrides.
func NewEngineWithThresholds(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// stageRule is one guard/result pair in the ordered stage chain.
type stageRule struct {
	name   string
	applies func(e *Engine, s Signals) bool
	result  func(e *Engine, s Signals) (Stage, float64, string)
}

// stageRules is evaluated top to bottom; the first matching guard wins.
var stageRules = []stageRule{
	{
		name: "sql_threshold",
		applies: func(e *Engine, s Signals) bool {
			return len(e.metCriteria(s)) > 0
		},
		result: func(e *Engine, s Signals) (Stage, float64, string) {
			met := e.metCriteria(s)
			conf := 0.80 + 0.05*float64(len(met)-1)
			if conf > 0.95 {
				conf = 0.95
			}
			return StageSQL, conf, "meets sales qualification threshold: " + strings.Join(met, ", ")
		},
	},
	{
		name: "disqualified",
		applies: func(e *Engine, s Signals) bool {
			return disqualifyingUseCase(s)
		},
		result: func(e *Engine, s Signals) (Stage, float64, string) {
			if reason := disallowedUseCaseIn(s.UseCase); reason != "" {
				return StageDQ, 0.90, "disallowed use case: " + reason
			}
			return StageDQ, 0.85, "personal use only, no discernible business case"
		},
	},
	{
		name: "needs_info",
		applies: func(e *Engine, s Signals) bool {
			return !s.HasNumericData() && promisingBusiness(s)
		},
		result: func(e *Engine, s Signals) (Stage, float64, string) {
			return StageNeedsInfo, 0.55, "no budget or volume data yet, but business quality indicators are promising"
		},
	},
	{
		name: "self_service",
		applies: func(e *Engine, s Signals) bool {
			return s.HasNumericData() || decisionMakerSignals(s)
		},
		result: func(e *Engine, s Signals) (Stage, float64, string) {
			if s.HasNumericData() {
				return StageSSL, 0.70, "legitimate budget or volume signal below sales thresholds"
			}
			return StageSSL, 0.60, "decision authority or enterprise indicators warrant discovery"
		},
	},
	{
		name: "insufficient",
		applies: func(e *Engine, s Signals) bool {
			return true
		},
		result: func(e *Engine, s Signals) (Stage, float64, string) {
			return StageDQ, 0.30, "no business case identified from available signals"
		},
	},
}

// Decide converts extracted signals plus an intent label into a
// qualification decision. It never returns an error: malformed fields are
// sanitized away and an empty bundle degrades to a low-confidence DQ.
func (e *Engine) Decide(signals Signals, intent IntentClassification) Decision {
	s := signals.Sanitize()

	var (
		stage     Stage
		conf      float64
		reasoning string
	)
	for _, rule := range stageRules {
		if rule.applies(e, s) {
			stage, conf, reasoning = rule.result(e, s)
			break
		}
	}

	d := Decision{
		Stage:      stage,
		Confidence: conf,
		Reasoning:  reasoning,
		Intent:     intent,
		Signals:    s,
	}

	// Stage determination comes first; a follow-up is never attached to an
	// already-actionable SQL/DQ outcome.
	if fu := e.followUpFor(stage, conf, s); fu != nil {
		d.FollowUp = fu
	}

	d.RecommendTransfer, d.TransferTarget = transferFor(stage, s.Urgency(), intent)
	d.ResponseGuidance, d.RoutingGuidance = guidanceFor(d, s)

	return d
}

// FallbackDecision is produced when the extraction collaborator failed and no
// signal data exists at all. The conversation still gets a decision and a
// path to a human instead of a raw error.
func (e *Engine) FallbackDecision(intent IntentClassification, cause string) Decision {
	d := Decision{
		Stage:            StageDQ,
		Confidence:       0.05,
		Reasoning:        "signal extraction unavailable: " + cause,
		Intent:           intent,
		ResponseGuidance: "I'm having trouble processing your information right now. Let me connect you with someone from our team who can help.",
		RoutingGuidance:  "Extraction unavailable - route to a human for manual triage",
		Signals:          Signals{DecisionAuthority: AuthorityUnknown, BusinessQuality: BusinessQuality{CompanyMaturity: MaturityUnknown}},
	}
	return d
}

func (e *Engine) metCriteria(s Signals) []string {
	var met []string
	for _, c := range sqlCriteria {
		if c.met(s, e.thresholds) {
			met = append(met, c.name)
		}
	}
	return met
}

func disqualifyingUseCase(s Signals) bool {
	if disallowedUseCaseIn(s.UseCase) != "" {
		return true
	}
	lower := strings.ToLower(s.UseCase)
	personal := strings.Contains(lower, "personal")
	if personal && len(s.CompanyIndicators) == 0 && s.BusinessQuality.QualityScore < 30 {
		return true
	}
	return false
}

func disallowedUseCaseIn(useCase string) string {
	lower := strings.ToLower(useCase)
	for _, banned := range disallowedUseCases {
		if strings.Contains(lower, banned) {
			return banned
		}
	}
	return ""
}

func promisingBusiness(s Signals) bool {
	q := s.BusinessQuality
	if q.QualityScore >= 40 {
		return true
	}
	if strings.TrimSpace(s.UseCase) != "" && (s.DecisionAuthority == AuthorityHigh || s.DecisionAuthority == AuthorityMedium) {
		return true
	}
	return q.QualityScore > 0 && len(q.GrowthSignals) > 0
}

func decisionMakerSignals(s Signals) bool {
	if s.DecisionAuthority == AuthorityHigh || s.DecisionAuthority == AuthorityMedium {
		return true
	}
	if len(s.CompanyIndicators) > 0 {
		return true
	}
	m := s.BusinessQuality.CompanyMaturity
	return m == MaturityEstablished || m == MaturityEnterprise
}

// followUpFor generates a follow-up question when more information would
// materially change the stage. NEEDS_INFO always gets one; SSL gets one when
// both budget and primary volume are still unknown.
func (e *Engine) followUpFor(stage Stage, conf float64, s Signals) *FollowUpQuestion {
	if (stage == StageSQL || stage == StageDQ) && conf >= highConfidenceBar {
		return nil
	}
	switch stage {
	case StageNeedsInfo:
		return buildFollowUp(s)
	case StageSSL:
		if s.MonthlyBudget == nil && s.MonthlyVolume == nil {
			return buildFollowUp(s)
		}
	}
	return nil
}

func buildFollowUp(s Signals) *FollowUpQuestion {
	if s.MonthlyBudget == nil || s.MonthlyVolume == nil {
		return &FollowUpQuestion{
			Question:            "Roughly how much do you expect to spend per month, or how many messages or calls would you send?",
			Reasoning:           "budget and primary volume are the strongest qualification signals and both are missing",
			ExpectedInfo:        "monthly budget or primary volume figure",
			QualificationImpact: ImpactHigh,
		}
	}
	if s.PhoneNumbers == nil || s.Countries == nil || s.SIMCards == nil || s.DataMB == nil || s.VoiceMinutes == nil {
		return &FollowUpQuestion{
			Question:            "How many phone numbers would you need, and across how many countries?",
			Reasoning:           "secondary volume counters would sharpen the qualification",
			ExpectedInfo:        "phone number, country, SIM or data counts",
			QualificationImpact: ImpactMedium,
		}
	}
	return &FollowUpQuestion{
		Question:            "Can you tell me a bit more about what you're building and who will use it?",
		Reasoning:           "use case context would clarify business quality",
		ExpectedInfo:        "use case and business context",
		QualificationImpact: ImpactLow,
	}
}

// transferFor mirrors the routing policy table for the decision's AE/BDR
// domain. Support-intent transfers are the routing policy's job; the decision
// records no transfer in that case.
func transferFor(stage Stage, urgency string, intent IntentClassification) (bool, string) {
	gated := intent.Confidence >= intentConfidenceGate
	switch {
	case gated && intent.PrimaryIntent == IntentSupport:
		return false, ""
	case gated && intent.PrimaryIntent == IntentSales:
		if stage == StageSQL {
			return true, "AE"
		}
		if (stage == StageSSL || stage == StageDQ) && urgency == "high" {
			return true, "BDR"
		}
		return false, ""
	default:
		if stage == StageSQL {
			return true, "AE"
		}
		if urgency == "high" {
			return true, "BDR"
		}
		return false, ""
	}
}

// guidanceFor writes the response and routing guidance. Intent modulates
// tone, not the threshold math: support intent rewrites guidance to put
// issue resolution before any sales framing.
func guidanceFor(d Decision, s Signals) (response, routing string) {
	switch d.Stage {
	case StageSQL:
		response = "This caller meets our sales qualification bar. Confirm their timeline and offer to connect them with an Account Executive."
		routing = "Sales qualified lead - transfer to Account Executive"
	case StageSSL:
		if d.RecommendTransfer && d.TransferTarget == "BDR" {
			response = "This caller is below the sales bar but needs help now. Offer an immediate hand to a Business Development Rep."
			routing = "Urgent self-service lead - transfer to BDR"
		} else {
			response = "This caller is below the sales bar. Point them at the self-service platform and keep discovering; mention that our sales team works with customers spending $1,000+ monthly."
			routing = "Continue discovery conversation - potential for self-service"
		}
	case StageNeedsInfo:
		response = "Promising business but the numbers are missing. Ask the follow-up question before making a call on routing."
		routing = "Gather qualification data before routing"
	default:
		response = "No viable business case identified. Politely point the caller at self-service resources."
		routing = "No transfer - self-service or polite close"
	}

	if d.Intent.PrimaryIntent == IntentSupport && d.Intent.Confidence >= intentConfidenceGate {
		response = fmt.Sprintf("Acknowledge the support issue first and get it resolved before any sales conversation. %s", response)
		routing = "Route to support team - existing customer issue takes priority"
	} else if d.Intent.PrimaryIntent == IntentOther || d.Intent.Confidence < intentConfidenceGate {
		routing = routing + " (intent unclear - continue gentle discovery)"
	}
	return response, routing
}
