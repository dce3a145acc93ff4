package qualification

import "strings"

// Stage is the qualification outcome for a conversation turn.
type Stage string

const (
	// StageSQL marks a sales-qualified lead meeting at least one hard threshold.
	StageSQL Stage = "SQL"
	// StageSSL marks a self-service lead below thresholds but plausible.
	StageSSL Stage = "SSL"
	// StageDQ marks a disqualified lead with no viable business case.
	StageDQ Stage = "DQ"
	// StageNeedsInfo means the data is insufficient and a follow-up is required.
	StageNeedsInfo Stage = "NEEDS_INFO"
)

// Intent is the caller's primary purpose for the current turn.
type Intent string

const (
	IntentSales   Intent = "sales"
	IntentSupport Intent = "support"
	IntentOther   Intent = "other"
)

// Authority describes the contact's decision-making capability.
type Authority string

const (
	AuthorityHigh    Authority = "high"
	AuthorityMedium  Authority = "medium"
	AuthorityLow     Authority = "low"
	AuthorityUnknown Authority = "unknown"
)

// Maturity buckets company maturity as assessed upstream.
type Maturity string

const (
	MaturityStartup     Maturity = "startup"
	MaturityGrowthStage Maturity = "growth_stage"
	MaturityEstablished Maturity = "established"
	MaturityEnterprise  Maturity = "enterprise"
	MaturityUnknown     Maturity = "unknown"
)

// Impact ranks how much a piece of missing information would change the
// qualification outcome.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// BusinessQuality is the upstream assessment of business quality and potential.
type BusinessQuality struct {
	QualityScore      int      `json:"quality_score"`
	QualityIndicators []string `json:"quality_indicators,omitempty"`
	GrowthSignals     []string `json:"growth_signals,omitempty"`
	RiskFactors       []string `json:"risk_factors,omitempty"`
	CompanyMaturity   Maturity `json:"company_maturity"`
}

// Signals is the structured qualification bundle extracted from a conversation.
// All numeric fields are monthly-normalized upstream (annual figures divided by
// twelve, highest bound of a range). Every field is optional; the engine never
// rejects a bundle for being partial.
type Signals struct {
	MonthlyBudget   *int   `json:"monthly_budget,omitempty"`
	BudgetContext   string `json:"budget_context,omitempty"`
	MonthlyVolume   *int   `json:"monthly_volume,omitempty"`
	VolumeType      string `json:"volume_type,omitempty"`
	PhoneNumbers    *int   `json:"phone_numbers,omitempty"`
	Countries       *int   `json:"countries,omitempty"`
	SIMCards        *int   `json:"sim_cards,omitempty"`
	DataMB          *int   `json:"data_mb,omitempty"`
	VoiceMinutes    *int   `json:"voice_minutes,omitempty"`
	Calls           *int   `json:"calls,omitempty"`
	UseCase         string `json:"use_case,omitempty"`
	CurrentProvider string `json:"current_provider,omitempty"`

	UrgencySignals []string `json:"urgency_signals,omitempty"`

	ContactTitle      string    `json:"contact_title,omitempty"`
	DecisionAuthority Authority `json:"decision_authority"`
	CompanyIndicators []string  `json:"company_indicators,omitempty"`

	BusinessQuality BusinessQuality `json:"business_quality"`
}

// Sanitize returns a copy with malformed fields dropped. Negative counts are
// treated as absent rather than rejecting the whole bundle, and enum fields
// default to unknown. Never errors.
func (s Signals) Sanitize() Signals {
	out := s
	out.MonthlyBudget = dropNegative(s.MonthlyBudget)
	out.MonthlyVolume = dropNegative(s.MonthlyVolume)
	out.PhoneNumbers = dropNegative(s.PhoneNumbers)
	out.Countries = dropNegative(s.Countries)
	out.SIMCards = dropNegative(s.SIMCards)
	out.DataMB = dropNegative(s.DataMB)
	out.VoiceMinutes = dropNegative(s.VoiceMinutes)
	out.Calls = dropNegative(s.Calls)
	switch s.DecisionAuthority {
	case AuthorityHigh, AuthorityMedium, AuthorityLow:
	default:
		out.DecisionAuthority = AuthorityUnknown
	}
	switch s.BusinessQuality.CompanyMaturity {
	case MaturityStartup, MaturityGrowthStage, MaturityEstablished, MaturityEnterprise:
	default:
		out.BusinessQuality.CompanyMaturity = MaturityUnknown
	}
	if s.BusinessQuality.QualityScore < 0 {
		out.BusinessQuality.QualityScore = 0
	} else if s.BusinessQuality.QualityScore > 100 {
		out.BusinessQuality.QualityScore = 100
	}
	return out
}

func dropNegative(v *int) *int {
	if v != nil && *v < 0 {
		return nil
	}
	return v
}

// HasNumericData reports whether any budget or volume figure is present.
func (s Signals) HasNumericData() bool {
	for _, v := range []*int{s.MonthlyBudget, s.MonthlyVolume, s.PhoneNumbers, s.Countries, s.SIMCards, s.DataMB, s.VoiceMinutes, s.Calls} {
		if v != nil {
			return true
		}
	}
	return false
}

// Urgency collapses the urgency phrase list to the high/low level the routing
// policy consumes.
func (s Signals) Urgency() string {
	for _, sig := range s.UrgencySignals {
		lower := strings.ToLower(sig)
		if strings.Contains(lower, "urgent") || strings.Contains(lower, "asap") || strings.Contains(lower, "immediately") || strings.Contains(lower, "right away") || strings.Contains(lower, "today") {
			return "high"
		}
	}
	return "low"
}

// voiceUseCase reports whether the use case is voice or video, which raises
// the phone-number and country thresholds.
func (s Signals) voiceUseCase() bool {
	lower := strings.ToLower(s.UseCase + " " + s.VolumeType)
	return strings.Contains(lower, "voice") || strings.Contains(lower, "video") || strings.Contains(lower, "call")
}

// IntentClassification is the upstream intent label for the current turn.
// Recomputed every turn from the full conversation context plus the previous
// turn's label; immutable once attached to a decision.
type IntentClassification struct {
	PrimaryIntent      Intent   `json:"primary_intent"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"intent_reasoning"`
	ContextShift       bool     `json:"context_shift"`
	SupportingEvidence []string `json:"supporting_evidence,omitempty"`
}

// FollowUpQuestion is emitted when more information would materially change
// the stage.
type FollowUpQuestion struct {
	Question            string `json:"question"`
	Reasoning           string `json:"reasoning"`
	ExpectedInfo        string `json:"expected_info"`
	QualificationImpact Impact `json:"qualification_impact"`
}

// Decision is the engine's output for one conversation turn.
type Decision struct {
	Stage      Stage                `json:"stage"`
	Confidence float64              `json:"confidence"`
	Reasoning  string               `json:"reasoning"`
	Intent     IntentClassification `json:"intent_classification"`

	RecommendTransfer bool   `json:"recommend_transfer"`
	TransferTarget    string `json:"transfer_target,omitempty"` // "AE", "BDR" or empty

	FollowUp *FollowUpQuestion `json:"follow_up_question,omitempty"`

	ResponseGuidance string `json:"response_guidance"`
	RoutingGuidance  string `json:"routing_guidance"`

	Signals Signals `json:"extracted_data"`
}

// Score maps the stage onto the legacy 0-100 scale the analytics collaborator
// expects.
func (d Decision) Score() int {
	switch d.Stage {
	case StageSQL:
		return 85
	case StageSSL:
		return 65
	case StageNeedsInfo:
		return 45
	default:
		return 20
	}
}
