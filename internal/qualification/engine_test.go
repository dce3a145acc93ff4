package qualification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func salesIntent(conf float64) IntentClassification {
	return IntentClassification{PrimaryIntent: IntentSales, Confidence: conf, Reasoning: "pricing discussion"}
}

func TestDecideSQLThresholds(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name    string
		signals Signals
	}{
		{"budget at bar", Signals{MonthlyBudget: intPtr(1000)}},
		{"budget above bar", Signals{MonthlyBudget: intPtr(1500)}},
		{"message volume", Signals{MonthlyVolume: intPtr(10000), VolumeType: "SMS messages"}},
		{"phone numbers", Signals{PhoneNumbers: intPtr(10)}},
		{"countries", Signals{Countries: intPtr(3)}},
		{"data volume", Signals{DataMB: intPtr(100)}},
		{"sim cards", Signals{SIMCards: intPtr(10)}},
		{"voice minutes", Signals{VoiceMinutes: intPtr(100000)}},
		{"call volume", Signals{Calls: intPtr(100000)}},
		{"enterprise growth", Signals{
			BusinessQuality: BusinessQuality{
				CompanyMaturity: MaturityEnterprise,
				GrowthSignals:   []string{"recent funding round", "expanding internationally"},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.Decide(tt.signals, salesIntent(0.9))
			assert.Equal(t, StageSQL, d.Stage, "any single criterion is sufficient")
			assert.GreaterOrEqual(t, d.Confidence, 0.8)
			assert.Nil(t, d.FollowUp, "no follow-up on an actionable SQL")
		})
	}
}

func TestDecideVoiceUseCaseRaisesBars(t *testing.T) {
	engine := NewEngine()

	// 10 phone numbers qualifies a messaging use case but not a voice one.
	messaging := engine.Decide(Signals{PhoneNumbers: intPtr(10), UseCase: "business SMS"}, salesIntent(0.9))
	assert.Equal(t, StageSQL, messaging.Stage)

	voice := engine.Decide(Signals{PhoneNumbers: intPtr(10), UseCase: "voice contact center"}, salesIntent(0.9))
	assert.NotEqual(t, StageSQL, voice.Stage, "voice use case raises the phone-number bar to 50")

	voiceBig := engine.Decide(Signals{PhoneNumbers: intPtr(50), UseCase: "voice contact center"}, salesIntent(0.9))
	assert.Equal(t, StageSQL, voiceBig.Stage)
}

func TestDecideSingleStrongSignalTransfersToAE(t *testing.T) {
	engine := NewEngine()
	d := engine.Decide(Signals{MonthlyBudget: intPtr(1500)}, salesIntent(0.9))

	assert.Equal(t, StageSQL, d.Stage)
	assert.InDelta(t, 0.80, d.Confidence, 0.001, "confidence reflects the single strong signal")
	assert.True(t, d.RecommendTransfer)
	assert.Equal(t, "AE", d.TransferTarget)

	// Same outcome when intent is ambiguous: the fallback rule still sends SQL to AE.
	d = engine.Decide(Signals{MonthlyBudget: intPtr(1500)}, IntentClassification{PrimaryIntent: IntentOther, Confidence: 0.2})
	assert.True(t, d.RecommendTransfer)
	assert.Equal(t, "AE", d.TransferTarget)
}

func TestDecideNeedsInfoProducesFollowUp(t *testing.T) {
	engine := NewEngine()
	d := engine.Decide(Signals{
		UseCase:           "two-factor authentication for a banking app",
		DecisionAuthority: AuthorityHigh,
		BusinessQuality: BusinessQuality{
			QualityScore:    75,
			GrowthSignals:   []string{"rapid user growth"},
			CompanyMaturity: MaturityGrowthStage,
		},
	}, salesIntent(0.85))

	assert.Equal(t, StageNeedsInfo, d.Stage)
	require.NotNil(t, d.FollowUp, "NEEDS_INFO must carry a follow-up question")
	assert.Equal(t, ImpactHigh, d.FollowUp.QualificationImpact, "budget and primary volume are missing")
	assert.NotEmpty(t, d.FollowUp.Question)
	assert.False(t, d.RecommendTransfer)
}

func TestDecideSSL(t *testing.T) {
	engine := NewEngine()

	t.Run("below-threshold budget", func(t *testing.T) {
		d := engine.Decide(Signals{MonthlyBudget: intPtr(300), MonthlyVolume: intPtr(2000)}, salesIntent(0.9))
		assert.Equal(t, StageSSL, d.Stage)
		assert.False(t, d.RecommendTransfer)
		assert.Nil(t, d.FollowUp, "budget already known")
	})

	t.Run("decision maker without numbers but weak quality", func(t *testing.T) {
		d := engine.Decide(Signals{ContactTitle: "CTO", DecisionAuthority: AuthorityHigh, CompanyIndicators: []string{"50-person SaaS"}}, salesIntent(0.9))
		assert.Equal(t, StageSSL, d.Stage)
		require.NotNil(t, d.FollowUp, "budget and volume unknown on a plausible lead")
		assert.Equal(t, ImpactHigh, d.FollowUp.QualificationImpact)
	})

	t.Run("urgent SSL goes to BDR under sales intent", func(t *testing.T) {
		d := engine.Decide(Signals{MonthlyBudget: intPtr(300), UrgencySignals: []string{"need this urgently"}}, salesIntent(0.9))
		assert.Equal(t, StageSSL, d.Stage)
		assert.True(t, d.RecommendTransfer)
		assert.Equal(t, "BDR", d.TransferTarget)
	})
}

func TestDecideDisqualification(t *testing.T) {
	engine := NewEngine()

	t.Run("personal use", func(t *testing.T) {
		d := engine.Decide(Signals{UseCase: "personal texting with my family"}, salesIntent(0.9))
		assert.Equal(t, StageDQ, d.Stage)
		assert.Nil(t, d.FollowUp, "high-confidence DQ is already actionable")
	})

	t.Run("disallowed use case beats quality", func(t *testing.T) {
		d := engine.Decide(Signals{
			UseCase:         "bulk robocall campaigns",
			BusinessQuality: BusinessQuality{QualityScore: 80},
		}, salesIntent(0.9))
		assert.Equal(t, StageDQ, d.Stage)
		assert.Contains(t, d.Reasoning, "robocall")
	})

	t.Run("SQL threshold wins over personal wording", func(t *testing.T) {
		// Stage rules are ordered: a met threshold is checked before DQ.
		d := engine.Decide(Signals{MonthlyBudget: intPtr(2000), UseCase: "personal brand marketing"}, salesIntent(0.9))
		assert.Equal(t, StageSQL, d.Stage)
	})
}

func TestDecideEmptySignals(t *testing.T) {
	engine := NewEngine()
	d := engine.Decide(Signals{}, IntentClassification{PrimaryIntent: IntentOther, Confidence: 0.0})

	assert.Equal(t, StageDQ, d.Stage)
	assert.Less(t, d.Confidence, 0.5)
	assert.NotEmpty(t, d.ResponseGuidance)
	assert.False(t, d.RecommendTransfer)
}

func TestDecideSanitizesMalformedSignals(t *testing.T) {
	engine := NewEngine()
	d := engine.Decide(Signals{
		MonthlyBudget:     intPtr(-500),
		PhoneNumbers:      intPtr(-3),
		MonthlyVolume:     intPtr(2000),
		DecisionAuthority: Authority("weird"),
		BusinessQuality:   BusinessQuality{QualityScore: 250, CompanyMaturity: Maturity("mega")},
	}, salesIntent(0.9))

	// Negative fields are treated as absent, not rejected.
	assert.Nil(t, d.Signals.MonthlyBudget)
	assert.Nil(t, d.Signals.PhoneNumbers)
	assert.Equal(t, AuthorityUnknown, d.Signals.DecisionAuthority)
	assert.Equal(t, MaturityUnknown, d.Signals.BusinessQuality.CompanyMaturity)
	assert.Equal(t, 100, d.Signals.BusinessQuality.QualityScore)
	assert.Equal(t, StageSSL, d.Stage, "remaining legitimate volume still counts")
}

func TestDecideSupportIntentModulatesToneNotStage(t *testing.T) {
	engine := NewEngine()
	support := IntentClassification{PrimaryIntent: IntentSupport, Confidence: 0.95, Reasoning: "billing problem"}
	d := engine.Decide(Signals{MonthlyBudget: intPtr(5000)}, support)

	// Stage math is unchanged; existing customers can be high value.
	assert.Equal(t, StageSQL, d.Stage)
	// But the decision does not recommend a sales transfer, and guidance
	// leads with issue resolution.
	assert.False(t, d.RecommendTransfer)
	assert.Empty(t, d.TransferTarget)
	assert.Contains(t, d.RoutingGuidance, "support")
	assert.Contains(t, d.ResponseGuidance, "support issue first")
}

func TestFallbackDecision(t *testing.T) {
	engine := NewEngine()
	d := engine.FallbackDecision(IntentClassification{PrimaryIntent: IntentOther}, "extraction timeout")

	assert.Equal(t, StageDQ, d.Stage)
	assert.Less(t, d.Confidence, 0.1)
	assert.Contains(t, d.ResponseGuidance, "connect you with someone")
	assert.Contains(t, d.Reasoning, "extraction timeout")
}

func TestScore(t *testing.T) {
	assert.Equal(t, 85, Decision{Stage: StageSQL}.Score())
	assert.Equal(t, 65, Decision{Stage: StageSSL}.Score())
	assert.Equal(t, 45, Decision{Stage: StageNeedsInfo}.Score())
	assert.Equal(t, 20, Decision{Stage: StageDQ}.Score())
}

func TestUrgency(t *testing.T) {
	assert.Equal(t, "high", Signals{UrgencySignals: []string{"we need this ASAP"}}.Urgency())
	assert.Equal(t, "high", Signals{UrgencySignals: []string{"launch is today"}}.Urgency())
	assert.Equal(t, "low", Signals{UrgencySignals: []string{"sometime next quarter"}}.Urgency())
	assert.Equal(t, "low", Signals{}.Urgency())
}
