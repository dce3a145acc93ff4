package extraction

import (
	"encoding/json"
	"fmt"
)

const signalsSystemPrompt = `You are an expert sales qualification analyst for a communications platform.
Analyze the conversation and extract qualification data.

EXTRACTION RULES:
1. Be conservative - only extract explicitly mentioned information.
2. Convert all budget/volume figures to monthly (divide yearly by 12).
3. Always use the HIGHEST figure when a range is given.
4. Assess business quality from growth signals, company maturity and use case sophistication.
5. Leave anything not explicitly mentioned null.

Respond with ONLY a JSON object, no prose, with these fields:
{
  "monthly_budget": int or null,
  "budget_context": string,
  "monthly_volume": int or null,
  "volume_type": string,
  "phone_numbers": int or null,
  "countries": int or null,
  "sim_cards": int or null,
  "data_mb": int or null,
  "voice_minutes": int or null,
  "calls": int or null,
  "use_case": string,
  "current_provider": string,
  "urgency_signals": [string],
  "contact_title": string,
  "decision_authority": "high"|"medium"|"low"|"unknown",
  "company_indicators": [string],
  "business_quality": {
    "quality_score": int 0-100,
    "quality_indicators": [string],
    "growth_signals": [string],
    "risk_factors": [string],
    "company_maturity": "startup"|"growth_stage"|"established"|"enterprise"|"unknown"
  }
}`

const intentSystemPrompt = `You are an expert intent classifier for inbound customer conversations.

INTENT RULES:
1. "sales" - new business, pricing inquiries, volume requirements, provider comparisons, quotes.
2. "support" - existing customer issues: billing questions, invoices, failed payments, outages, account access, "we already use you".
3. "other" - unclear, general inquiry, or mixed needs.

CONTEXT SHIFT:
Set context_shift true only if the intent clearly changed from the previous classification.

Respond with ONLY a JSON object, no prose:
{
  "primary_intent": "sales"|"support"|"other",
  "confidence": float 0-1,
  "intent_reasoning": string,
  "context_shift": bool,
  "supporting_evidence": [string]
}`

func signalsUserPrompt(conversationContext string, caller CallerInfo) string {
	return fmt.Sprintf("CONVERSATION:\n%s\n\nCALLER INFO:\n%s\n\nExtract the qualification data.", conversationContext, callerInfoJSON(caller))
}

func intentUserPrompt(conversationContext string, caller CallerInfo, previousIntent string) string {
	if previousIntent == "" {
		previousIntent = "none"
	}
	return fmt.Sprintf("CONVERSATION:\n%s\n\nCALLER INFO:\n%s\n\nPREVIOUS INTENT: %s\n\nClassify the primary intent.", conversationContext, callerInfoJSON(caller), previousIntent)
}

func callerInfoJSON(caller CallerInfo) string {
	if caller == (CallerInfo{}) {
		return "none available"
	}
	data, err := json.Marshal(caller)
	if err != nil {
		return "none available"
	}
	return string(data)
}
