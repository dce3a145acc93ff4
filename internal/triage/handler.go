package triage

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/voxline-ai/sales-triage/internal/decisions"
	"github.com/voxline-ai/sales-triage/internal/observability/metrics"
	"github.com/voxline-ai/sales-triage/internal/qualification"
	"github.com/voxline-ai/sales-triage/internal/routing"
	"github.com/voxline-ai/sales-triage/internal/validator"
	"github.com/voxline-ai/sales-triage/pkg/logging"
)

// Handler handles HTTP requests for triage
type Handler struct {
	service   *Service
	validator *validator.Validator
	metrics   *metrics.TriageMetrics
	logger    *logging.Logger
}

// NewHandler creates a new triage handler
func NewHandler(service *Service, v *validator.Validator, m *metrics.TriageMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:   service,
		validator: v,
		metrics:   m,
		logger:    logger,
	}
}

// Decide handles POST /v1/triage/decide requests
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	var req DecideRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Decide(r.Context(), req)
	if errors.Is(err, ErrMissingConversationID) {
		http.Error(w, "conversation_id is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("triage decision failed", "conversation_id", req.ConversationID, "error", err)
		http.Error(w, "triage decision failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("triage decision",
		"conversation_id", resp.ConversationID,
		"stage", resp.Decision.Stage,
		"intent", resp.Decision.Intent.PrimaryIntent,
		"transfer_target", resp.Routing.Target,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RouteRequest is the payload for a standalone routing check.
type RouteRequest struct {
	Stage   string `json:"stage"`
	Urgency string `json:"urgency"`
	Reason  string `json:"reason"`
	Intent  struct {
		PrimaryIntent string  `json:"primary_intent"`
		Confidence    float64 `json:"confidence"`
	} `json:"intent_classification"`
}

// Route handles POST /v1/triage/route requests
func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Stage == "" {
		http.Error(w, "stage is required", http.StatusBadRequest)
		return
	}

	rreq := routing.Request{
		Stage:   qualificationStage(req.Stage),
		Urgency: req.Urgency,
		Reason:  req.Reason,
	}
	rreq.Intent.PrimaryIntent = qualificationIntent(req.Intent.PrimaryIntent)
	rreq.Intent.Confidence = req.Intent.Confidence

	decision := routing.Route(rreq)
	h.metrics.ObserveRouting(string(decision.Priority), string(decision.Target))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decision)
}

// ValidateRequest is the payload for response validation.
type ValidateRequest struct {
	Response            string `json:"response"`
	ConversationContext string `json:"conversation_context"`
}

// Validate handles POST /v1/responses/validate requests
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Response == "" {
		http.Error(w, "response is required", http.StatusBadRequest)
		return
	}

	result := h.validator.Validate(req.Response, req.ConversationContext)

	category := ""
	if len(result.Violations) > 0 {
		category = string(result.Violations[0].Category)
	}
	h.metrics.ObserveValidation(result.Approved, category)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func qualificationStage(s string) qualification.Stage {
	switch strings.ToUpper(s) {
	case "SQL":
		return qualification.StageSQL
	case "SSL":
		return qualification.StageSSL
	case "DQ":
		return qualification.StageDQ
	default:
		return qualification.StageNeedsInfo
	}
}

func qualificationIntent(s string) qualification.Intent {
	switch strings.ToLower(s) {
	case "sales":
		return qualification.IntentSales
	case "support":
		return qualification.IntentSupport
	default:
		return qualification.IntentOther
	}
}

// History handles GET /v1/triage/conversations/{conversationID}/decisions requests
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		http.Error(w, "missing conversation_id", http.StatusBadRequest)
		return
	}

	recs, err := h.service.History(r.Context(), conversationID)
	if errors.Is(err, decisions.ErrRecordNotFound) {
		http.Error(w, "no decisions for conversation", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to list decisions", "error", err, "conversation_id", conversationID)
		http.Error(w, "failed to list decisions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Decisions []decisions.Record `json:"decisions"`
		Count     int                `json:"count"`
	}{Decisions: recs, Count: len(recs)})
}
