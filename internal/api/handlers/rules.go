package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alito/opencog/internal/domain"
	"github.com/alito/opencog/internal/service"
	"github.com/alito/opencog/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RuleHandler struct {
	reasoner *service.Reasoner
}

func NewRuleHandler(reasoner *service.Reasoner) *RuleHandler {
	return &RuleHandler{reasoner: reasoner}
}

type ruleResponse struct {
	Name    string   `json:"name"`
	Formula string   `json:"formula"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

func newRuleResponse(r *domain.Rule) ruleResponse {
	resp := ruleResponse{Name: r.Name, Formula: r.Formula.Name()}
	for _, in := range r.Inputs {
		resp.Inputs = append(resp.Inputs, in.String())
	}
	for _, out := range r.Outputs {
		resp.Outputs = append(resp.Outputs, out.String())
	}
	return resp
}

type rulesResponse struct {
	Rules []ruleResponse `json:"rules"`
	Count int            `json:"count"`
}

func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog := h.reasoner.Rules()
	resp := rulesResponse{Rules: make([]ruleResponse, 0, len(catalog)), Count: len(catalog)}
	for _, rule := range catalog {
		resp.Rules = append(resp.Rules, newRuleResponse(rule))
	}
	writeJSON(w, http.StatusOK, resp)
}

type applyRequest struct {
	Inputs []uuid.UUID `json:"inputs"`
}

type inferenceResponse struct {
	Rule    string         `json:"rule"`
	Outputs []atomResponse `json:"outputs"`
}

func (h *RuleHandler) Apply(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Inputs) == 0 {
		writeError(w, http.StatusBadRequest, "inputs are required")
		return
	}

	inf, err := h.reasoner.Apply(r.Context(), name, req.Inputs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRuleNotFound):
			writeError(w, http.StatusNotFound, "rule not found")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "input atom not found")
		case errors.Is(err, service.ErrNoMatch), errors.Is(err, service.ErrNoInference):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to apply rule")
		}
		return
	}

	writeJSON(w, http.StatusOK, inferenceResponse{Rule: inf.Rule, Outputs: newAtomResponses(inf.Outputs)})
}
