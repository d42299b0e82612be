package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alito/opencog/internal/domain"
	"github.com/alito/opencog/internal/service"
	"github.com/alito/opencog/internal/sexpr"
	"github.com/alito/opencog/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AtomHandler struct {
	reasoner *service.Reasoner
}

func NewAtomHandler(reasoner *service.Reasoner) *AtomHandler {
	return &AtomHandler{reasoner: reasoner}
}

type createAtomsRequest struct {
	Expr string `json:"expr"`
}

type atomsResponse struct {
	Atoms []atomResponse `json:"atoms"`
	Count int            `json:"count"`
}

// Create adds every atom written in the scheme expression to the space.
func (h *AtomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAtomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Expr == "" {
		writeError(w, http.StatusBadRequest, "expr is required")
		return
	}

	atoms, err := sexpr.Parse(r.Context(), h.reasoner.Space(), req.Expr)
	if err != nil {
		switch {
		case errors.Is(err, sexpr.ErrSyntax),
			errors.Is(err, domain.ErrInvalidTruthValue),
			errors.Is(err, store.ErrInvalidAtom):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create atoms")
		}
		return
	}

	writeJSON(w, http.StatusCreated, atomsResponse{Atoms: newAtomResponses(atoms), Count: len(atoms)})
}

func (h *AtomHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid atom id")
		return
	}

	atom, err := h.reasoner.Space().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "atom not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get atom")
		return
	}

	writeJSON(w, http.StatusOK, newAtomResponse(atom))
}

func (h *AtomHandler) SetTruthValue(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid atom id")
		return
	}

	var tv domain.TruthValue
	if err := json.NewDecoder(r.Body).Decode(&tv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	atom, err := h.reasoner.Space().SetTruthValue(r.Context(), id, tv)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTruthValue):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "atom not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to set truth value")
		}
		return
	}

	writeJSON(w, http.StatusOK, newAtomResponse(atom))
}

type simplifyRequest struct {
	ID string `json:"id"`
}

func (h *AtomHandler) Simplify(w http.ResponseWriter, r *http.Request) {
	var req simplifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid atom id")
		return
	}

	atom, err := h.reasoner.Simplify(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "atom not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to simplify atom")
		return
	}

	writeJSON(w, http.StatusOK, newAtomResponse(atom))
}
