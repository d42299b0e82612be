package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/alito/opencog/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type atomResponse struct {
	*domain.Atom
	Scheme     string              `json:"scheme"`
	Confidence float64             `json:"confidence"`
	Tier       domain.EvidenceTier `json:"tier"`
	TierReason string              `json:"tier_reason"`
}

func newAtomResponse(a *domain.Atom) atomResponse {
	return atomResponse{
		Atom:       a,
		Scheme:     a.String(),
		Confidence: a.TV.Confidence(),
		Tier:       a.TV.Tier(),
		TierReason: domain.TierReason(a.TV.Confidence()),
	}
}

func newAtomResponses(atoms []*domain.Atom) []atomResponse {
	out := make([]atomResponse, len(atoms))
	for i, a := range atoms {
		out[i] = newAtomResponse(a)
	}
	return out
}
