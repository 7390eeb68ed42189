package handlers

import (
	"net/http"

	"github.com/padelops/club-system/services"
)

type MatchHandler struct {
	tournamentService services.TournamentService
}

func NewMatchHandler(tournamentService services.TournamentService) *MatchHandler {
	return &MatchHandler{tournamentService: tournamentService}
}

func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordMatchResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if problems := checkStruct(input); problems != nil {
		failedValidationResponse(w, r, problems)
		return
	}

	match, err := h.tournamentService.RecordMatchResult(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.ResolveMatchConflict(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolved": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
