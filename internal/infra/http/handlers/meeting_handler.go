package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cazehq/bizcon/internal/usecase"
)

type MeetingHandler struct {
	Propose  *usecase.ProposeMeetingUseCase
	Dispatch *usecase.DispatchMeetingUseCase
}

func NewMeetingHandler(propose *usecase.ProposeMeetingUseCase, dispatch *usecase.DispatchMeetingUseCase) *MeetingHandler {
	return &MeetingHandler{Propose: propose, Dispatch: dispatch}
}

type MeetingRequest struct {
	LeadID string `json:"lead_id"`
}

// HandlePropose serves POST /meeting/propose: runs the draft pipeline
// (steps 1-6) and returns the proposal or a named failure.
func (h *MeetingHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	leadID, ok := decodeLeadID(w, r)
	if !ok {
		return
	}

	proposal, err := h.Propose.Execute(r.Context(), leadID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// HandleReview serves POST /meeting/review: returns the pending draft for
// human inspection.
func (h *MeetingHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	leadID, ok := decodeLeadID(w, r)
	if !ok {
		return
	}

	draft, err := h.Dispatch.Review(r.Context(), leadID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, draft)
}

// HandleSend serves POST /meeting/send: the explicit, human-gated dispatch.
func (h *MeetingHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	leadID, ok := decodeLeadID(w, r)
	if !ok {
		return
	}

	if err := h.Dispatch.Send(r.Context(), leadID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func decodeLeadID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LeadID == "" {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "InvalidRequest", Message: "lead_id is required"})
		return "", false
	}
	return req.LeadID, true
}
