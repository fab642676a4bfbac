package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cazehq/bizcon/internal/usecase"
)

type ChatHandler struct {
	Sessions    *usecase.SessionManager
	Transcripts usecase.TranscriptStore
}

func NewChatHandler(sessions *usecase.SessionManager, transcripts usecase.TranscriptStore) *ChatHandler {
	return &ChatHandler{Sessions: sessions, Transcripts: transcripts}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	Ended     bool   `json:"ended"`
	ErrorCode string `json:"error_code,omitempty"`
}

// HandleTurn serves POST /chat/{leadId}. An empty message opens the
// conversation (greeting or resume prompt).
func (h *ChatHandler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && r.ContentLength > 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "InvalidJSON"})
		return
	}

	result, err := h.Sessions.HandleTurn(r.Context(), leadID, req.Message)
	if err != nil {
		// A content-policy rejection is still a chat reply: the interface
		// shows the notice and the conversation is over.
		if errors.Is(err, usecase.ErrContentPolicyRejection) {
			respondJSON(w, http.StatusOK, ChatResponse{
				Response:  usecase.ErrContentPolicyRejection.Message,
				Ended:     true,
				ErrorCode: usecase.ErrorCode(err),
			})
			return
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ChatResponse{Response: result.Response, Ended: result.Ended})
}

// HandleTranscript serves GET /admin/chats/{leadId}: the persisted transcript
// for one lead.
func (h *ChatHandler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	messages, err := h.Transcripts.Load(leadID)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "InternalError"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"history": messages})
}
