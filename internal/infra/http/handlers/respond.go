package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cazehq/bizcon/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps a named failure to its HTTP status. Callers branch on the
// error code, so the code travels in the body verbatim.
func respondError(w http.ResponseWriter, err error) {
	code := usecase.ErrorCode(err)

	status := http.StatusInternalServerError
	switch code {
	case "LeadNotFound":
		status = http.StatusNotFound
	case "SessionEnded":
		status = http.StatusGone
	case "NoProductsFound", "NoAvailableSlot", "NoPendingMeeting":
		status = http.StatusUnprocessableEntity
	case "MeetingCreationFailed", "EmailDispatchFailed", "CalendarUnavailable", "KnowledgeStoreUnavailable":
		status = http.StatusBadGateway
	}

	msg := ""
	if usecase.IsDomainError(err) || usecase.IsTechnicalError(err) {
		msg = err.Error()
	}

	respondJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
