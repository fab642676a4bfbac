package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cazehq/bizcon/internal/entity"
	"github.com/cazehq/bizcon/internal/usecase"
)

type LeadHandler struct {
	Leads       usecase.LeadRepositoryInterface
	Invites     *usecase.InviteLeadsUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(leads usecase.LeadRepositoryInterface, invites *usecase.InviteLeadsUseCase) *LeadHandler {
	return &LeadHandler{
		Leads:       leads,
		Invites:     invites,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// HandleCapture serves POST /leads: appends a new lead with a fresh ID and
// NotResponded status.
func (h *LeadHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		respondJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "RateLimited", Message: "Too many requests. Please try again later."})
		return
	}

	var input usecase.CaptureLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "InvalidJSON"})
		return
	}

	if errs := usecase.ValidateCaptureLeadInput(input); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "ValidationFailed", Message: errs[0].Error()})
		return
	}

	lead, err := entity.NewLead(input.Name, input.Company, input.Email, input.Description, input.Source)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "ValidationFailed", Message: err.Error()})
		return
	}

	if err := h.Leads.Create(r.Context(), lead); err != nil {
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "InternalError", Message: "Failed to capture lead"})
		return
	}

	respondJSON(w, http.StatusCreated, lead)
}

// HandleList serves GET /leads: all leads grouped by source.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context())
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "InternalError"})
		return
	}

	grouped := make(map[string][]*entity.Lead)
	for _, lead := range leads {
		source := lead.Source
		if source == "" {
			source = "Unknown"
		}
		grouped[source] = append(grouped[source], lead)
	}

	respondJSON(w, http.StatusOK, grouped)
}

type InviteRequest struct {
	LeadIDs []string `json:"lead_ids"`
}

// HandleInvite serves POST /leads/invite: sends outreach emails with private
// chat links to the selected leads.
func (h *LeadHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.LeadIDs) == 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "InvalidRequest", Message: "lead_ids is required"})
		return
	}

	results := h.Invites.Execute(r.Context(), req.LeadIDs)
	respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
