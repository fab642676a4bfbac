package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cazehq/bizcon/internal/entity"
	"github.com/cazehq/bizcon/internal/infra/metrics"
)

// SessionCloser lets the classifier drop the in-memory session once the
// terminated transcript has been processed.
type SessionCloser interface {
	EndSession(leadID string)
}

// ClassifyInterestUseCase converts a terminated transcript into durable
// signals: a ~50 word summary and an interest tier. On Hot, and only when no
// draft is already pending, it runs the meeting orchestrator in draft mode.
type ClassifyInterestUseCase struct {
	Leads        LeadRepositoryInterface
	LLM          LanguageModel
	Orchestrator *ProposeMeetingUseCase
	Sessions     SessionCloser
	Locks        *KeyedMutex
}

func NewClassifyInterestUseCase(
	leads LeadRepositoryInterface,
	languageModel LanguageModel,
	orchestrator *ProposeMeetingUseCase,
	sessions SessionCloser,
	locks *KeyedMutex,
) *ClassifyInterestUseCase {
	return &ClassifyInterestUseCase{
		Leads:        leads,
		LLM:          languageModel,
		Orchestrator: orchestrator,
		Sessions:     sessions,
		Locks:        locks,
	}
}

// Classify implements queue.InterestClassifier.
func (uc *ClassifyInterestUseCase) Classify(ctx context.Context, leadID string, transcript []entity.Message) error {
	uc.Locks.Lock(leadID)
	defer uc.Locks.Unlock(leadID)

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return fmt.Errorf("failed to load lead %s: %w", leadID, err)
	}
	if lead == nil {
		return ErrLeadNotFound
	}

	summary, err := uc.LLM.Complete(ctx, []entity.Message{
		{Role: entity.RoleUser, Content: summaryPrompt(transcript)},
	})
	if err != nil {
		return fmt.Errorf("summary generation failed for lead %s: %w", leadID, err)
	}

	status := uc.determineStatus(ctx, lead, transcript)

	if err := uc.Leads.UpdateClassification(ctx, leadID, summary, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("failed to persist classification for lead %s: %w", leadID, err)
	}

	metrics.RecordClassification(string(status))
	log.Printf("[classifier] lead %s classified %s", leadID, status)

	if uc.Sessions != nil {
		uc.Sessions.EndSession(leadID)
	}

	if status == entity.StatusHot && !lead.HasPendingMeeting() {
		lead.ChatSummary = summary
		lead.Status = status
		if _, err := uc.Orchestrator.draft(ctx, lead); err != nil {
			// The classification itself is durable; an auto-draft failure is
			// retried manually via POST /meeting/propose.
			log.Printf("[classifier] auto-draft failed for hot lead %s: %s (%v)", leadID, ErrorCode(err), err)
		}
	}

	return nil
}

// determineStatus issues the tiering call and validates the answer against
// the closed set. Anything unrecognized falls back to the lead's previous
// status rather than storing garbage.
func (uc *ClassifyInterestUseCase) determineStatus(ctx context.Context, lead *entity.Lead, transcript []entity.Message) entity.LeadStatus {
	raw, err := uc.LLM.Complete(ctx, []entity.Message{
		{Role: entity.RoleUser, Content: statusPrompt(transcript)},
	})
	if err != nil {
		log.Printf("[classifier] status call failed for lead %s, keeping %q: %v", lead.ID, lead.Status, err)
		return lead.Status
	}

	status := entity.LeadStatus(normalizeStatus(raw))
	if !entity.ValidLeadStatus(status) {
		log.Printf("[classifier] unrecognized status %q for lead %s, keeping %q", raw, lead.ID, lead.Status)
		return lead.Status
	}
	return status
}

// normalizeStatus trims surrounding noise and title-cases a one-word answer,
// so "hot", " HOT. " and "'Hot'" all resolve to "Hot".
func normalizeStatus(raw string) string {
	cleaned := strings.TrimFunc(raw, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z')
	})
	if cleaned == "" {
		return ""
	}
	return strings.ToUpper(cleaned[:1]) + strings.ToLower(cleaned[1:])
}
