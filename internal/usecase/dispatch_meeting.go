package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/cazehq/bizcon/internal/entity"
	"github.com/cazehq/bizcon/internal/infra/metrics"
)

// DispatchMeetingUseCase is step 7 of the pipeline: review and send. It is
// never triggered automatically; a human reviews the draft and explicitly
// sends it.
type DispatchMeetingUseCase struct {
	Leads  LeadRepositoryInterface
	Mailer Mailer
	Locks  *KeyedMutex
}

func NewDispatchMeetingUseCase(leads LeadRepositoryInterface, mailer Mailer, locks *KeyedMutex) *DispatchMeetingUseCase {
	return &DispatchMeetingUseCase{Leads: leads, Mailer: mailer, Locks: locks}
}

type ReviewOutput struct {
	Subject  string                  `json:"subject"`
	Body     string                  `json:"body"`
	Proposal *entity.MeetingProposal `json:"proposal"`
	Sent     bool                    `json:"sent"`
}

// Review re-reads the persisted draft and renders the final subject/body.
func (uc *DispatchMeetingUseCase) Review(ctx context.Context, leadID string) (*ReviewOutput, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead %s: %w", leadID, err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if !lead.HasPendingMeeting() {
		return nil, ErrNoPendingMeeting
	}

	return &ReviewOutput{
		Subject:  inviteSubject(lead.PendingMeetingInfo),
		Body:     lead.PendingMeetingEmail,
		Proposal: lead.PendingMeetingInfo,
		Sent:     lead.MeetingEmailSent,
	}, nil
}

// Send hands the reviewed draft to the mailer. meeting_email_sent flips to
// true only after a successful delivery; a failure leaves the draft intact so
// step 7 alone can be retried.
func (uc *DispatchMeetingUseCase) Send(ctx context.Context, leadID string) error {
	uc.Locks.Lock(leadID)
	defer uc.Locks.Unlock(leadID)

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return fmt.Errorf("failed to load lead %s: %w", leadID, err)
	}
	if lead == nil {
		return ErrLeadNotFound
	}
	if !lead.HasPendingMeeting() {
		return ErrNoPendingMeeting
	}

	subject := inviteSubject(lead.PendingMeetingInfo)
	if err := uc.Mailer.Send(lead.Email, subject, lead.PendingMeetingEmail); err != nil {
		metrics.RecordIntegrationError("mail")
		log.Printf("[meeting] invite dispatch failed for lead %s: %v", lead.ID, err)
		return ErrEmailDispatchFailed
	}

	if err := uc.Leads.MarkMeetingEmailSent(ctx, lead.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("invite sent but flag update failed for lead %s: %w", lead.ID, err)
	}

	metrics.RecordMeetingEmailSent()
	log.Printf("[meeting] invite sent to %s for lead %s", lead.Email, lead.ID)
	return nil
}

func inviteSubject(proposal *entity.MeetingProposal) string {
	return fmt.Sprintf("Meeting Invitation: %s", proposal.Product)
}
