package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cazehq/bizcon/internal/entity"
)

const (
	outreachCooldown = 5 * time.Hour
	outreachSubject  = "Invitation to Chat"
)

// InviteLeadsUseCase sends the initial outreach email: a personalized body
// composed from the company corpus, closing with the lead's private chat
// link. Re-sends within the cooldown window are skipped.
type InviteLeadsUseCase struct {
	Leads     LeadRepositoryInterface
	Knowledge KnowledgeStore
	LLM       LanguageModel
	Mailer    Mailer

	// ChatBaseURL prefixes the per-lead private link, e.g.
	// "https://app.example.com/chat?user=".
	ChatBaseURL string

	Now func() time.Time
}

func NewInviteLeadsUseCase(
	leads LeadRepositoryInterface,
	knowledge KnowledgeStore,
	languageModel LanguageModel,
	mailer Mailer,
	chatBaseURL string,
) *InviteLeadsUseCase {
	return &InviteLeadsUseCase{
		Leads:       leads,
		Knowledge:   knowledge,
		LLM:         languageModel,
		Mailer:      mailer,
		ChatBaseURL: chatBaseURL,
		Now:         time.Now,
	}
}

type InviteResult struct {
	LeadID string `json:"lead_id"`
	Status string `json:"status"` // sent | cooldown | no_content | not_found | error
}

func (uc *InviteLeadsUseCase) Execute(ctx context.Context, leadIDs []string) []InviteResult {
	results := make([]InviteResult, 0, len(leadIDs))
	now := uc.Now()

	for _, id := range leadIDs {
		results = append(results, uc.inviteOne(ctx, id, now))
	}
	return results
}

func (uc *InviteLeadsUseCase) inviteOne(ctx context.Context, leadID string, now time.Time) InviteResult {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		// A lookup failure is retryable, unlike a genuinely missing lead.
		log.Printf("[outreach] lead lookup failed for %s: %v", leadID, err)
		return InviteResult{LeadID: leadID, Status: "error"}
	}
	if lead == nil {
		return InviteResult{LeadID: leadID, Status: "not_found"}
	}

	if lead.LastEmailSentAt != nil && now.Sub(*lead.LastEmailSentAt) < outreachCooldown {
		return InviteResult{LeadID: leadID, Status: "cooldown"}
	}

	companyContext, err := uc.Knowledge.Query(ctx, "company information and user information", 1)
	if err != nil || companyContext == "" {
		log.Printf("[outreach] no context for lead %s: %v", leadID, err)
		return InviteResult{LeadID: leadID, Status: "no_content"}
	}

	body, err := uc.LLM.Complete(ctx, []entity.Message{
		{Role: entity.RoleUser, Content: invitationPrompt(companyContext, lead)},
	})
	if err != nil || body == "" {
		log.Printf("[outreach] body generation failed for lead %s: %v", leadID, err)
		return InviteResult{LeadID: leadID, Status: "no_content"}
	}

	link := uc.ChatBaseURL + lead.ID
	body = fmt.Sprintf("%s\n\nClick here to chat with us: %s", body, link)

	if err := uc.Mailer.Send(lead.Email, outreachSubject, body); err != nil {
		log.Printf("[outreach] send failed for lead %s: %v", leadID, err)
		return InviteResult{LeadID: leadID, Status: "error"}
	}

	if err := uc.Leads.RecordOutreach(ctx, lead.ID, now); err != nil {
		log.Printf("[outreach] sent but counter update failed for lead %s: %v", leadID, err)
	}
	return InviteResult{LeadID: leadID, Status: "sent"}
}
