package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type inviteFixture struct {
	uc        *InviteLeadsUseCase
	leads     *MockLeadRepository
	knowledge *MockKnowledgeStore
	llm       *MockLanguageModel
	mailer    *MockMailer
}

var inviteNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newInviteFixture() *inviteFixture {
	f := &inviteFixture{
		leads:     new(MockLeadRepository),
		knowledge: new(MockKnowledgeStore),
		llm:       new(MockLanguageModel),
		mailer:    new(MockMailer),
	}
	f.uc = NewInviteLeadsUseCase(f.leads, f.knowledge, f.llm, f.mailer, "https://app.example.com/chat?user=")
	f.uc.Now = func() time.Time { return inviteNow }
	return f
}

func TestInviteSendsOutreachWithChatLink(t *testing.T) {
	ctx := context.Background()
	lead := testLead()
	f := newInviteFixture()

	f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.knowledge.On("Query", mock.Anything, mock.Anything, mock.Anything).Return("We sell DataSense.", nil)
	f.llm.On("Complete", mock.Anything, mock.Anything).Return("Hi Ana, we would love to show you DataSense.", nil)
	f.mailer.On("Send", lead.Email, "Invitation to Chat", mock.Anything).Return(nil)
	f.leads.On("RecordOutreach", mock.Anything, lead.ID, inviteNow).Return(nil)

	results := f.uc.Execute(ctx, []string{lead.ID})

	assert.Len(t, results, 1)
	assert.Equal(t, "sent", results[0].Status)

	// The private link closes the email.
	f.mailer.AssertCalled(t, "Send", lead.Email, "Invitation to Chat", mock.MatchedBy(func(body string) bool {
		return strings.HasSuffix(body, "https://app.example.com/chat?user=lead-1")
	}))
	f.leads.AssertCalled(t, "RecordOutreach", mock.Anything, lead.ID, inviteNow)
}

func TestInviteRespectsCooldown(t *testing.T) {
	ctx := context.Background()
	lead := testLead()
	lastSent := inviteNow.Add(-2 * time.Hour)
	lead.LastEmailSentAt = &lastSent
	f := newInviteFixture()

	f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	results := f.uc.Execute(ctx, []string{lead.ID})

	assert.Equal(t, "cooldown", results[0].Status)
	f.mailer.AssertNotCalled(t, "Send")
}

func TestInviteAfterCooldownExpires(t *testing.T) {
	ctx := context.Background()
	lead := testLead()
	lastSent := inviteNow.Add(-6 * time.Hour)
	lead.LastEmailSentAt = &lastSent
	f := newInviteFixture()

	f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.knowledge.On("Query", mock.Anything, mock.Anything, mock.Anything).Return("We sell DataSense.", nil)
	f.llm.On("Complete", mock.Anything, mock.Anything).Return("Hi Ana!", nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.leads.On("RecordOutreach", mock.Anything, lead.ID, inviteNow).Return(nil)

	results := f.uc.Execute(ctx, []string{lead.ID})

	assert.Equal(t, "sent", results[0].Status)
}

func TestInviteMixedBatch(t *testing.T) {
	ctx := context.Background()
	lead := testLead()
	f := newInviteFixture()

	f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.leads.On("FindByID", mock.Anything, "ghost").Return(nil, nil)
	f.knowledge.On("Query", mock.Anything, mock.Anything, mock.Anything).Return("We sell DataSense.", nil)
	f.llm.On("Complete", mock.Anything, mock.Anything).Return("Hi Ana!", nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.leads.On("RecordOutreach", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	results := f.uc.Execute(ctx, []string{lead.ID, "ghost"})

	assert.Len(t, results, 2)
	assert.Equal(t, "sent", results[0].Status)
	assert.Equal(t, "not_found", results[1].Status)
}

func TestInviteLookupFailureIsNotMissingLead(t *testing.T) {
	ctx := context.Background()
	f := newInviteFixture()

	f.leads.On("FindByID", mock.Anything, "lead-1").Return(nil, errors.New("connection refused"))

	results := f.uc.Execute(ctx, []string{"lead-1"})

	assert.Equal(t, "error", results[0].Status)
	f.knowledge.AssertNotCalled(t, "Query")
	f.mailer.AssertNotCalled(t, "Send")
}

func TestInviteWithoutKnowledgeContext(t *testing.T) {
	ctx := context.Background()
	lead := testLead()
	f := newInviteFixture()

	f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.knowledge.On("Query", mock.Anything, mock.Anything, mock.Anything).Return("", nil)

	results := f.uc.Execute(ctx, []string{lead.ID})

	assert.Equal(t, "no_content", results[0].Status)
	f.llm.AssertNotCalled(t, "Complete")
	f.mailer.AssertNotCalled(t, "Send")
}

func TestInviteSendFailure(t *testing.T) {
	ctx := context.Background()
	lead := testLead()
	f := newInviteFixture()

	f.leads.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.knowledge.On("Query", mock.Anything, mock.Anything, mock.Anything).Return("We sell DataSense.", nil)
	f.llm.On("Complete", mock.Anything, mock.Anything).Return("Hi Ana!", nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp refused"))

	results := f.uc.Execute(ctx, []string{lead.ID})

	assert.Equal(t, "error", results[0].Status)
	f.leads.AssertNotCalled(t, "RecordOutreach")
}
