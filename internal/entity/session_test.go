package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetContextIsSingular(t *testing.T) {
	sess := NewConversationSession("lead-1")

	sess.SetContext("first context")
	sess.Append(RoleAI, "greeting")
	sess.Append(RoleUser, "question")
	sess.SetContext("refreshed context")

	assert.Len(t, sess.Messages, 3)
	assert.Equal(t, RoleContext, sess.Messages[0].Role)
	assert.Equal(t, "refreshed context", sess.Messages[0].Content)
}

func TestSetContextPrependsWhenAbsent(t *testing.T) {
	sess := NewConversationSession("lead-1")
	sess.Append(RoleUser, "orphan turn")

	sess.SetContext("late context")

	assert.Equal(t, RoleContext, sess.Messages[0].Role)
	assert.Equal(t, RoleUser, sess.Messages[1].Role)
}

func TestTranscriptExcludesContext(t *testing.T) {
	sess := NewConversationSession("lead-1")
	sess.SetContext("context")
	sess.Append(RoleAI, "greeting")
	sess.Append(RoleUser, "question")

	transcript := sess.Transcript()

	assert.Len(t, transcript, 2)
	for _, m := range transcript {
		assert.NotEqual(t, RoleContext, m.Role)
	}
}

func TestResetClearsHistoryAndChoice(t *testing.T) {
	sess := NewConversationSession("lead-1")
	sess.SetContext("context")
	sess.Append(RoleAI, "greeting")
	sess.ContinueChoice = ChoiceContinue

	sess.Reset()

	assert.Empty(t, sess.Messages)
	assert.Equal(t, ChoiceNone, sess.ContinueChoice)
}

func TestValidLeadStatus(t *testing.T) {
	assert.True(t, ValidLeadStatus(StatusHot))
	assert.True(t, ValidLeadStatus(StatusWarm))
	assert.True(t, ValidLeadStatus(StatusCold))
	assert.False(t, ValidLeadStatus(StatusNotResponded))
	assert.False(t, ValidLeadStatus("Lukewarm"))
}

func TestNewLeadDefaults(t *testing.T) {
	lead, err := NewLead("Ana Costa", "Acme", "ana@example.com", "interested in analytics", "Website")

	assert.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, StatusNotResponded, lead.Status)
	assert.False(t, lead.HasPendingMeeting())
}

func TestNewLeadRequiresNameAndEmail(t *testing.T) {
	_, err := NewLead("", "Acme", "ana@example.com", "", "")
	assert.Error(t, err)

	_, err = NewLead("Ana", "Acme", "", "", "")
	assert.Error(t, err)
}
