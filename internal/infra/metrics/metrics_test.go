package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDomainCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(conversationsEnded)
	RecordConversationEnded()
	assert.Equal(t, before+1, testutil.ToFloat64(conversationsEnded))

	before = testutil.ToFloat64(leadsClassified.WithLabelValues("Hot"))
	RecordClassification("Hot")
	assert.Equal(t, before+1, testutil.ToFloat64(leadsClassified.WithLabelValues("Hot")))

	before = testutil.ToFloat64(meetingDrafts)
	RecordMeetingDraft()
	assert.Equal(t, before+1, testutil.ToFloat64(meetingDrafts))

	before = testutil.ToFloat64(meetingEmailsSent)
	RecordMeetingEmailSent()
	assert.Equal(t, before+1, testutil.ToFloat64(meetingEmailsSent))

	before = testutil.ToFloat64(integrationErrors.WithLabelValues("mail"))
	RecordIntegrationError("mail")
	assert.Equal(t, before+1, testutil.ToFloat64(integrationErrors.WithLabelValues("mail")))
}
