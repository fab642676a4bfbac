package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters, incremented from the usecase layer regardless of whether a
// flow entered over HTTP or through the classification worker.
var (
	conversationsEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_ended_total",
			Help: "Total number of conversations that reached the terminal phrase",
		},
	)

	leadsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_classified_total",
			Help: "Total number of lead classifications by resulting status",
		},
		[]string{"status"},
	)

	meetingDrafts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meeting_drafts_total",
			Help: "Total number of meeting drafts composed",
		},
	)

	meetingEmailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meeting_emails_sent_total",
			Help: "Total number of meeting invitations dispatched",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

func RecordConversationEnded() {
	conversationsEnded.Inc()
}

func RecordClassification(status string) {
	leadsClassified.WithLabelValues(status).Inc()
}

func RecordMeetingDraft() {
	meetingDrafts.Inc()
}

func RecordMeetingEmailSent() {
	meetingEmailsSent.Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
