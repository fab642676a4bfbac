package usecase

import (
	"context"
	"time"

	"github.com/cazehq/bizcon/internal/entity"
	"github.com/cazehq/bizcon/internal/infra/integration/calendar"
	"github.com/cazehq/bizcon/internal/infra/queue"
)

// LanguageModel issues one chat completion over an ordered message sequence.
// Content-policy rejections surface as llm.ErrContentFiltered.
type LanguageModel interface {
	Complete(ctx context.Context, messages []entity.Message) (string, error)
}

// KnowledgeStore is the retrieval sidecar. Query returns the top-matching
// context snippets for a free-form query; Corpus returns the whole company
// document set, used for product extraction.
type KnowledgeStore interface {
	Query(ctx context.Context, query string, topK int) (string, error)
	Corpus(ctx context.Context) (string, error)
}

// CalendarService covers the two calls the orchestrator needs: a free/busy
// window for both parties and event creation with a conferencing link.
type CalendarService interface {
	FreeBusy(ctx context.Context, emails []string, from, to time.Time) (map[string][]calendar.Interval, error)
	CreateEvent(ctx context.Context, input calendar.EventInput) (string, error)
}

type Mailer interface {
	Send(to, subject, body string) error
}

type LeadRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	Create(ctx context.Context, lead *entity.Lead) error
	Update(ctx context.Context, lead *entity.Lead) error
	List(ctx context.Context) ([]*entity.Lead, error)

	// UpdateClassification persists the interest signals for one lead, keyed
	// by id. A missing id returns ErrLeadNotFound without touching any row.
	UpdateClassification(ctx context.Context, id, summary string, status entity.LeadStatus) error

	// SaveMeetingDraft replaces the pending draft wholesale and resets
	// meeting_email_sent to false.
	SaveMeetingDraft(ctx context.Context, id, emailBody string, info *entity.MeetingProposal) error

	MarkMeetingEmailSent(ctx context.Context, id string) error

	// RecordOutreach bumps the invitation counters after a successful send.
	RecordOutreach(ctx context.Context, id string, sentAt time.Time) error
}

type OwnerRepositoryInterface interface {
	// FindByProduct returns (nil, nil) when no owner is configured for the
	// product; errors are reserved for storage failures.
	FindByProduct(ctx context.Context, product string) (*entity.Owner, error)
}

// TranscriptStore persists one transcript file per lead ID, rewritten after
// every turn.
type TranscriptStore interface {
	Load(leadID string) ([]entity.Message, error)
	Save(leadID string, messages []entity.Message) error
}

type QueueProducerInterface interface {
	PublishClassification(ctx context.Context, payload queue.ClassificationPayload) error
}
