package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cazehq/bizcon/internal/entity"
	"github.com/cazehq/bizcon/internal/infra/integration/calendar"
	"github.com/cazehq/bizcon/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateClassification(ctx context.Context, id, summary string, status entity.LeadStatus) error {
	args := m.Called(ctx, id, summary, status)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveMeetingDraft(ctx context.Context, id, emailBody string, info *entity.MeetingProposal) error {
	args := m.Called(ctx, id, emailBody, info)
	return args.Error(0)
}

func (m *MockLeadRepository) MarkMeetingEmailSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) RecordOutreach(ctx context.Context, id string, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

// MockKnowledgeStore
type MockKnowledgeStore struct {
	mock.Mock
}

func (m *MockKnowledgeStore) Query(ctx context.Context, query string, topK int) (string, error) {
	args := m.Called(ctx, query, topK)
	return args.String(0), args.Error(1)
}

func (m *MockKnowledgeStore) Corpus(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockLanguageModel
type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Complete(ctx context.Context, messages []entity.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

// MockCalendarService
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) FreeBusy(ctx context.Context, emails []string, from, to time.Time) (map[string][]calendar.Interval, error) {
	args := m.Called(ctx, emails, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]calendar.Interval), args.Error(1)
}

func (m *MockCalendarService) CreateEvent(ctx context.Context, input calendar.EventInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// MockTranscriptStore
type MockTranscriptStore struct {
	mock.Mock
}

func (m *MockTranscriptStore) Load(leadID string) ([]entity.Message, error) {
	args := m.Called(leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Message), args.Error(1)
}

func (m *MockTranscriptStore) Save(leadID string, messages []entity.Message) error {
	args := m.Called(leadID, messages)
	return args.Error(0)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishClassification(ctx context.Context, payload queue.ClassificationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockOwnerRepository
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) FindByProduct(ctx context.Context, product string) (*entity.Owner, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Owner), args.Error(1)
}
