package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	StatusHot          LeadStatus = "Hot"
	StatusWarm         LeadStatus = "Warm"
	StatusCold         LeadStatus = "Cold"
	StatusNotResponded LeadStatus = "Not Responded"
)

// ValidLeadStatus reports whether s is one of the three classifier tiers.
// "Not Responded" is the default before any conversation, never a classifier output.
func ValidLeadStatus(s LeadStatus) bool {
	return s == StatusHot || s == StatusWarm || s == StatusCold
}

type Lead struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Company     string     `json:"company,omitempty"`
	Email       string     `json:"email"`
	Description string     `json:"description,omitempty"`
	Source      string     `json:"source,omitempty"`
	Status      LeadStatus `json:"status"`

	ChatSummary string `json:"chat_summary,omitempty"`

	PendingMeetingEmail string           `json:"pending_meeting_email,omitempty"`
	PendingMeetingInfo  *MeetingProposal `json:"pending_meeting_info,omitempty"`
	MeetingEmailSent    bool             `json:"meeting_email_sent"`

	Connected bool `json:"connected"`

	EmailSentCount  int        `json:"email_sent_count"`
	LastEmailSentAt *time.Time `json:"last_email_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewLead(name, company, email, description, source string) (*Lead, error) {
	lead := &Lead{
		ID:          uuid.New().String(),
		Name:        name,
		Company:     company,
		Email:       email,
		Description: description,
		Source:      source,
		Status:      StatusNotResponded,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

// HasPendingMeeting reports whether an orchestration draft is waiting for review.
func (l *Lead) HasPendingMeeting() bool {
	return l.PendingMeetingEmail != "" && l.PendingMeetingInfo != nil
}
