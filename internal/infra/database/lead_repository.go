package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cazehq/bizcon/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, name, company, email, description, source, status,
	chat_summary, pending_meeting_email, pending_meeting_info,
	meeting_email_sent, connected, email_sent_count, last_email_sent_at,
	created_at, updated_at`

// FindByID returns (nil, nil) when no lead matches the id.
func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// Create appends a lead. Duplicate ids are resolved by keeping the latest row.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			email = EXCLUDED.email,
			description = EXCLUDED.description,
			source = EXCLUDED.source,
			updated_at = NOW()
	`

	info, err := marshalMeetingInfo(lead.PendingMeetingInfo)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		lead.ID, lead.Name, nullString(lead.Company), lead.Email,
		nullString(lead.Description), nullString(lead.Source), string(lead.Status),
		nullString(lead.ChatSummary), nullString(lead.PendingMeetingEmail), info,
		lead.MeetingEmailSent, lead.Connected, lead.EmailSentCount, lead.LastEmailSentAt,
	)
	return err
}

// Update rewrites the full row for one id and never touches any other row.
func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			name = $2, company = $3, email = $4, description = $5, source = $6,
			status = $7, chat_summary = $8, pending_meeting_email = $9,
			pending_meeting_info = $10, meeting_email_sent = $11, connected = $12,
			email_sent_count = $13, last_email_sent_at = $14, updated_at = NOW()
		WHERE id = $1
	`

	info, err := marshalMeetingInfo(lead.PendingMeetingInfo)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query,
		lead.ID, lead.Name, nullString(lead.Company), lead.Email,
		nullString(lead.Description), nullString(lead.Source), string(lead.Status),
		nullString(lead.ChatSummary), nullString(lead.PendingMeetingEmail), info,
		lead.MeetingEmailSent, lead.Connected, lead.EmailSentCount, lead.LastEmailSentAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res, lead.ID)
}

func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY source, created_at`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) UpdateClassification(ctx context.Context, id, summary string, status entity.LeadStatus) error {
	query := `
		UPDATE leads SET chat_summary = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, summary, string(status))
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *LeadRepository) SaveMeetingDraft(ctx context.Context, id, emailBody string, info *entity.MeetingProposal) error {
	query := `
		UPDATE leads SET
			pending_meeting_email = $2, pending_meeting_info = $3,
			meeting_email_sent = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	raw, err := marshalMeetingInfo(info)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query, id, emailBody, raw)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *LeadRepository) MarkMeetingEmailSent(ctx context.Context, id string) error {
	query := `
		UPDATE leads SET
			meeting_email_sent = TRUE,
			pending_meeting_info = jsonb_set(pending_meeting_info, '{sent}', 'true'),
			updated_at = NOW()
		WHERE id = $1 AND pending_meeting_info IS NOT NULL
	`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *LeadRepository) RecordOutreach(ctx context.Context, id string, sentAt time.Time) error {
	query := `
		UPDATE leads SET
			email_sent_count = email_sent_count + 1,
			last_email_sent_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, sentAt)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead          entity.Lead
		company       sql.NullString
		description   sql.NullString
		source        sql.NullString
		status        string
		chatSummary   sql.NullString
		pendingEmail  sql.NullString
		pendingInfo   []byte
		lastEmailSent sql.NullTime
	)

	err := row.Scan(
		&lead.ID, &lead.Name, &company, &lead.Email, &description, &source,
		&status, &chatSummary, &pendingEmail, &pendingInfo,
		&lead.MeetingEmailSent, &lead.Connected, &lead.EmailSentCount,
		&lastEmailSent, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Company = company.String
	lead.Description = description.String
	lead.Source = source.String
	lead.Status = entity.LeadStatus(status)
	lead.ChatSummary = chatSummary.String
	lead.PendingMeetingEmail = pendingEmail.String
	if lastEmailSent.Valid {
		t := lastEmailSent.Time
		lead.LastEmailSentAt = &t
	}

	if len(pendingInfo) > 0 {
		var info entity.MeetingProposal
		if err := json.Unmarshal(pendingInfo, &info); err != nil {
			return nil, fmt.Errorf("corrupt pending_meeting_info for lead %s: %w", lead.ID, err)
		}
		lead.PendingMeetingInfo = &info
	}

	return &lead, nil
}

func marshalMeetingInfo(info *entity.MeetingProposal) ([]byte, error) {
	if info == nil {
		return nil, nil
	}
	return json.Marshal(info)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("lead %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
