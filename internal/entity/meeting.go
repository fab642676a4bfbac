package entity

import "time"

// MeetingProposal is the output of one orchestration run. It is immutable once
// created; a new run produces a new proposal and replaces the lead's pending
// fields wholesale.
type MeetingProposal struct {
	Product      string    `json:"product"`
	Responsible  Owner     `json:"responsible"`
	Slot         time.Time `json:"slot"`
	MeetingLink  string    `json:"meeting_link"`
	EmailContent string    `json:"email_content"`
	Sent         bool      `json:"sent"`
}
