package entity

type Role string

const (
	RoleContext Role = "context"
	RoleUser    Role = "user"
	RoleAI      Role = "ai"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"message"`
}

type SessionState string

const (
	SessionNotStarted     SessionState = "not_started"
	SessionAwaitingChoice SessionState = "awaiting_continuation_choice"
	SessionActive         SessionState = "active"
	SessionEnded          SessionState = "ended"
)

type ContinueChoice string

const (
	ChoiceNone       ContinueChoice = ""
	ChoiceContinue   ContinueChoice = "continue"
	ChoiceStartFresh ContinueChoice = "start fresh"
)

// ConversationSession holds one lead's in-memory conversation. Messages always
// carry exactly one context message at index 0, followed by alternating
// assistant/user turns.
type ConversationSession struct {
	LeadID         string
	Messages       []Message
	State          SessionState
	ContinueChoice ContinueChoice
}

func NewConversationSession(leadID string) *ConversationSession {
	return &ConversationSession{
		LeadID: leadID,
		State:  SessionNotStarted,
	}
}

// SetContext replaces the single leading context message. The context is
// always singular and always current, never accumulated.
func (s *ConversationSession) SetContext(content string) {
	msg := Message{Role: RoleContext, Content: content}
	if len(s.Messages) == 0 || s.Messages[0].Role != RoleContext {
		s.Messages = append([]Message{msg}, s.Messages...)
		return
	}
	s.Messages[0] = msg
}

func (s *ConversationSession) Append(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Transcript returns the conversation turns without the context message.
func (s *ConversationSession) Transcript() []Message {
	out := make([]Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Role == RoleContext {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Reset discards the in-memory history. The persisted chat summary on the
// lead record is left untouched.
func (s *ConversationSession) Reset() {
	s.Messages = nil
	s.ContinueChoice = ChoiceNone
}
