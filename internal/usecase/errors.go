package usecase

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// Named failure conditions. Each orchestration step and session transition has
// exactly one of these; callers branch on the code, never on message text.
var (
	ErrLeadNotFound = &DomainError{Code: "LeadNotFound", Message: "lead not found"}

	ErrSessionEnded = &DomainError{Code: "SessionEnded", Message: "conversation has ended; start a new session to talk to this lead again"}

	ErrInvalidContinuationChoice = &DomainError{Code: "InvalidContinuationChoice", Message: "please type 'continue' or 'start fresh'"}

	ErrContentPolicyRejection = &DomainError{Code: "ContentPolicyRejection", Message: "your message was flagged by our content policy; the conversation has ended"}

	ErrNoProductsFound = &DomainError{Code: "NoProductsFound", Message: "no products could be extracted from the company information"}

	ErrNoAvailableSlot = &DomainError{Code: "NoAvailableSlot", Message: "no mutually free slot in the next 7 days"}

	ErrMeetingCreationFailed = &TechnicalError{Code: "MeetingCreationFailed", Message: "calendar event was not created or returned no conferencing link"}

	ErrEmailDispatchFailed = &TechnicalError{Code: "EmailDispatchFailed", Message: "meeting invitation email could not be delivered"}

	ErrNoPendingMeeting = &DomainError{Code: "NoPendingMeeting", Message: "lead has no pending meeting draft to review"}
)

// ErrorCode extracts the named code from a domain or technical error, or
// returns "InternalError" for anything else.
func ErrorCode(err error) string {
	switch e := err.(type) {
	case *DomainError:
		return e.Code
	case *TechnicalError:
		return e.Code
	default:
		return "InternalError"
	}
}
