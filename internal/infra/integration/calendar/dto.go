package calendar

import "time"

// Interval is one busy window from a free/busy query.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Overlaps(start, end time.Time) bool {
	return i.Start.Before(end) && i.End.After(start)
}

type EventInput struct {
	Summary   string
	Start     time.Time
	End       time.Time
	Attendees []string
}

type freeBusyRequest struct {
	TimeMin string             `json:"timeMin"`
	TimeMax string             `json:"timeMax"`
	Items   []freeBusyCalendar `json:"items"`
}

type freeBusyCalendar struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"busy"`
	} `json:"calendars"`
}

type eventRequest struct {
	Summary        string          `json:"summary"`
	Start          eventTime       `json:"start"`
	End            eventTime       `json:"end"`
	Attendees      []eventAttendee `json:"attendees"`
	ConferenceData *conferenceData `json:"conferenceData,omitempty"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventAttendee struct {
	Email string `json:"email"`
}

type conferenceData struct {
	CreateRequest conferenceCreateRequest `json:"createRequest"`
}

type conferenceCreateRequest struct {
	RequestID string `json:"requestId"`
}

type eventResponse struct {
	ID          string `json:"id"`
	HangoutLink string `json:"hangoutLink"`
}
