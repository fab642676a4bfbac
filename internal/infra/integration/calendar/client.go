package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the calendar gateway, a thin proxy over the Google Calendar
// v3 API (freeBusy + events with conferencing).
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) FreeBusy(ctx context.Context, emails []string, from, to time.Time) (map[string][]Interval, error) {
	items := make([]freeBusyCalendar, 0, len(emails))
	for _, e := range emails {
		items = append(items, freeBusyCalendar{ID: e})
	}

	reqBody := freeBusyRequest{
		TimeMin: from.UTC().Format(time.RFC3339),
		TimeMax: to.UTC().Format(time.RFC3339),
		Items:   items,
	}

	var resp freeBusyResponse
	if err := c.post(ctx, "/freeBusy", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("free/busy query failed: %w", err)
	}

	busy := make(map[string][]Interval, len(resp.Calendars))
	for email, cal := range resp.Calendars {
		intervals := make([]Interval, 0, len(cal.Busy))
		for _, b := range cal.Busy {
			intervals = append(intervals, Interval{Start: b.Start, End: b.End})
		}
		busy[email] = intervals
	}
	return busy, nil
}

// CreateEvent creates a 1-hour calendar event with all attendees invited and
// requests a conferencing link. Returns the link, which may be empty if the
// gateway created the event without conferencing.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (string, error) {
	attendees := make([]eventAttendee, 0, len(input.Attendees))
	for _, a := range input.Attendees {
		attendees = append(attendees, eventAttendee{Email: a})
	}

	requestID := "meet-" + input.Start.UTC().Format("20060102T150405")
	reqBody := eventRequest{
		Summary:   input.Summary,
		Start:     eventTime{DateTime: input.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:       eventTime{DateTime: input.End.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		Attendees: attendees,
		ConferenceData: &conferenceData{
			CreateRequest: conferenceCreateRequest{RequestID: requestID},
		},
	}

	var resp eventResponse
	if err := c.post(ctx, "/events", reqBody, &resp); err != nil {
		return "", fmt.Errorf("event creation failed: %w", err)
	}
	return resp.HangoutLink, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar gateway returned %d: %s", resp.StatusCode, string(raw))
	}

	return json.Unmarshal(raw, out)
}
