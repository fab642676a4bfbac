package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFreeBusyParsesBusyIntervals(t *testing.T) {
	var captured freeBusyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/freeBusy", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"calendars": map[string]interface{}{
				"ana@example.com": map[string]interface{}{
					"busy": []map[string]string{
						{"start": "2026-03-02T11:00:00Z", "end": "2026-03-02T12:00:00Z"},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-123")

	from := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	busy, err := client.FreeBusy(context.Background(), []string{"ana@example.com", "sam@company.com"}, from, from.Add(7*24*time.Hour))

	assert.NoError(t, err)
	assert.Len(t, captured.Items, 2)
	assert.Len(t, busy["ana@example.com"], 1)
	assert.Equal(t, time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC), busy["ana@example.com"][0].Start.UTC())
}

func TestCreateEventRequestsConferencing(t *testing.T) {
	var captured eventRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]string{
			"id":          "evt-1",
			"hangoutLink": "https://meet.example.com/abc",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	start := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	link, err := client.CreateEvent(context.Background(), EventInput{
		Summary:   "Scheduled Meeting: DataSense",
		Start:     start,
		End:       start.Add(time.Hour),
		Attendees: []string{"ana@example.com", "sam@company.com"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/abc", link)
	assert.Len(t, captured.Attendees, 2)
	assert.NotNil(t, captured.ConferenceData)
	assert.Equal(t, "meet-20260302T110000", captured.ConferenceData.CreateRequest.RequestID)
}

func TestGatewayErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	_, err := client.FreeBusy(context.Background(), []string{"ana@example.com"}, time.Now(), time.Now().Add(time.Hour))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestIntervalOverlaps(t *testing.T) {
	busy := Interval{
		Start: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}

	assert.True(t, busy.Overlaps(
		time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC),
	))

	// Back-to-back slots do not overlap.
	assert.False(t, busy.Overlaps(
		time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC),
	))
	assert.False(t, busy.Overlaps(
		time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
	))
}
