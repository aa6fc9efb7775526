package feed

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campussync/campussync/internal/utils"
	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/event"
	"github.com/campussync/campussync/pkg/provider"
)

func TestFormatFromString(t *testing.T) {
	testCases := []struct {
		input string
		want  Format
	}{
		{input: "", want: FormatJSON},
		{input: "json", want: FormatJSON},
		{input: "JSON", want: FormatJSON},
		{input: "ical", want: FormatICal},
		{input: "ics", want: FormatICal},
		{input: "xml", want: FormatUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatFromString(tc.input))
		})
	}
}

func TestFormat_ContentType(t *testing.T) {
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "text/calendar", FormatICal.ContentType())
}

func sampleEvents() []event.CanonicalEvent {
	return []event.CanonicalEvent{
		{
			Identity: event.Identity("scientia", "event-1", 1),
			Provider: "scientia",
			SourceID: "event-1",
			Start:    time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			End:      time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
			AssociatedEntities: []category.EntityRef{
				{Kind: category.KindModule, Identity: "module-1", DisplayName: "CA101"},
			},
			Name:         "CA101[1]OC/L1/01",
			ModuleName:   "CA101[1] Computing Fundamentals",
			Weeks:        []int{1, 2, 3},
			LastModified: time.Date(2024, 12, 20, 8, 30, 0, 0, time.UTC),
			Display: event.Display{
				Summary:      "CA101 Computing Fundamentals (Lecture)",
				Location:     "L129",
				LocationLong: "L129 (McNulty Building, Glasnevin)",
				Description:  "Lecture, On Campus",
			},
		},
	}
}

func TestToJSON_StructuralOnly(t *testing.T) {
	data, err := ToJSON(sampleEvents(), false, nil)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	events, ok := decoded["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 1)

	first := events[0].(map[string]any)
	assert.Contains(t, first, "identity")
	assert.Contains(t, first, "start")
	assert.Contains(t, first, "associated_entities")
	assert.NotContains(t, first, "display")
	assert.NotContains(t, first, "module_name")
	assert.NotContains(t, decoded, "warnings")
}

func TestToJSON_WithDisplay(t *testing.T) {
	warnings := []provider.Warning{{Provider: "clubsoc", Message: "request timed out"}}
	data, err := ToJSON(sampleEvents(), true, warnings)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	first := decoded["events"].([]any)[0].(map[string]any)
	display := first["display"].(map[string]any)
	assert.Equal(t, "CA101 Computing Fundamentals (Lecture)", display["summary"])
	assert.Equal(t, "CA101[1] Computing Fundamentals", first["module_name"])

	warns := decoded["warnings"].([]any)
	require.Len(t, warns, 1)
	assert.Equal(t, "clubsoc", warns[0].(map[string]any)["provider"])
}

func TestToJSON_EmptySet(t *testing.T) {
	data, err := ToJSON(nil, true, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"events": []}`, string(data))
}

func TestToICal(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}
	serialized := ToICal(sampleEvents(), clock)

	assert.Contains(t, serialized, "METHOD:PUBLISH")
	assert.Contains(t, serialized, "PRODID:-//campussync//CampusSync "+Version+"//EN")
	assert.Contains(t, serialized, "UID:"+sampleEvents()[0].Identity)
	assert.Contains(t, serialized, "DTSTART:20250106T090000Z")
	assert.Contains(t, serialized, "DTEND:20250106T100000Z")
	assert.Contains(t, serialized, "SUMMARY:CA101 Computing Fundamentals (Lecture)")
	assert.Contains(t, serialized, "LAST-MODIFIED:20241220T083000Z")
	assert.Contains(t, serialized, "CLASS:PUBLIC")

	// Content lines must be CRLF-delimited per RFC 5545.
	assert.Contains(t, serialized, "BEGIN:VCALENDAR\r\n")
	assert.NotRegexp(t, `[^\r]\nBEGIN:VEVENT`, serialized)
}

func TestToICal_RoundTripStability(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}
	first := ToICal(sampleEvents(), clock)
	second := ToICal(sampleEvents(), clock)
	assert.Equal(t, first, second)

	// A later generation timestamp only changes DTSTAMP lines.
	clock.Advance(24 * time.Hour)
	third := ToICal(sampleEvents(), clock)
	assert.NotEqual(t, first, third)

	strip := func(s string) string {
		var kept []string
		for _, line := range strings.Split(s, "\r\n") {
			if strings.HasPrefix(line, "DTSTAMP") {
				continue
			}
			kept = append(kept, line)
		}
		return strings.Join(kept, "\r\n")
	}
	assert.Equal(t, strip(first), strip(third))
}
