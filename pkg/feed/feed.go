// Package feed renders a merged event set as a JSON payload for polling
// clients or as an iCalendar feed for subscription clients.
package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/campussync/campussync/internal/utils"
	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/event"
	"github.com/campussync/campussync/pkg/provider"
)

// Version is stamped into the iCalendar PRODID. Kept stable within a
// release so re-serialized feeds stay byte-identical for diffing clients.
const Version = "1.0.0"

// Format selects the serialization of a feed response.
type Format string

const (
	FormatJSON    Format = "json"
	FormatICal    Format = "ical"
	FormatUnknown Format = ""
)

// FormatFromString parses the format query parameter. Empty defaults to
// JSON; anything unrecognized is FormatUnknown.
func FormatFromString(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON
	case "ical", "ics":
		return FormatICal
	default:
		return FormatUnknown
	}
}

// ContentType returns the MIME type a response in this format carries.
func (f Format) ContentType() string {
	if f == FormatICal {
		return "text/calendar"
	}
	return "application/json"
}

type jsonEvent struct {
	Identity           string               `json:"identity"`
	Start              time.Time            `json:"start"`
	End                time.Time            `json:"end"`
	AssociatedEntities []category.EntityRef `json:"associated_entities"`

	Name        string             `json:"name,omitempty"`
	Description string             `json:"description,omitempty"`
	ParsedNames []event.ParsedName `json:"parsed_names,omitempty"`
	GroupName   string             `json:"group_name,omitempty"`
	Staff       string             `json:"staff,omitempty"`
	ModuleName  string             `json:"module_name,omitempty"`
	EventType   string             `json:"event_type,omitempty"`
	Weeks       []int              `json:"weeks,omitempty"`
	Display     *event.Display     `json:"display,omitempty"`
}

type jsonResponse struct {
	Events   []jsonEvent        `json:"events"`
	Warnings []provider.Warning `json:"warnings,omitempty"`
}

// ToJSON serializes events. With display false only the structural
// fields are emitted; with display true the descriptive fields and the
// precomputed display block are included.
func ToJSON(events []event.CanonicalEvent, display bool, warnings []provider.Warning) ([]byte, error) {
	out := jsonResponse{
		Events:   make([]jsonEvent, 0, len(events)),
		Warnings: warnings,
	}

	for i := range events {
		ev := &events[i]
		item := jsonEvent{
			Identity:           ev.Identity,
			Start:              ev.Start,
			End:                ev.End,
			AssociatedEntities: ev.AssociatedEntities,
		}
		if display {
			item.Name = ev.Name
			item.Description = ev.Description
			item.ParsedNames = ev.ParsedNames
			item.GroupName = ev.GroupName
			item.Staff = ev.Staff
			item.ModuleName = ev.ModuleName
			item.EventType = ev.EventType
			item.Weeks = ev.Weeks
			item.Display = &ev.Display
		}
		out.Events = append(out.Events, item)
	}

	return json.Marshal(out)
}

// ToICal serializes events as an iCalendar feed. Everything except the
// DTSTAMP generation timestamps is a pure function of the input, so
// identical event sets serialize byte-identically.
func ToICal(events []event.CanonicalEvent, clock utils.Clock) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//campussync//CampusSync %s//EN", Version))
	cal.SetVersion("2.0")

	stamp := clock.Now().UTC()
	for i := range events {
		ev := &events[i]
		item := cal.AddEvent(ev.Identity)
		item.SetDtStampTime(stamp)
		item.SetStartAt(ev.Start.UTC())
		item.SetEndAt(ev.End.UTC())
		item.SetSummary(ev.Display.Summary)
		if ev.Display.Description != "" {
			item.SetDescription(ev.Display.Description)
		}
		if ev.Display.LocationLong != "" {
			item.SetLocation(ev.Display.LocationLong)
		}
		if !ev.LastModified.IsZero() {
			item.SetModifiedAt(ev.LastModified.UTC())
		}
		item.SetClass(ical.ClassificationPublic)
	}

	// RFC 5545 requires CRLF line endings; the library defaults to bare LF.
	return cal.Serialize(ical.WithNewLineWindows)
}
