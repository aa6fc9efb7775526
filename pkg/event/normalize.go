package event

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/campussync/campussync/pkg/provider"
)

// ErrMalformedRecord means a single upstream record is missing the
// required minimal subset. The record is skipped and counted; the rest of
// the response proceeds.
var ErrMalformedRecord = errors.New("malformed upstream record")

// Normalize converts one provider-neutral record into a canonical event
// template. Title parsing may fail gracefully; the raw title then remains
// the display fallback. Identity is assigned later, during expansion.
func Normalize(record provider.RawRecord) (CanonicalEvent, error) {
	if record.SourceID == "" {
		return CanonicalEvent{}, fmt.Errorf("%w: missing source id", ErrMalformedRecord)
	}
	if record.Start.IsZero() || record.End.IsZero() {
		return CanonicalEvent{}, fmt.Errorf("%w: missing start or end time", ErrMalformedRecord)
	}
	if !record.End.After(record.Start) {
		return CanonicalEvent{}, fmt.Errorf("%w: end %s not after start %s",
			ErrMalformedRecord, record.End, record.Start)
	}

	ev := CanonicalEvent{
		Provider:           record.Provider,
		SourceID:           record.SourceID,
		Start:              record.Start.UTC(),
		End:                record.End.UTC(),
		AssociatedEntities: record.EntityRefs,
		Name:               record.Name,
		Description:        record.Description,
		ParsedNames:        ParseName(record.Name),
		Staff:              record.Staff,
		ModuleName:         record.ModuleName,
		EventType:          record.EventType,
		Weeks:              record.Weeks,
		LastModified:       record.LastModified.UTC(),
		FetchedAt:          record.FetchedAt.UTC(),
	}

	ev.GroupName = ParseGroupName(record.Name, record.Description)
	if ev.GroupName == "" && len(ev.ParsedNames) > 0 && ev.ParsedNames[0].Group > 0 {
		// Coded titles carry the group as a trailing number.
		ev.GroupName = strconv.Itoa(ev.ParsedNames[0].Group)
	}

	if record.Location != "" {
		ev.Locations = ParseLocations(record.Location)
	}

	ev.Display = BuildDisplay(ev)
	return ev, nil
}
