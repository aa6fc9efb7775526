package clubsoc

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/internal/utils"
	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/provider"
	"github.com/campussync/campussync/pkg/term"
)

const ProviderName = "clubsoc"

var dayOffsets = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// Provider maps club and society pages to RawRecord. One-off events
// become concrete records; weekly activities become records patterned
// over every term week.
type Provider struct {
	client *Client
	cal    term.Calendar
	// loc is the zone the upstream declares its local timestamps in.
	loc   *time.Location
	clock utils.Clock
}

func NewProvider(client *Client, cal term.Calendar, loc *time.Location, clock utils.Clock) *Provider {
	return &Provider{client: client, cal: cal, loc: loc, clock: clock}
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Kinds() []category.Kind {
	return []category.Kind{category.KindClub, category.KindSociety}
}

// FetchEvents retrieves raw records for refs within the window. Each
// group needs two upstream calls, one for events and one for activities.
func (p *Provider) FetchEvents(ctx context.Context, refs []category.EntityRef, window provider.Window) ([]provider.RawRecord, error) {
	var records []provider.RawRecord
	for _, ref := range refs {
		groupType := string(ref.Kind)
		key := provider.CacheKey(ProviderName, []category.EntityRef{ref}, window)
		fetchedAt := p.clock.Now().UTC()

		events, err := p.client.FetchGroupEvents(ctx, groupType, ref.Identity, key+":events")
		if err != nil {
			return nil, err
		}
		for _, raw := range events {
			record, err := p.adaptEvent(raw, ref, fetchedAt)
			if err != nil {
				log.Warnf("Skipping unadaptable event %q of %s %s: %v", raw.Name, groupType, ref.Identity, err)
				continue
			}
			records = append(records, record)
		}

		activities, err := p.client.FetchGroupActivities(ctx, groupType, ref.Identity, key+":activities")
		if err != nil {
			return nil, err
		}
		for _, raw := range activities {
			record, err := p.adaptActivity(raw, ref, fetchedAt)
			if err != nil {
				log.Warnf("Skipping unadaptable activity %q of %s %s: %v", raw.Name, groupType, ref.Identity, err)
				continue
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// adaptEvent maps a one-off event. The upstream issues no stable event
// key, so the source id is derived from the group and the event's own
// coordinates.
func (p *Provider) adaptEvent(raw eventPayload, ref category.EntityRef, fetchedAt time.Time) (provider.RawRecord, error) {
	start, err := p.parseTime(raw.Start)
	if err != nil {
		return provider.RawRecord{}, fmt.Errorf("bad start time %q: %w", raw.Start, err)
	}
	end, err := p.parseTime(raw.End)
	if err != nil {
		return provider.RawRecord{}, fmt.Errorf("bad end time %q: %w", raw.End, err)
	}

	record := provider.RawRecord{
		Provider:    ProviderName,
		SourceID:    fmt.Sprintf("%s/%s/event/%s/%s", ref.Kind, ref.Identity, raw.Name, start.Format(time.RFC3339)),
		Name:        raw.Name,
		Description: eventDescription(raw),
		Start:       start,
		End:         end,
		EventType:   raw.Type,
		FetchedAt:   fetchedAt,
		EntityRefs:  []category.EntityRef{ref},
	}
	if raw.Location != nil {
		record.Location = *raw.Location
	}
	return record, nil
}

// adaptActivity maps a weekly activity onto a record recurring on every
// term week. The base occurrence is placed in week one on the activity's
// weekday; the upstream timestamp only contributes the time of day.
func (p *Provider) adaptActivity(raw activityPayload, ref category.EntityRef, fetchedAt time.Time) (provider.RawRecord, error) {
	offset, ok := dayOffsets[strings.ToLower(raw.Day)]
	if !ok {
		return provider.RawRecord{}, fmt.Errorf("unknown day %q", raw.Day)
	}

	start, err := p.parseTime(raw.Start)
	if err != nil {
		return provider.RawRecord{}, fmt.Errorf("bad start time %q: %w", raw.Start, err)
	}
	end, err := p.parseTime(raw.End)
	if err != nil {
		return provider.RawRecord{}, fmt.Errorf("bad end time %q: %w", raw.End, err)
	}
	duration := end.Sub(start)
	if duration <= 0 {
		return provider.RawRecord{}, fmt.Errorf("end %q not after start %q", raw.End, raw.Start)
	}

	day := p.cal.WeekStart(1).AddDate(0, 0, offset)
	local := start.In(p.loc)
	base := time.Date(day.Year(), day.Month(), day.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, p.loc).UTC()

	weeks := make([]int, 0, p.cal.Weeks())
	for week := 1; week <= p.cal.Weeks(); week++ {
		weeks = append(weeks, week)
	}

	record := provider.RawRecord{
		Provider:    ProviderName,
		SourceID:    fmt.Sprintf("%s/%s/activity/%s/%s/%s", ref.Kind, ref.Identity, raw.Name, strings.ToLower(raw.Day), local.Format("15:04")),
		Name:        raw.Name,
		Description: raw.Description,
		Start:       base,
		End:         base.Add(duration),
		EventType:   raw.Type,
		Weeks:       weeks,
		FetchedAt:   fetchedAt,
		EntityRefs:  []category.EntityRef{ref},
	}
	if raw.Location != nil {
		record.Location = *raw.Location
	}
	return record, nil
}

func eventDescription(raw eventPayload) string {
	cost := "FREE"
	if raw.Cost > 0 {
		cost = fmt.Sprintf("€%.2f", raw.Cost)
	}
	if raw.Description == "" {
		return "Cost: " + cost
	}
	return fmt.Sprintf("%s\nCost: %s", raw.Description, cost)
}

func (p *Provider) parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, p.loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Search implements category.Catalog over the cached group listings.
func (p *Provider) Search(ctx context.Context, kind category.Kind, query string, limit int) ([]category.EntityRef, error) {
	refs, err := p.groupRefs(ctx, kind)
	if err != nil {
		return nil, err
	}
	return category.Rank(refs, query, limit), nil
}

// Resolve implements category.Catalog. Unknown identities are reported
// as ErrNotFound so callers can drop them and continue.
func (p *Provider) Resolve(ctx context.Context, kind category.Kind, identity string) (category.EntityRef, error) {
	refs, err := p.groupRefs(ctx, kind)
	if err != nil {
		return category.EntityRef{}, err
	}
	for _, ref := range refs {
		if ref.Identity == identity {
			return ref, nil
		}
	}
	return category.EntityRef{}, fmt.Errorf("%w: %s %q", category.ErrNotFound, kind, identity)
}

func (p *Provider) groupRefs(ctx context.Context, kind category.Kind) ([]category.EntityRef, error) {
	groups, err := p.client.FetchGroups(ctx, string(kind))
	if err != nil {
		return nil, err
	}
	refs := make([]category.EntityRef, 0, len(groups))
	for _, group := range groups {
		refs = append(refs, category.EntityRef{
			Kind:        kind,
			Identity:    group.ID,
			DisplayName: group.Name,
		})
	}
	return refs, nil
}
