package scientia

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/internal/utils"
	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/provider"
)

const ProviderName = "scientia"

// Provider maps the timetabling service's native schema to RawRecord and
// serves the catalog for courses, modules and locations.
type Provider struct {
	client *Client
	// loc is the zone the upstream declares its local timestamps in.
	loc   *time.Location
	clock utils.Clock
}

func NewProvider(client *Client, loc *time.Location, clock utils.Clock) *Provider {
	return &Provider{client: client, loc: loc, clock: clock}
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Kinds() []category.Kind {
	return []category.Kind{category.KindCourse, category.KindModule, category.KindLocation}
}

// FetchEvents retrieves raw records for refs, split per kind as the
// upstream API requires, within the window.
func (p *Provider) FetchEvents(ctx context.Context, refs []category.EntityRef, window provider.Window) ([]provider.RawRecord, error) {
	byKind := make(map[category.Kind][]category.EntityRef)
	for _, ref := range refs {
		byKind[ref.Kind] = append(byKind[ref.Kind], ref)
	}

	var records []provider.RawRecord
	for kind, kindRefs := range byKind {
		typeIdentity, ok := categoryTypes[kind]
		if !ok {
			continue
		}

		identities := make([]string, 0, len(kindRefs))
		refsByIdentity := make(map[string]category.EntityRef, len(kindRefs))
		for _, ref := range kindRefs {
			identities = append(identities, ref.Identity)
			refsByIdentity[ref.Identity] = ref
		}

		key := provider.CacheKey(ProviderName, kindRefs, window)
		payload, err := p.client.FetchEvents(ctx, typeIdentity, identities, window.Start, window.End, key)
		if err != nil {
			return nil, err
		}

		fetchedAt := p.clock.Now().UTC()
		for _, timetable := range payload.CategoryEvents {
			ref, ok := refsByIdentity[timetable.Identity]
			if !ok {
				ref = category.EntityRef{Kind: kind, Identity: timetable.Identity, DisplayName: timetable.Name}
			}
			for _, raw := range timetable.Results {
				record, err := p.adaptEvent(raw, ref, fetchedAt)
				if err != nil {
					log.Warnf("Skipping unadaptable event %s: %v", raw.Identity, err)
					continue
				}
				records = append(records, record)
			}
		}
	}

	return records, nil
}

func (p *Provider) adaptEvent(raw eventPayload, ref category.EntityRef, fetchedAt time.Time) (provider.RawRecord, error) {
	start, err := p.parseTime(raw.StartDateTime)
	if err != nil {
		return provider.RawRecord{}, fmt.Errorf("bad start time %q: %w", raw.StartDateTime, err)
	}
	end, err := p.parseTime(raw.EndDateTime)
	if err != nil {
		return provider.RawRecord{}, fmt.Errorf("bad end time %q: %w", raw.EndDateTime, err)
	}

	record := provider.RawRecord{
		Provider:    ProviderName,
		SourceID:    raw.Identity,
		Name:        raw.Name,
		Description: strings.TrimSpace(raw.Description),
		Start:       start,
		End:         end,
		EventType:   raw.EventType,
		FetchedAt:   fetchedAt,
		EntityRefs:  []category.EntityRef{ref},
	}

	if raw.Location != nil {
		record.Location = *raw.Location
	}
	if raw.LastModified != "" {
		if lastModified, err := p.parseTime(raw.LastModified); err == nil {
			record.LastModified = lastModified
		}
	}

	// Extra properties carry module name, staff and weeks by rank.
	for _, prop := range raw.ExtraProperties {
		switch prop.Rank {
		case 1:
			record.ModuleName = prop.Value
		case 2:
			record.Staff = prop.Value
		case 3:
			record.Weeks = parseWeeks(prop.Value)
		}
	}

	return record, nil
}

// parseTime accepts both zoned and zone-less upstream timestamps. A
// timestamp without an offset is interpreted in the provider's declared
// zone. The result is always UTC; no date arithmetic happens before the
// conversion.
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

// parseWeeks expands a weeks string like "3-7, 9" into week numbers.
// Unintelligible chunks are skipped so one typo cannot void the pattern.
func parseWeeks(value string) []int {
	var weeks []int
	for _, chunk := range strings.Split(value, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		if first, last, ok := strings.Cut(chunk, "-"); ok {
			from, err1 := strconv.Atoi(strings.TrimSpace(first))
			to, err2 := strconv.Atoi(strings.TrimSpace(last))
			if err1 != nil || err2 != nil {
				continue
			}
			for week := from; week <= to; week++ {
				weeks = append(weeks, week)
			}
			continue
		}

		week, err := strconv.Atoi(chunk)
		if err != nil {
			continue
		}
		weeks = append(weeks, week)
	}
	return weeks
}

// Search implements category.Catalog over the cached category listings.
func (p *Provider) Search(ctx context.Context, kind category.Kind, query string, limit int) ([]category.EntityRef, error) {
	refs, err := p.categoryRefs(ctx, kind)
	if err != nil {
		return nil, err
	}
	return category.Rank(refs, query, limit), nil
}

// Resolve implements category.Catalog. Unknown identities are reported
// as ErrNotFound so callers can drop them and continue.
func (p *Provider) Resolve(ctx context.Context, kind category.Kind, identity string) (category.EntityRef, error) {
	refs, err := p.categoryRefs(ctx, kind)
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

func (p *Provider) categoryRefs(ctx context.Context, kind category.Kind) ([]category.EntityRef, error) {
	items, err := p.client.FetchCategoryItems(ctx, kind)
	if err != nil {
		return nil, err
	}
	refs := make([]category.EntityRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, category.EntityRef{
			Kind:        kind,
			Identity:    item.Identity,
			DisplayName: item.Name,
		})
	}
	return refs, nil
}
