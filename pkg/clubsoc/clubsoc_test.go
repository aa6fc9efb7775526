package clubsoc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campussync/campussync/internal/cache"
	"github.com/campussync/campussync/internal/utils"
	"github.com/campussync/campussync/pkg/category"
	"github.com/campussync/campussync/pkg/provider"
	"github.com/campussync/campussync/pkg/term"
)

func testCalendar(t *testing.T) term.Calendar {
	t.Helper()
	// 2024-09-23 is a Monday.
	cal, err := term.NewCalendar(time.Date(2024, 9, 23, 0, 0, 0, 0, time.UTC), 33)
	require.NoError(t, err)
	return cal
}

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dublin, err := time.LoadLocation("Europe/Dublin")
	require.NoError(t, err)

	client := NewClient(srv.URL, cache.NewMemoryCache(), 10*time.Minute)
	clock := &utils.MockClock{FixedNow: time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)}
	return NewProvider(client, testCalendar(t), dublin, clock)
}

func groupsHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/society", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{
			{"id": "soc-1", "name": "Games Society", "is_locked": false},
			{"id": "soc-2", "name": "Dormant Society", "is_locked": true},
			{"id": "soc-3", "name": "Drama Society", "is_locked": false},
		}))
	})
}

func TestProvider_Catalog(t *testing.T) {
	p := newTestProvider(t, groupsHandler(t))
	ctx := context.Background()

	t.Run("search skips locked groups", func(t *testing.T) {
		refs, err := p.Search(ctx, category.KindSociety, "society", 10)
		require.NoError(t, err)
		require.Len(t, refs, 2)
		for _, ref := range refs {
			assert.NotEqual(t, "soc-2", ref.Identity)
		}
	})

	t.Run("resolve open group", func(t *testing.T) {
		ref, err := p.Resolve(ctx, category.KindSociety, "soc-1")
		require.NoError(t, err)
		assert.Equal(t, "Games Society", ref.DisplayName)
	})

	t.Run("resolve locked group", func(t *testing.T) {
		_, err := p.Resolve(ctx, category.KindSociety, "soc-2")
		assert.ErrorIs(t, err, category.ErrNotFound)
	})
}

func eventsAndActivitiesHandler(t *testing.T) http.Handler {
	location := "The Venue"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/club/club-1/events":
			require.NoError(t, json.NewEncoder(w).Encode([]eventPayload{
				{
					Name:        "Season Opener",
					Start:       "2024-09-27T19:00:00",
					End:         "2024-09-27T21:00:00",
					Cost:        5,
					Type:        "IN-PERSON",
					Location:    &location,
					Description: "Come along!",
				},
			}))
		case "/club/club-1/activities":
			require.NoError(t, json.NewEncoder(w).Encode([]activityPayload{
				{
					Name:        "Weekly Training",
					Day:         "Wednesday",
					Start:       "2024-09-25T18:00:00",
					End:         "2024-09-25T20:00:00",
					Type:        "IN-PERSON",
					Description: "All welcome",
				},
			}))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
}

func TestProvider_FetchEvents(t *testing.T) {
	p := newTestProvider(t, eventsAndActivitiesHandler(t))

	refs := []category.EntityRef{
		{Kind: category.KindClub, Identity: "club-1", DisplayName: "Archery Club"},
	}
	window := provider.Window{
		Start: time.Date(2024, 9, 23, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	records, err := p.FetchEvents(context.Background(), refs, window)
	require.NoError(t, err)
	require.Len(t, records, 2)

	t.Run("one-off event", func(t *testing.T) {
		event := records[0]
		assert.Equal(t, "clubsoc", event.Provider)
		assert.Equal(t, "Season Opener", event.Name)
		// September in Dublin is IST, one hour ahead of UTC.
		assert.Equal(t, time.Date(2024, 9, 27, 18, 0, 0, 0, time.UTC), event.Start)
		assert.Equal(t, time.Date(2024, 9, 27, 20, 0, 0, 0, time.UTC), event.End)
		assert.Nil(t, event.Weeks)
		assert.Equal(t, "The Venue", event.Location)
		assert.Equal(t, "Come along!\nCost: €5.00", event.Description)
		require.Len(t, event.EntityRefs, 1)
		assert.Equal(t, "club-1", event.EntityRefs[0].Identity)
	})

	t.Run("weekly activity spans the whole term", func(t *testing.T) {
		activity := records[1]
		assert.Equal(t, "Weekly Training", activity.Name)
		// Week one Wednesday, 18:00 Dublin time.
		assert.Equal(t, time.Date(2024, 9, 25, 17, 0, 0, 0, time.UTC), activity.Start)
		assert.Equal(t, time.Date(2024, 9, 25, 19, 0, 0, 0, time.UTC), activity.End)
		require.Len(t, activity.Weeks, 33)
		assert.Equal(t, 1, activity.Weeks[0])
		assert.Equal(t, 33, activity.Weeks[32])
	})

	t.Run("source ids are deterministic", func(t *testing.T) {
		again, err := p.FetchEvents(context.Background(), refs, window)
		require.NoError(t, err)
		require.Len(t, again, 2)
		assert.Equal(t, records[0].SourceID, again[0].SourceID)
		assert.Equal(t, records[1].SourceID, again[1].SourceID)
	})
}

func TestProvider_FetchEvents_UpstreamFailure(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	refs := []category.EntityRef{{Kind: category.KindClub, Identity: "club-1"}}
	window := provider.Window{
		Start: time.Date(2024, 9, 23, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	_, err := p.FetchEvents(context.Background(), refs, window)
	assert.ErrorIs(t, err, category.ErrUpstreamUnavailable)
}

func TestAdaptActivity_UnknownDay(t *testing.T) {
	p := newTestProvider(t, http.NotFoundHandler())
	_, err := p.adaptActivity(activityPayload{
		Name:  "Mystery",
		Day:   "someday",
		Start: "2024-09-25T18:00:00",
		End:   "2024-09-25T20:00:00",
	}, category.EntityRef{Kind: category.KindClub, Identity: "club-1"}, time.Now())
	assert.Error(t, err)
}
