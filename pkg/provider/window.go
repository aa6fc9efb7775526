package provider

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/campussync/campussync/pkg/category"
)

// ErrInvalidWindow is returned for windows where end is not after start.
// It is checked before any fetch is attempted.
var ErrInvalidWindow = errors.New("window end must be after start")

// cacheKeyGranularity rounds query windows for cache keys so nearby
// windows share cached upstream responses.
const cacheKeyGranularity = time.Hour

// Window is a half-open [Start, End) query time range in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: start.UTC(), End: end.UTC()}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// CacheKey builds the cache key for one provider fetch: provider name,
// sorted entity identities and the window rounded to a fixed granularity.
func CacheKey(providerName string, refs []category.EntityRef, window Window) string {
	identities := make([]string, 0, len(refs))
	for _, ref := range refs {
		identities = append(identities, string(ref.Kind)+":"+ref.Identity)
	}
	sort.Strings(identities)

	start := window.Start.Truncate(cacheKeyGranularity)
	end := window.End.Truncate(cacheKeyGranularity)

	var b strings.Builder
	b.WriteString("fetch:")
	b.WriteString(providerName)
	b.WriteString(":")
	b.WriteString(strings.Join(identities, ","))
	b.WriteString(":")
	b.WriteString(start.Format(time.RFC3339))
	b.WriteString("/")
	b.WriteString(end.Format(time.RFC3339))
	return b.String()
}
