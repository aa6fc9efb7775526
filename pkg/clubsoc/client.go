// Package clubsoc adapts the clubs and societies site to the engine's
// provider and catalog contracts.
package clubsoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/internal/cache"
	"github.com/campussync/campussync/pkg/category"
)

// catalogTTL caches the group listings, which change rarely.
const catalogTTL = 24 * time.Hour

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	eventsTTL  time.Duration
}

func NewClient(baseURL string, store cache.Cache, eventsTTL time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      store,
		eventsTTL:  eventsTTL,
	}
}

type groupPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsLocked bool   `json:"is_locked"`
}

type eventPayload struct {
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Cost        float64 `json:"cost"`
	Capacity    *int    `json:"capacity"`
	Type        string  `json:"type"`
	Location    *string `json:"location"`
	Description string  `json:"description"`
}

type activityPayload struct {
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	Day         string  `json:"day"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Capacity    *int    `json:"capacity"`
	Type        string  `json:"type"`
	Location    *string `json:"location"`
	Description string  `json:"description"`
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/%s", c.baseURL, path), nil)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return nil, fmt.Errorf("%w: %v", category.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: clubs and societies API returned status %d", category.ErrUpstreamUnavailable, resp.StatusCode)
		log.Error(err)
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

// getCached wraps get with read-through caching of the raw response.
func (c *Client) getCached(ctx context.Context, path, key string, ttl time.Duration, out any) error {
	if cached, ok := c.cache.Get(ctx, key); ok {
		if err := json.Unmarshal(cached, out); err == nil {
			return nil
		}
		log.Warnf("Discarding undecodable cached response for %s", key)
	}

	data, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Errorf("Failed to decode response for %s: %v", path, err)
		return err
	}

	c.cache.Set(ctx, key, data, ttl)
	return nil
}

// FetchGroups retrieves the group listing for groupType ("club" or
// "society"), dropping locked groups since their pages carry no events.
func (c *Client) FetchGroups(ctx context.Context, groupType string) ([]groupPayload, error) {
	var groups []groupPayload
	key := "clubsoc:groups:" + groupType
	if err := c.getCached(ctx, groupType, key, catalogTTL, &groups); err != nil {
		return nil, err
	}

	open := groups[:0]
	for _, group := range groups {
		if group.IsLocked {
			continue
		}
		open = append(open, group)
	}
	return open, nil
}

// FetchGroupEvents retrieves the one-off events of one group, cached
// under key.
func (c *Client) FetchGroupEvents(ctx context.Context, groupType, id, key string) ([]eventPayload, error) {
	var events []eventPayload
	path := fmt.Sprintf("%s/%s/events", groupType, id)
	if err := c.getCached(ctx, path, key, c.eventsTTL, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchGroupActivities retrieves the weekly activities of one group,
// cached under key.
func (c *Client) FetchGroupActivities(ctx context.Context, groupType, id, key string) ([]activityPayload, error) {
	var activities []activityPayload
	path := fmt.Sprintf("%s/%s/activities", groupType, id)
	if err := c.getCached(ctx, path, key, c.eventsTTL, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}
