// Package scientia adapts the university timetabling service (a Scientia
// publish API) to the engine's provider and catalog contracts.
package scientia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/internal/cache"
	"github.com/campussync/campussync/pkg/category"
)

// Category type identities issued by the upstream institution.
const (
	categoryTypeCourses   = "241e4d36-60e0-49f8-b27e-99416745d98d"
	categoryTypeModules   = "525fe79b-73c3-4b5c-8186-83c652b3adcc"
	categoryTypeLocations = "1e042cb1-547d-41d4-ae93-a1f2c3d34538"
)

var categoryTypes = map[category.Kind]string{
	category.KindCourse:   categoryTypeCourses,
	category.KindModule:   categoryTypeModules,
	category.KindLocation: categoryTypeLocations,
}

// catalogTTL caches the full category listings, which change rarely.
const catalogTTL = 24 * time.Hour

type Client struct {
	baseURL     string
	institution string
	httpClient  *http.Client
	cache       cache.Cache
	eventsTTL   time.Duration
}

func NewClient(baseURL, institution string, store cache.Cache, eventsTTL time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		institution: institution,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		cache:       store,
		eventsTTL:   eventsTTL,
	}
}

type categoryItemPayload struct {
	Identity    string `json:"Identity"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

type categoryPagePayload struct {
	TotalPages int                   `json:"TotalPages"`
	Count      int                   `json:"Count"`
	Results    []categoryItemPayload `json:"Results"`
}

type extraPropertyPayload struct {
	Rank  int    `json:"Rank"`
	Value string `json:"Value"`
}

type eventPayload struct {
	Identity        string                 `json:"Identity"`
	Name            string                 `json:"Name"`
	Description     string                 `json:"Description"`
	StartDateTime   string                 `json:"StartDateTime"`
	EndDateTime     string                 `json:"EndDateTime"`
	Location        *string                `json:"Location"`
	EventType       string                 `json:"EventType"`
	LastModified    string                 `json:"LastModified"`
	ExtraProperties []extraPropertyPayload `json:"ExtraProperties"`
}

type categoryEventsPayload struct {
	Identity string         `json:"Identity"`
	Name     string         `json:"Name"`
	Results  []eventPayload `json:"Results"`
}

type eventsResponsePayload struct {
	CategoryEvents []categoryEventsPayload `json:"CategoryEvents"`
}

// post issues one request against the upstream API. Every endpoint is a
// POST with anonymous authorization, even reads.
func (c *Client) post(ctx context.Context, path string, params url.Values, body any) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, path)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, reqBody)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Authorization", "Anonymous")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return nil, fmt.Errorf("%w: %v", category.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: timetable API returned status %d", category.ErrUpstreamUnavailable, resp.StatusCode)
		log.Error(err)
		return nil, err
	}

	return io.ReadAll(resp.Body)
}

// fetchCategoryPage retrieves one page of the category listing.
func (c *Client) fetchCategoryPage(ctx context.Context, typeIdentity, query string, page int) (categoryPagePayload, error) {
	params := url.Values{}
	params.Set("pageNumber", strconv.Itoa(page))
	params.Set("query", query)

	path := fmt.Sprintf("CategoryTypes/%s/Categories/FilterWithCache/%s", typeIdentity, c.institution)
	data, err := c.post(ctx, path, params, nil)
	if err != nil {
		return categoryPagePayload{}, err
	}

	var payload categoryPagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Errorf("Failed to decode category response: %v", err)
		return categoryPagePayload{}, err
	}
	return payload, nil
}

// FetchCategoryItems retrieves the full category listing for kind,
// following pagination. The result is served read-through from the cache
// since listings change rarely.
func (c *Client) FetchCategoryItems(ctx context.Context, kind category.Kind) ([]categoryItemPayload, error) {
	typeIdentity, ok := categoryTypes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", category.ErrUnknownKind, kind)
	}

	cacheKey := "scientia:category:" + typeIdentity
	if cached, ok := c.cache.Get(ctx, cacheKey); ok {
		var items []categoryItemPayload
		if err := json.Unmarshal(cached, &items); err == nil {
			return items, nil
		}
		log.Warnf("Discarding undecodable cached category listing for %s", kind)
	}

	first, err := c.fetchCategoryPage(ctx, typeIdentity, "", 1)
	if err != nil {
		return nil, err
	}
	items := first.Results

	for page := 2; page <= first.TotalPages; page++ {
		next, err := c.fetchCategoryPage(ctx, typeIdentity, "", page)
		if err != nil {
			return nil, err
		}
		items = append(items, next.Results...)
	}

	if encoded, err := json.Marshal(items); err == nil {
		c.cache.Set(ctx, cacheKey, encoded, catalogTTL)
	}
	return items, nil
}

// FetchEvents retrieves raw event payloads for the given category
// identities within the window, read-through cached under key.
func (c *Client) FetchEvents(ctx context.Context, typeIdentity string, identities []string, start, end time.Time, key string) (eventsResponsePayload, error) {
	if cached, ok := c.cache.Get(ctx, key); ok {
		var payload eventsResponsePayload
		if err := json.Unmarshal(cached, &payload); err == nil {
			return payload, nil
		}
		log.Warnf("Discarding undecodable cached events response for %s", key)
	}

	params := url.Values{}
	params.Set("startRange", start.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("endRange", end.UTC().Format("2006-01-02T15:04:05Z"))

	type dayOfWeek struct {
		DayOfWeek int `json:"DayOfWeek"`
	}
	body := map[string]any{
		"ViewOptions": map[string]any{
			"Days": []dayOfWeek{{1}, {2}, {3}, {4}, {5}},
		},
		"CategoryTypesWithIdentities": []map[string]any{
			{
				"CategoryTypeIdentity": typeIdentity,
				"CategoryIdentities":   identities,
			},
		},
	}

	path := fmt.Sprintf("CategoryTypes/Categories/Events/Filter/%s", c.institution)
	data, err := c.post(ctx, path, params, body)
	if err != nil {
		return eventsResponsePayload{}, err
	}

	var payload eventsResponsePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Errorf("Failed to decode events response: %v", err)
		return eventsResponsePayload{}, err
	}

	c.cache.Set(ctx, key, data, c.eventsTTL)
	return payload, nil
}
