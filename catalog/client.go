package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"servicemap/geo"
)

const publicPrefix = "/api/v1/public"

// Query describes one services-in-bounds request. Bounds are the buffered
// viewport bounds; filters select categories and time constraints.
type Query struct {
	Bounds  geo.Bounds
	Filters FilterState
}

// Client talks to the service catalog backend. The backend is an opaque
// collaborator: the client only encodes requests and classifies failures.
type Client struct {
	baseURL string
	http    *http.Client
	limit   int

	// User location, sent as center_lat/center_lng so server-side
	// distance annotation stays stable while the viewport pans.
	centerLat, centerLng float64
	hasCenter            bool

	// Slugs excluded when no category is selected. Omitting the
	// parameter entirely lets the server apply its own default list.
	exclude []string

	logf func(string, ...any)
}

// NewClient returns a catalog client for the given base URL
// (scheme://host, no path).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limit:   75,
		logf:    log.Printf,
	}
}

// SetUserLocation fixes the center used for distance annotation.
func (c *Client) SetUserLocation(lat, lng float64) {
	c.centerLat, c.centerLng = lat, lng
	c.hasCenter = true
}

// SetLimit overrides the per-request result cap.
func (c *Client) SetLimit(n int) {
	if n > 0 {
		c.limit = n
	}
}

// SetExcludeTypes sets category slugs to exclude when no category filter
// is active.
func (c *Client) SetExcludeTypes(slugs ...string) {
	c.exclude = append([]string(nil), slugs...)
}

// SetLogf redirects progress messages, mainly for tests.
func (c *Client) SetLogf(logf func(string, ...any)) {
	if logf != nil {
		c.logf = logf
	}
}

// FetchServices requests all service locations inside the given bounds.
// Cancellation of ctx surfaces as context.Canceled; other failures come
// back as *FetchError.
func (c *Client) FetchServices(ctx context.Context, q Query) ([]ServiceRecord, error) {
	params := url.Values{}
	params.Set("min_lat", formatCoord(q.Bounds.MinLat))
	params.Set("max_lat", formatCoord(q.Bounds.MaxLat))
	params.Set("min_lng", formatCoord(q.Bounds.MinLon))
	params.Set("max_lng", formatCoord(q.Bounds.MaxLon))
	params.Set("limit", strconv.Itoa(c.limit))
	if c.hasCenter {
		params.Set("center_lat", formatCoord(c.centerLat))
		params.Set("center_lng", formatCoord(c.centerLng))
	}
	if len(q.Filters.Categories) > 0 {
		for _, slug := range q.Filters.Categories {
			params.Add("service_types", slug)
		}
	} else {
		for _, slug := range c.exclude {
			params.Add("exclude_service_types", slug)
		}
	}
	if q.Filters.OpenNow {
		params.Set("open_now", "true")
	}
	if q.Filters.OpenToday {
		params.Set("open_today", "true")
	}

	var records []ServiceRecord
	if err := c.getJSON(ctx, publicPrefix+"/services/in-bounds?"+params.Encode(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Categories fetches the category metadata used for filters and marker
// colors. Called once at startup; not part of the viewport engine.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.getJSON(ctx, publicPrefix+"/service-types", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ReportIssue submits a problem report about a location. The endpoint is
// rate limited server-side, independently of the map engine.
func (c *Client) ReportIssue(ctx context.Context, report IssueReport) (IssueReceipt, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return IssueReceipt{}, fmt.Errorf("encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+publicPrefix+"/issues/report", bytes.NewReader(body))
	if err != nil {
		return IssueReceipt{}, fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if IsCanceled(err) {
			return IssueReceipt{}, err
		}
		return IssueReceipt{}, &FetchError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return IssueReceipt{}, statusError(resp.StatusCode)
	}

	var receipt IssueReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return IssueReceipt{}, fmt.Errorf("decode report receipt: %w", err)
	}
	return receipt, nil
}

// Healthy probes the backend health endpoint. Used by the connectivity
// watcher; a failed probe is not logged as an error because offline is an
// expected state.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if IsCanceled(err) {
			return err
		}
		return &FetchError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
