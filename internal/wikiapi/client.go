// Package wikiapi is a small sequential client for the MediaWiki action API.
package wikiapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"methodswiki/wikigraph/internal/logger"
)

// PageRef is one entry of list=allpages.
type PageRef struct {
	PageID int64  `json:"pageid"`
	NS     int    `json:"ns"`
	Title  string `json:"title"`
}

// Params configures a Client.
type Params struct {
	APIURL    string
	UserAgent string
	// Interval is the minimum delay between requests; zero disables limiting.
	Interval   time.Duration
	HTTPClient *http.Client
}

// Client issues rate-limited GET requests against api.php.
type Client struct {
	apiURL    string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient returns a client for params.APIURL.
func NewClient(params Params) *Client {
	hc := params.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	limit := rate.Inf
	if params.Interval > 0 {
		limit = rate.Every(params.Interval)
	}
	return &Client{
		apiURL:    params.APIURL,
		userAgent: params.UserAgent,
		http:      hc,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// AllPages lists every page in the main namespace.
func (c *Client) AllPages(ctx context.Context) ([]PageRef, error) {
	var resp struct {
		Query struct {
			AllPages []PageRef `json:"allpages"`
		} `json:"query"`
	}
	q := url.Values{"list": {"allpages"}, "aplimit": {"max"}}
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return resp.Query.AllPages, nil
}

// AllCategories returns the names of every category, without the
// "Category:" prefix.
func (c *Client) AllCategories(ctx context.Context) ([]string, error) {
	var resp struct {
		Query struct {
			AllCategories []struct {
				Name string `json:"*"`
			} `json:"allcategories"`
		} `json:"query"`
	}
	q := url.Values{"list": {"allcategories"}, "aclimit": {"max"}}
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	names := make([]string, 0, len(resp.Query.AllCategories))
	for _, ac := range resp.Query.AllCategories {
		names = append(names, ac.Name)
	}
	return names, nil
}

// PageData returns the full page object for pageid exactly as the API
// sends it: links, backlinks, categories, info and the main revision.
func (c *Client) PageData(ctx context.Context, pageid int64) (json.RawMessage, error) {
	q := url.Values{
		"prop":    {"categories|links|linkshere|info|revisions|imageinfo"},
		"rvprop":  {"content|tags|timestamp"},
		"rvslots": {"main"},
		"pllimit": {"500"},
		"lhlimit": {"500"},
		"cllimit": {"500"},
		"pageids": {strconv.FormatInt(pageid, 10)},
	}
	pages, err := c.queryPages(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", pageid, err)
	}
	page, ok := pages[strconv.FormatInt(pageid, 10)]
	if !ok {
		return nil, fmt.Errorf("fetching page %d: not in response", pageid)
	}
	return page, nil
}

// CategoryInfo returns the page object for Category:<name> with its
// categoryinfo counts.
func (c *Client) CategoryInfo(ctx context.Context, name string) (json.RawMessage, error) {
	q := url.Values{
		"titles": {"Category:" + name},
		"prop":   {"categoryinfo"},
	}
	pages, err := c.queryPages(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetching category %q: %w", name, err)
	}
	if len(pages) != 1 {
		return nil, fmt.Errorf("fetching category %q: expected one page, got %d", name, len(pages))
	}
	var page json.RawMessage
	for _, p := range pages {
		page = p
	}
	return page, nil
}

func (c *Client) queryPages(ctx context.Context, q url.Values) (map[string]json.RawMessage, error) {
	var resp struct {
		Query struct {
			Pages map[string]json.RawMessage `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	return resp.Query.Pages, nil
}

func (c *Client) get(ctx context.Context, q url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	q.Set("action", "query")
	q.Set("format", "json")

	u := c.apiURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	logger.Debug("API request", "url", u)
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", res.Status)
	}
	if ct := res.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "json") {
		return fmt.Errorf("unexpected content type %q", ct)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
