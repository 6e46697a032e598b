package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrModuleNotFound means the catalog has no module under that code. Callers
// must short-circuit the pipeline for that code rather than retry.
var ErrModuleNotFound = errors.New("module not found in catalog")

const (
	// DefaultAPIBase is the public per-module JSON endpoint for the current
	// academic year.
	DefaultAPIBase = "https://api.nusmods.com/v2/2024-2025/modules"

	// DefaultPageBase is where the module's human-facing page (and its
	// embedded review widget) lives.
	DefaultPageBase = "https://nusmods.com/courses"
)

// Client fetches canonical module metadata from the catalog API.
type Client struct {
	apiBase    string
	pageBase   string
	httpClient *http.Client
}

// NewClient creates a catalog client against the given API base URL.
func NewClient(apiBase, pageBase string) *Client {
	return &Client{
		apiBase:  strings.TrimRight(apiBase, "/"),
		pageBase: strings.TrimRight(pageBase, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientFromEnv builds a client from CATALOG_API_BASE / SCRAPE_BASE_URL,
// falling back to the public defaults.
func NewClientFromEnv() *Client {
	apiBase := os.Getenv("CATALOG_API_BASE")
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	pageBase := os.Getenv("SCRAPE_BASE_URL")
	if pageBase == "" {
		pageBase = DefaultPageBase
	}
	return NewClient(apiBase, pageBase)
}

// PageBase returns the base URL for module pages; the scraper appends the
// module code to it.
func (c *Client) PageBase() string {
	return c.pageBase
}

// PageURL returns the module's source page URL, which doubles as the scrape
// target for the review widget.
func (c *Client) PageURL(code string) string {
	return c.pageBase + "/" + code
}

// FetchModule fetches one module's metadata. A 404 from the catalog returns
// ErrModuleNotFound; every other failure is a plain error.
func (c *Client) FetchModule(ctx context.Context, code string) (*Metadata, error) {
	url := fmt.Sprintf("%s/%s.json", c.apiBase, strings.ToUpper(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrModuleNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, code)
	}

	var payload moduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	semesters := make([]string, 0, len(payload.SemesterData))
	for _, s := range payload.SemesterData {
		semesters = append(semesters, strconv.Itoa(s.Semester))
	}

	return &Metadata{
		Code:        payload.ModuleCode,
		Name:        payload.Title,
		Description: payload.Description,
		Units:       parseCredit(payload.ModuleCredit),
		Semesters:   semesters,
		URL:         c.PageURL(code),
	}, nil
}

// parseCredit parses the catalog's credit value, which arrives as a string
// and is occasionally fractional ("4", "6.5").
func parseCredit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
