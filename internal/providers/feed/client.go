// Package feed fetches fixtures from a league's HTTP JSON fixture feed.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/providers"
	"github.com/preston-bernstein/live-scoring-service/internal/timeutil"
)

// ErrNoBaseURL is returned when the client has no feed to call.
var ErrNoBaseURL = errors.New("feed: base URL is required")

// Config controls how the client reaches the feed.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Timezone   string
	MaxPages   int
	Logger     *slog.Logger
}

// Client fetches fixtures page by page and maps them to providers.Fixture.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	now        func() time.Time
	loc        *time.Location
	maxPages   int
	logger     *slog.Logger
}

// NewClient constructs a feed client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
		loc:        resolveLocation(cfg.Timezone),
		maxPages:   resolveMaxPages(cfg.MaxPages),
		logger:     cfg.Logger,
	}
}

// FetchFixtures retrieves the fixtures for date, or for today in the feed's timezone when date is empty.
func (c *Client) FetchFixtures(ctx context.Context, date string) ([]providers.Fixture, error) {
	if c.baseURL == "" {
		return nil, ErrNoBaseURL
	}
	day, err := c.resolveDate(date)
	if err != nil {
		return nil, err
	}

	all := make([]providers.Fixture, 0)
	for page := 1; ; page++ {
		payload, err := c.fetchPage(ctx, day, page)
		if err != nil {
			return nil, err
		}
		for _, p := range payload.Data {
			f, err := mapFixture(p)
			if err != nil {
				return nil, err
			}
			all = append(all, f)
		}

		if total := payload.Meta.TotalPages; total > 0 {
			if page >= total {
				break
			}
		} else if len(payload.Data) < defaultPerPage {
			break
		}
		if page >= c.maxPages {
			logging.Warn(c.logger, "feed page cap reached", "pages", page, "date", day)
			break
		}
	}

	logging.Info(c.logger, "feed fixtures fetched", logging.FieldCount, len(all), "date", day)
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, date string, page int) (fixturesResponse, error) {
	var payload fixturesResponse
	req, err := c.buildRequest(ctx, date, page)
	if err != nil {
		return payload, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return payload, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return payload, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Message:    "too many requests",
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return payload, fmt.Errorf("feed: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return payload, fmt.Errorf("feed: decode page %d: %w", page, err)
	}
	return payload, nil
}

func (c *Client) buildRequest(ctx context.Context, date string, page int) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fixtures", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("date", date)
	q.Set("per_page", strconv.Itoa(defaultPerPage))
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return c.now().In(c.loc).Format(timeutil.DateLayout), nil
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}
