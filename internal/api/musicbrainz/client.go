package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/0zzmandias/Mazarbul-sub000/internal/cache"
	"github.com/0zzmandias/Mazarbul-sub000/internal/pacer"
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// 1. Constants and types
const (
	defaultBaseURL      = "https://musicbrainz.org/ws/2/"
	defaultTimeout      = 15 * time.Second
	defaultInterval     = 1100 * time.Millisecond // politeness contract: ~1 req/s plus headroom
	defaultMaxRetries   = 3
	defaultInitialDelay = 250 * time.Millisecond
	defaultMaxDelay     = 2 * time.Second
	defaultCacheTTL     = 7 * 24 * time.Hour
	browseLimit         = 100
)

// Config holds configuration for the MusicBrainz API client
type Config struct {
	BaseURL         string        `json:"base_url"`
	UserAgent       string        `json:"user_agent"`
	Timeout         time.Duration `json:"timeout"`
	MaxRetries      int           `json:"max_retries"`
	InitialDelay    time.Duration `json:"initial_delay"`
	MaxDelay        time.Duration `json:"max_delay"`
	RequestInterval time.Duration `json:"request_interval"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	Debug           bool          `json:"debug"`
}

// Client is a MusicBrainz API client. Every outbound call funnels through
// one single-lane pacer so concurrent resolutions still respect the
// service's politeness contract.
type Client struct {
	httpClient *http.Client
	config     Config
	queue      *pacer.Pacer

	// Independent cache domains; keyspaces never mix.
	canonicalIDs *cache.Cache[string]
	groupInfo    *cache.Cache[*ReleaseGroupInfo]
	releaseLists *cache.Cache[[]ReleaseSummary]
	tracklists   *cache.Cache[*ReleaseCandidate]
}

// 2. Constructor and configuration

// DefaultConfig returns sensible defaults for the MusicBrainz client
func DefaultConfig() Config {
	return Config{
		BaseURL:         defaultBaseURL,
		UserAgent:       shared.UserAgent,
		Timeout:         defaultTimeout,
		MaxRetries:      defaultMaxRetries,
		InitialDelay:    defaultInitialDelay,
		MaxDelay:        defaultMaxDelay,
		RequestInterval: defaultInterval,
		CacheTTL:        defaultCacheTTL,
		Debug:           false,
	}
}

// NewClient creates a new MusicBrainz client with default configuration
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new MusicBrainz client with custom configuration
func NewClientWithConfig(config Config) *Client {
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:       config,
		queue:        pacer.New(config.RequestInterval),
		canonicalIDs: cache.New[string](ttl),
		groupInfo:    cache.New[*ReleaseGroupInfo](ttl),
		releaseLists: cache.New[[]ReleaseSummary](ttl),
		tracklists:   cache.New[*ReleaseCandidate](ttl),
	}
}

// GetConfig returns the current client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// 3. Core HTTP methods (private)

// get makes a single GET request through the pacer queue.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := c.queue.Do(ctx, func() error {
		shared.DebugPrint(c.config.Debug, "GET %s%s", c.config.BaseURL, path)
		req, err := http.NewRequestWithContext(ctx, "GET", c.config.BaseURL+path, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return &shared.HTTPError{
					StatusCode: http.StatusGatewayTimeout,
					Status:     "Gateway Timeout",
					Message:    err.Error(),
				}
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			message := string(data)
			if len(message) > 200 {
				message = message[:200] + "..."
			}
			return &shared.HTTPError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Message:    message,
			}
		}

		body = data
		return nil
	})
	return body, err
}

// getWithRetry makes a GET request with retry logic. The pacer itself
// never retries; each retry attempt re-enters the queue.
func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	var result []byte
	var err error

	retryErr := shared.RetryWithBackoffForHTTPWithDebug(
		c.config.MaxRetries,
		c.config.InitialDelay,
		c.config.MaxDelay,
		func() error {
			result, err = c.get(ctx, path)
			return err
		},
		c.config.Debug,
	)

	if retryErr != nil {
		if shared.IsRetryableHTTPError(retryErr) {
			return nil, fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, retryErr)
		}
		return nil, retryErr
	}
	return result, nil
}

// getJSON fetches path and unmarshals the response into v.
func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// isNotFound reports whether err carries an upstream 404.
func isNotFound(err error) bool {
	var httpErr *shared.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	return false
}

// 4. Public API methods

// GetReleaseGroupInfo fetches a release-group's basic facts, cached for
// the configured TTL. A confirmed upstream 404 is memoized too.
func (c *Client) GetReleaseGroupInfo(ctx context.Context, groupID string) (*ReleaseGroupInfo, error) {
	if groupID == "" {
		return nil, fmt.Errorf("release-group id cannot be empty: %w", shared.ErrInvalidIdentifier)
	}

	if info, ok := c.groupInfo.Get(groupID); ok {
		if info == nil {
			return nil, fmt.Errorf("release group %s: %w", groupID, shared.ErrNotFound)
		}
		return info, nil
	}

	path := fmt.Sprintf("release-group/%s?inc=artists", groupID)
	var rg releaseGroupResponse
	if err := c.getJSON(ctx, path, &rg); err != nil {
		if isNotFound(err) {
			c.groupInfo.Set(groupID, nil)
			return nil, fmt.Errorf("release group %s: %w", groupID, shared.ErrNotFound)
		}
		return nil, err
	}

	info := &ReleaseGroupInfo{
		ID:               rg.ID,
		Title:            rg.Title,
		Artist:           rg.artistName(),
		FirstReleaseDate: rg.FirstReleaseDate,
		PrimaryType:      rg.PrimaryType,
	}
	c.groupInfo.Set(groupID, info)
	return info, nil
}

// GetReleaseList fetches all releases under a release-group with their
// media formats and track counts, cached for the configured TTL. An
// unknown group yields an empty list, not an error.
func (c *Client) GetReleaseList(ctx context.Context, groupID string) ([]ReleaseSummary, error) {
	if list, ok := c.releaseLists.Get(groupID); ok {
		return list, nil
	}

	path := fmt.Sprintf("release?release-group=%s&inc=media&limit=%d", url.QueryEscape(groupID), browseLimit)
	var resp browseReleasesResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		if isNotFound(err) {
			c.releaseLists.Set(groupID, []ReleaseSummary{})
			return nil, nil
		}
		return nil, err
	}

	summaries := make([]ReleaseSummary, 0, len(resp.Releases))
	for _, rel := range resp.Releases {
		summaries = append(summaries, rel.toSummary())
	}
	c.releaseLists.Set(groupID, summaries)
	return summaries, nil
}

// GetReleaseTracks fetches the full track listing of one release, cached
// for the configured TTL.
func (c *Client) GetReleaseTracks(ctx context.Context, releaseID string) (*ReleaseCandidate, error) {
	if cand, ok := c.tracklists.Get(releaseID); ok {
		if cand == nil {
			return nil, fmt.Errorf("release %s: %w", releaseID, shared.ErrNotFound)
		}
		return cand, nil
	}

	path := fmt.Sprintf("release/%s?inc=recordings+media", releaseID)
	var rel Release
	if err := c.getJSON(ctx, path, &rel); err != nil {
		if isNotFound(err) {
			c.tracklists.Set(releaseID, nil)
			return nil, fmt.Errorf("release %s: %w", releaseID, shared.ErrNotFound)
		}
		return nil, err
	}

	cand := rel.toCandidate()
	c.tracklists.Set(releaseID, cand)
	return cand, nil
}
