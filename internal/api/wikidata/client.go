package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/0zzmandias/Mazarbul-sub000/internal/cache"
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// 1. Constants and types
const (
	defaultBaseURL      = "https://www.wikidata.org/w/api.php"
	defaultTimeout      = 15 * time.Second
	defaultRateLimit    = 100 * time.Millisecond
	defaultBurstLimit   = 4
	defaultMaxRetries   = 3 // first attempt plus two retries
	defaultInitialDelay = 250 * time.Millisecond
	defaultMaxDelay     = 2 * time.Second
	defaultEntityTTL    = 24 * time.Hour
	defaultMaxDepth     = 8
	batchSize           = 50 // wbgetentities caps ids per call
)

// Wikidata property ids used by the reconciliation engine.
const (
	PropInstanceOf      = "P31"
	PropSubclassOf      = "P279"
	PropGenre           = "P136"
	PropCountryOfOrigin = "P495"
	PropISO3166Alpha2   = "P297"
	PropPublicationDate = "P577"
	PropImage           = "P18"
	PropDirector        = "P57"
	PropDeveloper       = "P178"
	PropAuthor          = "P50"
	PropPerformer       = "P175"
)

// DefaultBlockedTypes are entity classes that masquerade as works and
// must never be persisted as one.
var DefaultBlockedTypes = []string{
	"Q4167410",  // disambiguation page
	"Q13406463", // list article
	"Q4167836",  // category page
	"Q196600",   // media franchise
}

// Config holds configuration for the Wikidata API client
type Config struct {
	BaseURL      string        `json:"base_url"`
	UserAgent    string        `json:"user_agent"`
	Timeout      time.Duration `json:"timeout"`
	MaxRetries   int           `json:"max_retries"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	RateLimit    time.Duration `json:"rate_limit"`
	BurstLimit   int           `json:"burst_limit"`
	EntityTTL    time.Duration `json:"entity_ttl"`
	BlockedTypes []string      `json:"blocked_types"`
	Debug        bool          `json:"debug"`
}

// Client is a Wikidata API client with retry and request pacing.
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *rate.Limiter
	entities    *cache.Cache[*Entity]
	blocked     map[string]bool
}

// 2. Constructor and configuration

// DefaultConfig returns sensible defaults for the Wikidata client
func DefaultConfig() Config {
	return Config{
		BaseURL:      defaultBaseURL,
		UserAgent:    shared.UserAgent,
		Timeout:      defaultTimeout,
		MaxRetries:   defaultMaxRetries,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
		RateLimit:    defaultRateLimit,
		BurstLimit:   defaultBurstLimit,
		EntityTTL:    defaultEntityTTL,
		BlockedTypes: DefaultBlockedTypes,
		Debug:        false,
	}
}

// NewClient creates a new Wikidata client with default configuration
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new Wikidata client with custom configuration
func NewClientWithConfig(config Config) *Client {
	blocked := make(map[string]bool, len(config.BlockedTypes))
	for _, id := range config.BlockedTypes {
		blocked[id] = true
	}
	ttl := config.EntityTTL
	if ttl <= 0 {
		ttl = defaultEntityTTL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		rateLimiter: rate.NewLimiter(rate.Every(config.RateLimit), config.BurstLimit),
		entities:    cache.New[*Entity](ttl),
		blocked:     blocked,
	}
}

// GetConfig returns the current client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// 3. Core HTTP methods (private)

// makeRequest creates and executes a GET against the API with the given
// query parameters; format=json is always applied.
func (c *Client) makeRequest(ctx context.Context, params url.Values) (*http.Response, error) {
	params.Set("format", "json")

	reqURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// get makes a single GET request to the Wikidata API
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	shared.DebugPrint(c.config.Debug, "GET %s?action=%s", c.config.BaseURL, params.Get("action"))

	resp, err := c.makeRequest(ctx, params)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, &shared.HTTPError{
				StatusCode: http.StatusGatewayTimeout,
				Status:     "Gateway Timeout",
				Message:    err.Error(),
			}
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(body)
		if len(message) > 200 {
			message = message[:200] + "..."
		}
		return nil, &shared.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    message,
		}
	}

	return body, nil
}

// getWithRetry makes a GET request with retry logic. Exhausted transient
// failures surface as ErrUpstreamUnavailable; non-retryable 4xx propagate
// immediately.
func (c *Client) getWithRetry(ctx context.Context, params url.Values) ([]byte, error) {
	var result []byte
	var err error

	retryErr := shared.RetryWithBackoffForHTTPWithDebug(
		c.config.MaxRetries,
		c.config.InitialDelay,
		c.config.MaxDelay,
		func() error {
			result, err = c.get(ctx, params)
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

// 4. Public API methods

// SearchEntities performs a label search and returns lightweight hits.
func (c *Client) SearchEntities(ctx context.Context, query, language string, limit int) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if language == "" {
		language = "en"
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", query)
	params.Set("language", language)
	params.Set("uselang", language)
	params.Set("limit", fmt.Sprintf("%d", limit))

	body, err := c.getWithRetry(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("entity search failed for %q: %w", query, err)
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search result: %w", err)
	}
	return result.Search, nil
}

// GetEntities fetches entities by id, batched and cached. Empty and
// malformed ids are filtered out; an empty id list short-circuits to an
// empty map without a network call.
func (c *Client) GetEntities(ctx context.Context, ids []string, languages []string, props []string) (map[string]*Entity, error) {
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	if len(props) == 0 {
		props = []string{"labels", "descriptions", "claims"}
	}

	wanted := filterIDs(ids)
	result := make(map[string]*Entity, len(wanted))
	if len(wanted) == 0 {
		return result, nil
	}

	langKey := strings.Join(languages, "|")
	propKey := strings.Join(props, "|")

	var missing []string
	for _, id := range wanted {
		if ent, ok := c.entities.Get(cacheKey(id, langKey, propKey)); ok {
			if ent != nil {
				result[id] = ent
			}
			continue
		}
		missing = append(missing, id)
	}

	for start := 0; start < len(missing); start += batchSize {
		end := start + batchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		params := url.Values{}
		params.Set("action", "wbgetentities")
		params.Set("ids", strings.Join(batch, "|"))
		params.Set("languages", langKey)
		params.Set("props", propKey)

		body, err := c.getWithRetry(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch entities: %w", err)
		}

		var resp entitiesResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entities: %w", err)
		}

		for _, id := range batch {
			ent, ok := resp.Entities[id]
			if !ok || ent == nil || ent.Missing != nil {
				// Confirmed negative: memoize so repeated lookups stay local.
				c.entities.Set(cacheKey(id, langKey, propKey), nil)
				continue
			}
			c.entities.Set(cacheKey(id, langKey, propKey), ent)
			result[id] = ent
		}
	}

	return result, nil
}

// GetEntity fetches a single entity, or ErrNotFound when Wikidata does
// not know the id.
func (c *Client) GetEntity(ctx context.Context, id string, languages []string, props []string) (*Entity, error) {
	entities, err := c.GetEntities(ctx, []string{id}, languages, props)
	if err != nil {
		return nil, err
	}
	ent, ok := entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", id, shared.ErrNotFound)
	}
	return ent, nil
}

// 5. Helper/utility functions

// filterIDs drops empty and non-entity-shaped ids before a batch call.
func filterIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || !strings.HasPrefix(id, "Q") || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func cacheKey(id, langKey, propKey string) string {
	return id + "|" + langKey + "|" + propKey
}
