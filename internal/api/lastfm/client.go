package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// 1. Constants and types
const (
	defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"
	defaultTimeout = 15 * time.Second
)

// Config holds configuration for the Last.fm API client
type Config struct {
	BaseURL   string        `json:"base_url"`
	APIKey    string        `json:"api_key"`
	UserAgent string        `json:"user_agent"`
	Timeout   time.Duration `json:"timeout"`
	Debug     bool          `json:"debug"`
}

// Client is a Last.fm API client. This provider is not etiquette-gated,
// so calls go straight out; its facts are optional and its absence never
// blocks an album reconciliation.
type Client struct {
	httpClient *http.Client
	config     Config
}

// AlbumFacts are the secondary textual facts for an album: summary,
// cover image and raw tag list.
type AlbumFacts struct {
	Name     string
	Artist   string
	Summary  string
	ImageURL string
	RawTags  []string
}

// 2. Constructor and configuration

// DefaultConfig returns sensible defaults for the Last.fm client
func DefaultConfig() Config {
	return Config{
		BaseURL:   defaultBaseURL,
		UserAgent: shared.UserAgent,
		Timeout:   defaultTimeout,
	}
}

// NewClient creates a Last.fm client. An empty API key leaves the client
// constructed but Enabled() false.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// Enabled reports whether the client has credentials to operate.
func (c *Client) Enabled() bool {
	return c.config.APIKey != ""
}

// 3. Public API methods

// GetAlbumInfo fetches album facts by artist and album title.
func (c *Client) GetAlbumInfo(ctx context.Context, artist, album string) (*AlbumFacts, error) {
	if artist == "" || album == "" {
		return nil, fmt.Errorf("artist and album cannot be empty")
	}
	params := url.Values{}
	params.Set("artist", artist)
	params.Set("album", album)
	return c.albumInfo(ctx, params)
}

// GetAlbumInfoByMBID fetches album facts by the opaque MusicBrainz id.
func (c *Client) GetAlbumInfoByMBID(ctx context.Context, mbid string) (*AlbumFacts, error) {
	if mbid == "" {
		return nil, fmt.Errorf("mbid cannot be empty")
	}
	params := url.Values{}
	params.Set("mbid", mbid)
	return c.albumInfo(ctx, params)
}

// 4. Internals

func (c *Client) albumInfo(ctx context.Context, params url.Values) (*AlbumFacts, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("lastfm client has no API key: %w", shared.ErrUpstreamUnavailable)
	}

	params.Set("method", "album.getinfo")
	params.Set("api_key", c.config.APIKey)
	params.Set("format", "json")
	params.Set("autocorrect", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", c.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
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

	var parsed albumInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal album info: %w", err)
	}
	if parsed.Error != 0 || parsed.Album == nil {
		return nil, fmt.Errorf("album not known to lastfm: %w", shared.ErrNotFound)
	}

	return parsed.Album.toFacts(), nil
}

// Wire types. Image sizes arrive smallest-first; tags sometimes arrive as
// a single object instead of a list, which the custom unmarshaller absorbs.

type albumInfoResponse struct {
	Album *albumPayload `json:"album"`
	Error int           `json:"error"`
}

type albumPayload struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Image  []struct {
		URL  string `json:"#text"`
		Size string `json:"size"`
	} `json:"image"`
	Tags tagList `json:"tags"`
	Wiki struct {
		Summary string `json:"summary"`
	} `json:"wiki"`
}

type tagList struct {
	Tag []struct {
		Name string `json:"name"`
	} `json:"tag"`
}

// UnmarshalJSON tolerates both {"tag":[...]} and {"tag":{...}} and the
// empty-string shape the API emits for untagged albums.
func (t *tagList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == `""` || trimmed == "null" {
		return nil
	}

	type alias tagList
	var list alias
	if err := json.Unmarshal(data, &list); err == nil {
		*t = tagList(list)
		return nil
	}

	var single struct {
		Tag struct {
			Name string `json:"name"`
		} `json:"tag"`
	}
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single.Tag.Name != "" {
		t.Tag = append(t.Tag, single.Tag)
	}
	return nil
}

func (a *albumPayload) toFacts() *AlbumFacts {
	facts := &AlbumFacts{
		Name:    a.Name,
		Artist:  a.Artist,
		Summary: strings.TrimSpace(a.Wiki.Summary),
	}
	// Prefer the largest non-empty image.
	for i := len(a.Image) - 1; i >= 0; i-- {
		if a.Image[i].URL != "" {
			facts.ImageURL = a.Image[i].URL
			break
		}
	}
	for _, tag := range a.Tags.Tag {
		if tag.Name != "" {
			facts.RawTags = append(facts.RawTags, tag.Name)
		}
	}
	return facts
}
