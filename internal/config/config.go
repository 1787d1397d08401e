package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	RequestTimeout    = 15 * time.Second
	DefaultMaxRetries = 3
)

// Configuration structure
type Config struct {
	KnowledgeGraphURL string `json:"KnowledgeGraphURL"`
	MusicMetadataURL  string `json:"MusicMetadataURL"`
	FactsAPIURL       string `json:"FactsAPIURL"`
	FactsAPIKey       string `json:"FactsAPIKey"`

	SpotifyClientID     string `json:"SpotifyClientID"`
	SpotifyClientSecret string `json:"SpotifyClientSecret"`

	// GenreRoots is the canonical genre vocabulary: entity ids that raw
	// genre claims are folded up into.
	GenreRoots []string `json:"GenreRoots"`
	MaxGenres  int      `json:"MaxGenres"`
	MaxTags    int      `json:"MaxTags"`

	// Cache lifetimes, expressed in hours to keep the file editable.
	MusicCacheTTLHours  int `json:"MusicCacheTTLHours"`
	EntityCacheTTLHours int `json:"EntityCacheTTLHours"`

	// MusicRequestIntervalMs paces the single-lane music-metadata queue.
	MusicRequestIntervalMs int `json:"MusicRequestIntervalMs"`

	Parallelism      int    `json:"Parallelism"`
	MaxRetryAttempts int    `json:"MaxRetryAttempts"`
	WarningBehavior  string `json:"WarningBehavior"` // "immediate", "summary", or "silent"
}

// DefaultGenreRoots is the stock canonical genre vocabulary. These are
// broad genre entities that finer claims reliably fold up into.
var DefaultGenreRoots = []string{
	"Q11399",   // rock music
	"Q9730",    // electronic music
	"Q1298934", // jazz family
	"Q37073",   // pop music
	"Q38848",   // heavy metal
	"Q131272",  // drama
	"Q24925",   // science fiction
	"Q224700",  // comedy
	"Q200092",  // horror
	"Q4360",    // adventure
	"Q8261",    // novel
	"Q828322",  // action game
	"Q744038",  // role-playing game
	"Q828327",  // strategy game
}

// MusicCacheTTL returns the configured music-metadata cache lifetime.
func (cfg *Config) MusicCacheTTL() time.Duration {
	if cfg.MusicCacheTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(cfg.MusicCacheTTLHours) * time.Hour
}

// EntityCacheTTL returns the configured knowledge-graph cache lifetime.
func (cfg *Config) EntityCacheTTL() time.Duration {
	if cfg.EntityCacheTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(cfg.EntityCacheTTLHours) * time.Hour
}

// MusicRequestInterval returns the configured pacing interval for the
// music-metadata queue.
func (cfg *Config) MusicRequestInterval() time.Duration {
	if cfg.MusicRequestIntervalMs <= 0 {
		return 1100 * time.Millisecond
	}
	return time.Duration(cfg.MusicRequestIntervalMs) * time.Millisecond
}

// GenreRootSet returns the configured roots as a lookup set.
func (cfg *Config) GenreRootSet() map[string]bool {
	roots := cfg.GenreRoots
	if len(roots) == 0 {
		roots = DefaultGenreRoots
	}
	set := make(map[string]bool, len(roots))
	for _, r := range roots {
		set[r] = true
	}
	return set
}

// CreateDirIfNotExists creates a directory if it does not exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a JSON file
func SaveConfig(filePath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
