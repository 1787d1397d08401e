package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/semaphore"

	"github.com/0zzmandias/Mazarbul-sub000/internal/api/lastfm"
	"github.com/0zzmandias/Mazarbul-sub000/internal/api/musicbrainz"
	"github.com/0zzmandias/Mazarbul-sub000/internal/api/spotify"
	"github.com/0zzmandias/Mazarbul-sub000/internal/api/wikidata"
	"github.com/0zzmandias/Mazarbul-sub000/internal/config"
	"github.com/0zzmandias/Mazarbul-sub000/internal/hydrate"
	"github.com/0zzmandias/Mazarbul-sub000/internal/interfaces"
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// ServiceContainer holds all application services
type ServiceContainer struct {
	Config           *ConfigService
	KnowledgeGraph   interfaces.KnowledgeGraph
	MusicMetadata    interfaces.MusicMetadata
	Facts            interfaces.FactsProvider
	CoverArt         interfaces.CoverArtProvider
	Resolver         interfaces.Resolver
	ResolveService   *ResolveService
	Records          interfaces.RecordStore
	Logger           interfaces.LoggerService
	WarningCollector *shared.WarningCollector
}

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(cfg *config.Config) *ServiceContainer {
	// Create logger first as other services may need it
	logger := NewConsoleLogger()

	// Create warning collector
	warningCollector := shared.NewWarningCollector(cfg.WarningBehavior != "silent")

	// Knowledge-graph client
	kgConfig := wikidata.DefaultConfig()
	if cfg.KnowledgeGraphURL != "" {
		kgConfig.BaseURL = cfg.KnowledgeGraphURL
	}
	kgConfig.EntityTTL = cfg.EntityCacheTTL()
	if cfg.MaxRetryAttempts > 0 {
		kgConfig.MaxRetries = cfg.MaxRetryAttempts
	}
	kg := wikidata.NewClientWithConfig(kgConfig)

	// Music-metadata client with its single-lane request queue
	mbConfig := musicbrainz.DefaultConfig()
	if cfg.MusicMetadataURL != "" {
		mbConfig.BaseURL = cfg.MusicMetadataURL
	}
	mbConfig.CacheTTL = cfg.MusicCacheTTL()
	mbConfig.RequestInterval = cfg.MusicRequestInterval()
	if cfg.MaxRetryAttempts > 0 {
		mbConfig.MaxRetries = cfg.MaxRetryAttempts
	}
	music := musicbrainz.NewClientWithConfig(mbConfig)

	// Secondary facts provider; an empty key leaves it disabled
	factsConfig := lastfm.DefaultConfig()
	if cfg.FactsAPIURL != "" {
		factsConfig.BaseURL = cfg.FactsAPIURL
	}
	factsConfig.APIKey = cfg.FactsAPIKey
	facts := lastfm.NewClient(factsConfig)

	// Cover-art fallback provider
	coverArt := spotify.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)

	// Record store
	records := NewMemoryRecordStore()

	// Hydration orchestrator
	resolver := hydrate.New(hydrate.Config{
		GenreRoots: cfg.GenreRootSet(),
		MaxGenres:  cfg.MaxGenres,
		MaxTags:    cfg.MaxTags,
	}, kg, music, facts, coverArt, warningCollector)

	resolveService := NewResolveService(resolver, records, logger, cfg.Parallelism)

	return &ServiceContainer{
		Config:           NewConfigService(),
		KnowledgeGraph:   kg,
		MusicMetadata:    music,
		Facts:            facts,
		CoverArt:         coverArt,
		Resolver:         resolver,
		ResolveService:   resolveService,
		Records:          records,
		Logger:           logger,
		WarningCollector: warningCollector,
	}
}

// ConfigService implementation
type ConfigService struct{}

func NewConfigService() *ConfigService {
	return &ConfigService{}
}

func (cs *ConfigService) LoadConfig(configFile string) (*config.Config, error) {
	cfg := &config.Config{}
	return cfg, config.LoadConfig(configFile, cfg)
}

func (cs *ConfigService) SaveConfig(configFile string, cfg *config.Config) error {
	return config.SaveConfig(configFile, cfg)
}

func (cs *ConfigService) ValidateConfig(cfg *config.Config) error {
	if cfg.Parallelism < 0 {
		return fmt.Errorf("parallelism cannot be negative")
	}
	if cfg.MaxGenres < 0 {
		return fmt.Errorf("max genres cannot be negative")
	}
	return nil
}

func (cs *ConfigService) GetDefaultConfig() *config.Config {
	return &config.Config{
		GenreRoots:       config.DefaultGenreRoots,
		MaxGenres:        4,
		MaxTags:          8,
		Parallelism:      3,
		MaxRetryAttempts: config.DefaultMaxRetries,
		WarningBehavior:  "summary",
	}
}

func (cs *ConfigService) EnsureConfigExists(configFile string) error {
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return cs.SaveConfig(configFile, cs.GetDefaultConfig())
	}
	return nil
}

// ResolveService runs resolutions and hands results to the record store.
type ResolveService struct {
	resolver    interfaces.Resolver
	records     interfaces.RecordStore
	logger      interfaces.LoggerService
	parallelism int
}

func NewResolveService(resolver interfaces.Resolver, records interfaces.RecordStore, logger interfaces.LoggerService, parallelism int) *ResolveService {
	if parallelism <= 0 {
		parallelism = 3
	}
	return &ResolveService{
		resolver:    resolver,
		records:     records,
		logger:      logger,
		parallelism: parallelism,
	}
}

// ResolveOne resolves a single identifier and stores the record.
func (rs *ResolveService) ResolveOne(ctx context.Context, kind shared.MediaKind, identifier string) (*shared.CanonicalMediaRecord, error) {
	record, err := rs.resolver.Resolve(ctx, kind, identifier)
	if err != nil {
		return nil, err
	}
	if err := rs.records.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store record %s: %w", record.ID, err)
	}
	return record, nil
}

// BatchItem is one entry of a batch resolution run.
type BatchItem struct {
	Kind       shared.MediaKind
	Identifier string
}

type itemError struct {
	Identifier string
	Err        error
}

// ResolveBatch resolves many identifiers concurrently, bounded by the
// configured parallelism. Individual failures are collected into the
// stats instead of aborting the run.
func (rs *ResolveService) ResolveBatch(ctx context.Context, items []BatchItem) *shared.ResolveStats {
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(rs.parallelism))
	stats := &shared.ResolveStats{}
	errorChan := make(chan itemError, len(items))

	var mu sync.Mutex
	var bar *pb.ProgressBar
	if shared.IsTTY() {
		bar = pb.StartNew(len(items))
	}

	for _, item := range items {
		wg.Add(1)
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Done()
			errorChan <- itemError{item.Identifier, err}
			continue
		}

		go func(item BatchItem) {
			defer wg.Done()
			defer sem.Release(1)
			defer func() {
				if bar != nil {
					bar.Increment()
				}
			}()

			record, err := rs.ResolveOne(ctx, item.Kind, item.Identifier)
			if err != nil {
				errorChan <- itemError{item.Identifier, err}
				return
			}

			mu.Lock()
			stats.SuccessCount++
			mu.Unlock()
			rs.logger.Debug("resolved %s as %s", item.Identifier, record.ID)
		}(item)
	}

	wg.Wait()
	if bar != nil {
		bar.Finish()
	}
	close(errorChan)

	for e := range errorChan {
		stats.FailedCount++
		stats.FailedItems = append(stats.FailedItems, fmt.Sprintf("%s: %v", e.Identifier, e.Err))
	}

	return stats
}

// PrintStats prints a batch resolution summary.
func (rs *ResolveService) PrintStats(stats *shared.ResolveStats) {
	shared.ColorInfo.Printf("\n📊 Resolution Summary:\n")
	shared.ColorSuccess.Printf("✅ Resolved: %d records\n", stats.SuccessCount)

	if stats.SkippedCount > 0 {
		shared.ColorWarning.Printf("⭐ Skipped: %d items\n", stats.SkippedCount)
	}

	if len(stats.FailedItems) > 0 {
		shared.ColorError.Printf("❌ Failed: %d items\n", len(stats.FailedItems))
		for _, msg := range stats.FailedItems {
			shared.ColorError.Printf("   - %s\n", msg)
		}
	}
}

// MemoryRecordStore is an in-memory record store keyed by record id.
// Re-resolving an identifier overwrites the previous record.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]*shared.CanonicalMediaRecord
	order   map[string]int
	seq     int
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		records: make(map[string]*shared.CanonicalMediaRecord),
		order:   make(map[string]int),
	}
}

func (ms *MemoryRecordStore) SaveRecord(ctx context.Context, record *shared.CanonicalMediaRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("record has no id")
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.seq++
	ms.records[record.ID] = record
	ms.order[record.ID] = ms.seq
	return nil
}

func (ms *MemoryRecordStore) GetRecord(ctx context.Context, id string) (*shared.CanonicalMediaRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.records[id], nil
}

func (ms *MemoryRecordStore) ListRecords(ctx context.Context) ([]*shared.CanonicalMediaRecord, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]*shared.CanonicalMediaRecord, 0, len(ms.records))
	for _, r := range ms.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return ms.order[out[i].ID] > ms.order[out[j].ID]
	})
	return out, nil
}

// ConsoleLogger implementation
type ConsoleLogger struct {
	debugMode bool
}

func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{debugMode: false}
}

func (cl *ConsoleLogger) Info(message string, args ...interface{}) {
	shared.ColorInfo.Printf(message+"\n", args...)
}

func (cl *ConsoleLogger) Warning(message string, args ...interface{}) {
	shared.ColorWarning.Printf("⚠️ "+message+"\n", args...)
}

func (cl *ConsoleLogger) Error(message string, args ...interface{}) {
	shared.ColorError.Printf("❌ "+message+"\n", args...)
}

func (cl *ConsoleLogger) Debug(message string, args ...interface{}) {
	if !cl.debugMode {
		return
	}
	fmt.Printf("🐛 DEBUG: "+message+"\n", args...)
}

func (cl *ConsoleLogger) Success(message string, args ...interface{}) {
	shared.ColorSuccess.Printf("✅ "+message+"\n", args...)
}

func (cl *ConsoleLogger) SetDebugMode(enabled bool) {
	cl.debugMode = enabled
}
