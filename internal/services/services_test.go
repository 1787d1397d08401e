package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/0zzmandias/Mazarbul-sub000/internal/config"
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

func TestNewServiceContainer(t *testing.T) {
	// Create a test configuration
	cfg := &config.Config{
		Parallelism:      3,
		MaxRetryAttempts: 3,
		WarningBehavior:  "summary",
	}

	// Test service container creation
	container := NewServiceContainer(cfg)

	// Verify all services are initialized
	if container.Config == nil {
		t.Error("Config service not initialized")
	}
	if container.KnowledgeGraph == nil {
		t.Error("KnowledgeGraph client not initialized")
	}
	if container.MusicMetadata == nil {
		t.Error("MusicMetadata client not initialized")
	}
	if container.Facts == nil {
		t.Error("Facts provider not initialized")
	}
	if container.CoverArt == nil {
		t.Error("CoverArt provider not initialized")
	}
	if container.Resolver == nil {
		t.Error("Resolver not initialized")
	}
	if container.ResolveService == nil {
		t.Error("ResolveService not initialized")
	}
	if container.Records == nil {
		t.Error("Record store not initialized")
	}
	if container.Logger == nil {
		t.Error("Logger service not initialized")
	}
	if container.WarningCollector == nil {
		t.Error("WarningCollector service not initialized")
	}

	// Without credentials the optional providers stay constructed but off
	if container.Facts.Enabled() {
		t.Error("Facts provider should be disabled without an API key")
	}
	if container.CoverArt.Enabled() {
		t.Error("CoverArt provider should be disabled without credentials")
	}
}

func TestConfigService(t *testing.T) {
	cs := NewConfigService()

	// Test default config creation
	defaultConfig := cs.GetDefaultConfig()
	if len(defaultConfig.GenreRoots) == 0 {
		t.Error("Default config should carry the stock genre roots")
	}
	if defaultConfig.Parallelism <= 0 {
		t.Error("Default config should have positive parallelism")
	}

	// Test config validation
	err := cs.ValidateConfig(defaultConfig)
	if err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	// Test invalid config
	invalidConfig := &config.Config{Parallelism: -1}
	err = cs.ValidateConfig(invalidConfig)
	if err == nil {
		t.Error("Invalid config should fail validation")
	}
}

func TestConfigDurationFallbacks(t *testing.T) {
	cfg := &config.Config{}
	if cfg.MusicCacheTTL() <= 0 {
		t.Error("music cache TTL fallback should be positive")
	}
	if cfg.EntityCacheTTL() <= 0 {
		t.Error("entity cache TTL fallback should be positive")
	}
	if got := cfg.MusicRequestInterval().Milliseconds(); got != 1100 {
		t.Errorf("default request interval = %dms, want 1100ms", got)
	}

	cfg.MusicCacheTTLHours = 48
	if got := cfg.MusicCacheTTL().Hours(); got != 48 {
		t.Errorf("configured music TTL = %vh, want 48h", got)
	}
}

func TestMemoryRecordStore(t *testing.T) {
	store := NewMemoryRecordStore()
	ctx := context.Background()

	if err := store.SaveRecord(ctx, &shared.CanonicalMediaRecord{}); err == nil {
		t.Error("saving a record without an id should fail")
	}

	first := &shared.CanonicalMediaRecord{ID: "wd_Q1", Kind: shared.KindFilm}
	second := &shared.CanonicalMediaRecord{ID: "mb_rg1", Kind: shared.KindAlbum}
	if err := store.SaveRecord(ctx, first); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}
	if err := store.SaveRecord(ctx, second); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	got, err := store.GetRecord(ctx, "wd_Q1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got == nil || got.Kind != shared.KindFilm {
		t.Errorf("GetRecord returned %+v, want the stored film record", got)
	}

	absent, err := store.GetRecord(ctx, "wd_missing")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if absent != nil {
		t.Error("absent record should come back nil")
	}

	all, err := store.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListRecords returned %d records, want 2", len(all))
	}
	if all[0].ID != "mb_rg1" {
		t.Errorf("newest record should list first, got %s", all[0].ID)
	}

	// Re-saving overwrites and bumps recency
	if err := store.SaveRecord(ctx, &shared.CanonicalMediaRecord{ID: "wd_Q1", Kind: shared.KindBook}); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}
	all, _ = store.ListRecords(ctx)
	if all[0].ID != "wd_Q1" || all[0].Kind != shared.KindBook {
		t.Errorf("overwrite should replace the record and move it first, got %s/%s", all[0].ID, all[0].Kind)
	}
}

type stubResolver struct {
	calls   int64
	failFor map[string]error
}

func (s *stubResolver) Resolve(ctx context.Context, kind shared.MediaKind, identifier string) (*shared.CanonicalMediaRecord, error) {
	atomic.AddInt64(&s.calls, 1)
	if err := s.failFor[identifier]; err != nil {
		return nil, err
	}
	return &shared.CanonicalMediaRecord{ID: "wd_" + identifier, Kind: kind}, nil
}

func TestResolveBatchCollectsFailures(t *testing.T) {
	resolver := &stubResolver{failFor: map[string]error{
		"Q2": shared.ErrNotFound,
	}}
	store := NewMemoryRecordStore()
	rs := NewResolveService(resolver, store, NewConsoleLogger(), 2)

	items := []BatchItem{
		{Kind: shared.KindFilm, Identifier: "Q1"},
		{Kind: shared.KindFilm, Identifier: "Q2"},
		{Kind: shared.KindGame, Identifier: "Q3"},
	}
	stats := rs.ResolveBatch(context.Background(), items)

	if stats.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", stats.SuccessCount)
	}
	if stats.FailedCount != 1 {
		t.Errorf("FailedCount = %d, want 1", stats.FailedCount)
	}
	if len(stats.FailedItems) != 1 || stats.FailedItems[0] == "" {
		t.Errorf("FailedItems = %v, want one annotated entry", stats.FailedItems)
	}

	all, _ := store.ListRecords(context.Background())
	if len(all) != 2 {
		t.Errorf("store holds %d records, want the 2 successes", len(all))
	}
}

func TestResolveBatchParallelismBound(t *testing.T) {
	// Many items through a single lane still all complete.
	resolver := &stubResolver{}
	rs := NewResolveService(resolver, NewMemoryRecordStore(), NewConsoleLogger(), 1)

	var items []BatchItem
	for i := 0; i < 20; i++ {
		items = append(items, BatchItem{Kind: shared.KindGame, Identifier: fmt.Sprintf("Q%d", i+100)})
	}
	stats := rs.ResolveBatch(context.Background(), items)
	if stats.SuccessCount != 20 {
		t.Errorf("SuccessCount = %d, want 20", stats.SuccessCount)
	}
	if got := atomic.LoadInt64(&resolver.calls); got != 20 {
		t.Errorf("resolver called %d times, want 20", got)
	}
}

func TestResolveOnePropagatesResolverError(t *testing.T) {
	resolver := &stubResolver{failFor: map[string]error{"Q9": shared.ErrBlocked}}
	rs := NewResolveService(resolver, NewMemoryRecordStore(), NewConsoleLogger(), 1)

	_, err := rs.ResolveOne(context.Background(), shared.KindFilm, "Q9")
	if !errors.Is(err, shared.ErrBlocked) {
		t.Errorf("err = %v, want ErrBlocked", err)
	}
}

func TestConsoleLogger(t *testing.T) {
	logger := NewConsoleLogger()

	// Test debug mode
	logger.SetDebugMode(true)
	// These won't fail but will test the interface
	logger.Info("Test info message")
	logger.Warning("Test warning message")
	logger.Error("Test error message")
	logger.Debug("Test debug message")
	logger.Success("Test success message")
}

func TestWarningCollector(t *testing.T) {
	wc := shared.NewWarningCollector(true)

	// Test initial state
	if wc.HasWarnings() {
		t.Error("New warning collector should have no warnings")
	}

	// Test adding warnings
	wc.AddFactsProviderWarning("Artist", "Album", "Test details")
	wc.AddGenreWalkWarning("Q123", "Test details")

	if !wc.HasWarnings() {
		t.Error("Warning collector should have warnings after adding")
	}

	count := wc.GetWarningCount()
	if count != 2 {
		t.Errorf("Expected 2 warnings, got %d", count)
	}
}
