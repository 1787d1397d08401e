package services

import (
	"context"
	"testing"

	"github.com/0zzmandias/Mazarbul-sub000/internal/config"
	"github.com/0zzmandias/Mazarbul-sub000/internal/interfaces"
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

func TestServiceIntegration(t *testing.T) {
	// Create a test configuration
	cfg := &config.Config{
		Parallelism:      3,
		MaxRetryAttempts: 3,
		WarningBehavior:  "summary",
	}

	// Create service container
	container := NewServiceContainer(cfg)

	// Test config service
	defaultConfig := container.Config.GetDefaultConfig()
	err := container.Config.ValidateConfig(defaultConfig)
	if err != nil {
		t.Errorf("Default config validation failed: %v", err)
	}

	// Test logger service
	container.Logger.SetDebugMode(true)
	container.Logger.Info("Test integration message")
	container.Logger.Debug("Test debug message")

	// Test warning collector
	if container.WarningCollector.HasWarnings() {
		t.Error("New warning collector should have no warnings")
	}

	// Test record store round trip
	ctx := context.Background()
	record := &shared.CanonicalMediaRecord{ID: "wd_Q42", Kind: shared.KindBook}
	if err := container.Records.SaveRecord(ctx, record); err != nil {
		t.Errorf("Record store save failed: %v", err)
	}
	got, err := container.Records.GetRecord(ctx, "wd_Q42")
	if err != nil || got == nil {
		t.Errorf("Record store get failed: %v, %v", got, err)
	}

	// Test that all services implement their interfaces correctly
	// This is mostly a compile-time check, but we can verify at runtime too
	var _ interfaces.KnowledgeGraph = container.KnowledgeGraph
	var _ interfaces.MusicMetadata = container.MusicMetadata
	var _ interfaces.FactsProvider = container.Facts
	var _ interfaces.CoverArtProvider = container.CoverArt
	var _ interfaces.Resolver = container.Resolver
	var _ interfaces.RecordStore = container.Records
	var _ interfaces.LoggerService = container.Logger
}

func TestDependencyInjection(t *testing.T) {
	// Test that services can be created with different configurations
	cfg1 := &config.Config{
		Parallelism:            2,
		MusicRequestIntervalMs: 1100,
	}

	cfg2 := &config.Config{
		Parallelism:            5,
		MusicRequestIntervalMs: 2000,
		GenreRoots:             []string{"Q188451"},
	}

	container1 := NewServiceContainer(cfg1)
	container2 := NewServiceContainer(cfg2)

	if container1.ResolveService == container2.ResolveService {
		t.Error("Different service containers should hold independent services")
	}

	roots := cfg2.GenreRootSet()
	if len(roots) != 1 || !roots["Q188451"] {
		t.Errorf("GenreRootSet = %v, want only Q188451", roots)
	}

	// Empty root list falls back to the stock vocabulary
	if len(cfg1.GenreRootSet()) != len(config.DefaultGenreRoots) {
		t.Error("Empty genre roots should fall back to the defaults")
	}
}
