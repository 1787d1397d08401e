package interfaces

import (
	"context"

	"github.com/0zzmandias/Mazarbul-sub000/internal/api/lastfm"
	"github.com/0zzmandias/Mazarbul-sub000/internal/api/musicbrainz"
	"github.com/0zzmandias/Mazarbul-sub000/internal/api/wikidata"
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// KnowledgeGraph defines the knowledge-graph adapter surface the
// orchestrator consumes.
type KnowledgeGraph interface {
	// SearchEntities performs a label search
	SearchEntities(ctx context.Context, query, language string, limit int) ([]wikidata.SearchHit, error)

	// BuildTechnicalDetails pulls typing, taxonomy, provenance and creator
	// facts for one entity in a single pass
	BuildTechnicalDetails(ctx context.Context, id string, kind shared.MediaKind, opts wikidata.DetailOptions) (*wikidata.TechnicalDetails, error)

	// ResolveCanonicalGenres folds genre ids up into configured roots
	ResolveCanonicalGenres(ctx context.Context, genreIDs []string, roots map[string]bool, maxGenres int) ([]string, error)

	// GenreLabels fetches display labels for canonical genre ids
	GenreLabels(ctx context.Context, genreIDs []string, languages []string) (map[string]map[string]string, error)
}

// MusicMetadata defines the music-metadata adapter surface.
type MusicMetadata interface {
	// ReconcileAlbum runs the full album pipeline for one identifier
	ReconcileAlbum(ctx context.Context, rawIdentifier string) (*musicbrainz.Reconciliation, error)
}

// FactsProvider supplies optional secondary textual facts for albums.
type FactsProvider interface {
	// Enabled reports whether the provider has credentials to operate
	Enabled() bool

	// GetAlbumInfo fetches facts by artist and album title
	GetAlbumInfo(ctx context.Context, artist, album string) (*lastfm.AlbumFacts, error)

	// GetAlbumInfoByMBID fetches facts by the opaque id directly
	GetAlbumInfoByMBID(ctx context.Context, mbid string) (*lastfm.AlbumFacts, error)
}

// CoverArtProvider supplies fallback cover art lookups.
type CoverArtProvider interface {
	// Enabled reports whether the provider has credentials to operate
	Enabled() bool

	// FindAlbumArt returns a cover image URL, or "" when nothing matches
	FindAlbumArt(ctx context.Context, artist, album string) (string, error)
}

// Resolver is the engine's exposed capability: identifier in, canonical
// record (or one of the named failures) out.
type Resolver interface {
	// Resolve produces the canonical record for one identifier
	Resolve(ctx context.Context, kind shared.MediaKind, identifier string) (*shared.CanonicalMediaRecord, error)
}

// RecordStore is the persistence collaborator boundary: it accepts
// resolved records for storage and is never queried for freshness here.
type RecordStore interface {
	// SaveRecord hands a resolved record to the persistence layer
	SaveRecord(ctx context.Context, record *shared.CanonicalMediaRecord) error

	// GetRecord returns a previously saved record, or nil when absent
	GetRecord(ctx context.Context, id string) (*shared.CanonicalMediaRecord, error)

	// ListRecords returns every saved record, newest first
	ListRecords(ctx context.Context) ([]*shared.CanonicalMediaRecord, error)
}

// LoggerService defines the interface for logging operations
type LoggerService interface {
	// Info logs an informational message
	Info(message string, args ...interface{})

	// Warning logs a warning message
	Warning(message string, args ...interface{})

	// Error logs an error message
	Error(message string, args ...interface{})

	// Debug logs a debug message
	Debug(message string, args ...interface{})

	// Success logs a success message
	Success(message string, args ...interface{})

	// SetDebugMode enables or disables debug logging
	SetDebugMode(enabled bool)
}
