package hydrate

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/0zzmandias/Mazarbul-sub000/internal/api/lastfm"
	"github.com/0zzmandias/Mazarbul-sub000/internal/api/wikidata"
	"github.com/0zzmandias/Mazarbul-sub000/internal/interfaces"
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// Config carries the orchestrator's tunables.
type Config struct {
	// GenreRoots is the canonical genre vocabulary: entity ids that genre
	// claims are folded up into.
	GenreRoots map[string]bool

	// MaxGenres caps how many canonical genres a record carries.
	MaxGenres int

	// MaxTags caps how many namespaced tags an album record carries.
	MaxTags int
}

// DefaultConfig returns the orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		GenreRoots: map[string]bool{},
		MaxGenres:  4,
		MaxTags:    8,
	}
}

// Orchestrator assembles canonical media records by fanning out to the
// provider adapters and reconciling what comes back. Secondary providers
// degrade gracefully; only identity failures are terminal.
type Orchestrator struct {
	config   Config
	kg       interfaces.KnowledgeGraph
	music    interfaces.MusicMetadata
	facts    interfaces.FactsProvider
	coverArt interfaces.CoverArtProvider
	warnings *shared.WarningCollector
}

// New creates an orchestrator. facts and coverArt may be nil when those
// providers are not configured.
func New(config Config, kg interfaces.KnowledgeGraph, music interfaces.MusicMetadata, facts interfaces.FactsProvider, coverArt interfaces.CoverArtProvider, warnings *shared.WarningCollector) *Orchestrator {
	if config.MaxGenres <= 0 {
		config.MaxGenres = DefaultConfig().MaxGenres
	}
	if config.MaxTags <= 0 {
		config.MaxTags = DefaultConfig().MaxTags
	}
	return &Orchestrator{
		config:   config,
		kg:       kg,
		music:    music,
		facts:    facts,
		coverArt: coverArt,
		warnings: warnings,
	}
}

var entityIDRe = regexp.MustCompile(`^Q\d+$`)

// Resolve produces the canonical record for one identifier. Albums go
// through the music-metadata pipeline; every other kind through the
// knowledge graph.
func (o *Orchestrator) Resolve(ctx context.Context, kind shared.MediaKind, identifier string) (*shared.CanonicalMediaRecord, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unsupported media kind %q: %w", kind, shared.ErrInvalidIdentifier)
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("empty identifier: %w", shared.ErrInvalidIdentifier)
	}

	if kind == shared.KindAlbum {
		return o.resolveAlbum(ctx, identifier)
	}
	return o.resolveEntity(ctx, kind, identifier)
}

// resolveEntity hydrates a film, game or book from a knowledge-graph
// entity id.
func (o *Orchestrator) resolveEntity(ctx context.Context, kind shared.MediaKind, id string) (*shared.CanonicalMediaRecord, error) {
	if !entityIDRe.MatchString(id) {
		return nil, fmt.Errorf("malformed entity id %q: %w", id, shared.ErrInvalidIdentifier)
	}

	details, err := o.kg.BuildTechnicalDetails(ctx, id, kind, wikidata.DetailOptions{})
	if err != nil {
		return nil, err
	}

	record := &shared.CanonicalMediaRecord{
		ID:          "wd_" + details.EntityID,
		Kind:        kind,
		Titles:      assembleTitles(kind, details.Labels),
		Synopses:    assembleTitles(kind, details.Descriptions),
		ExternalIDs: map[string]string{"wikidata": details.EntityID},
	}

	if len(record.Titles) == 0 {
		return nil, fmt.Errorf("entity %s has no usable label: %w", id, shared.ErrNotFound)
	}

	if details.CountryCode != "" {
		record.Country = &details.CountryCode
	}
	if details.Year > 0 {
		year := details.Year
		record.Year = &year
	}
	if details.Creator != "" {
		record.PrimaryCreator = &details.Creator
	}
	if details.ImageName != "" {
		poster := commonsFileURL(details.ImageName)
		record.PosterURL = &poster
	}

	o.attachGenres(ctx, record, kind, details.GenreIDs)

	return record, nil
}

// attachGenres folds the raw genre claims into the canonical vocabulary
// and labels them. Failures degrade to a record without genres.
func (o *Orchestrator) attachGenres(ctx context.Context, record *shared.CanonicalMediaRecord, kind shared.MediaKind, genreIDs []string) {
	if len(genreIDs) == 0 {
		return
	}

	canonical, err := o.kg.ResolveCanonicalGenres(ctx, genreIDs, o.config.GenreRoots, o.config.MaxGenres)
	if err != nil {
		o.warn(shared.GenreWalkWarning, record.ID, err.Error())
		return
	}
	if len(canonical) == 0 {
		return
	}

	languages := []string{shared.LangSecondaryA, shared.LangLocal, shared.LangSecondaryB}
	labels, err := o.kg.GenreLabels(ctx, canonical, languages)
	if err != nil {
		o.warn(shared.GenreWalkWarning, record.ID, err.Error())
		return
	}

	if hasGlobalTitles(kind) {
		record.Genres = flatGenreNames(canonical, labels)
		return
	}
	record.GenresByLang = genreNamesByLang(canonical, labels, languages)
}

// resolveAlbum hydrates an album: the music-metadata pipeline supplies
// identity and the track listing, the facts and cover-art providers fill
// in synopsis, tags and artwork.
func (o *Orchestrator) resolveAlbum(ctx context.Context, identifier string) (*shared.CanonicalMediaRecord, error) {
	rec, err := o.music.ReconcileAlbum(ctx, identifier)
	if err != nil {
		return nil, err
	}

	record := &shared.CanonicalMediaRecord{
		ID:            "mb_" + rec.GroupID,
		Kind:          shared.KindAlbum,
		TrackListing:  rec.TrackListing,
		BonusSections: rec.BonusSections,
		ExternalIDs:   map[string]string{"releaseGroupMbid": rec.GroupID},
	}

	var title, artist string
	if rec.Info != nil {
		title = rec.Info.Title
		artist = rec.Info.Artist
		if year := rec.Info.FirstReleaseYear(); year > 0 {
			record.Year = &year
		}
	}
	if rec.Base != nil && rec.Base.Country != "" && len(rec.Base.Country) == 2 {
		country := rec.Base.Country
		record.Country = &country
	}
	if artist != "" {
		record.PrimaryCreator = &artist
	}

	var albumFacts *lastfm.AlbumFacts
	var artURL string

	g, gctx := errgroup.WithContext(ctx)
	if o.facts != nil && o.facts.Enabled() {
		// Prefer the resolved artist+title; when the group-info fetch
		// degraded, the canonical group id still routes to the facts.
		switch {
		case artist != "" && title != "":
			g.Go(func() error {
				f, err := o.facts.GetAlbumInfo(gctx, artist, title)
				if err != nil {
					o.warn(shared.FactsProviderWarning, identifier, err.Error())
					return nil
				}
				albumFacts = f
				return nil
			})
		case rec.GroupID != "":
			g.Go(func() error {
				f, err := o.facts.GetAlbumInfoByMBID(gctx, rec.GroupID)
				if err != nil {
					o.warn(shared.FactsProviderWarning, identifier, err.Error())
					return nil
				}
				albumFacts = f
				return nil
			})
		}
	}
	if o.coverArt != nil && o.coverArt.Enabled() && artist != "" && title != "" {
		g.Go(func() error {
			u, err := o.coverArt.FindAlbumArt(gctx, artist, title)
			if err != nil {
				o.warn(shared.CoverArtWarning, identifier, err.Error())
				return nil
			}
			artURL = u
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; they degrade to warnings

	if albumFacts != nil {
		if title == "" {
			title = albumFacts.Name
		}
		if record.PrimaryCreator == nil && albumFacts.Artist != "" {
			a := albumFacts.Artist
			record.PrimaryCreator = &a
		}
		if albumFacts.Summary != "" {
			record.Synopses = globalSlots(albumFacts.Summary)
		}
		cleaned := FilterTags(albumFacts.RawTags, o.config.MaxTags)
		record.Tags = NamespaceTags(cleaned)
		record.Genres = genreNamesFromTags(cleaned, o.config.MaxGenres)
	}

	if title == "" {
		return nil, fmt.Errorf("album %s has no usable title: %w", identifier, shared.ErrNotFound)
	}
	record.Titles = globalSlots(title)

	switch {
	case albumFacts != nil && albumFacts.ImageURL != "":
		record.PosterURL = &albumFacts.ImageURL
	case artURL != "":
		record.PosterURL = &artURL
	}

	return record, nil
}

func (o *Orchestrator) warn(warningType shared.WarningType, item, details string) {
	if o.warnings == nil {
		return
	}
	switch warningType {
	case shared.GenreWalkWarning:
		o.warnings.AddGenreWalkWarning(item, details)
	case shared.FactsProviderWarning:
		o.warnings.AddWarning(shared.FactsProviderWarning, item, "Failed to fetch secondary facts", details)
	case shared.CoverArtWarning:
		o.warnings.AddCoverArtWarning(item, details)
	default:
		o.warnings.AddWarning(warningType, item, "Degraded lookup", details)
	}
}

// commonsFileURL turns a commons media file name into a stable URL.
func commonsFileURL(name string) string {
	return "https://commons.wikimedia.org/wiki/Special:FilePath/" + url.PathEscape(strings.ReplaceAll(name, " ", "_"))
}
