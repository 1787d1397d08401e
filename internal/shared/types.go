package shared

// MediaKind identifies one of the four supported media types.
type MediaKind string

const (
	KindFilm  MediaKind = "film"
	KindGame  MediaKind = "game"
	KindBook  MediaKind = "book"
	KindAlbum MediaKind = "album"
)

// IsValid reports whether k is one of the four supported kinds.
func (k MediaKind) IsValid() bool {
	switch k {
	case KindFilm, KindGame, KindBook, KindAlbum:
		return true
	}
	return false
}

// Language slot keys used in title/synopsis maps.
const (
	LangLocal      = "pt"
	LangSecondaryA = "en"
	LangSecondaryB = "es"
	LangDefault    = "default"
)

// TrackEntry is one track of a canonical track listing.
type TrackEntry struct {
	Position      int     `json:"position"`
	Title         string  `json:"title"`
	LengthDisplay *string `json:"lengthDisplay"`
}

// BonusSection holds the extra tracks contributed by a bonus edition.
type BonusSection struct {
	Title  string       `json:"title"`
	Tracks []TrackEntry `json:"tracks"`
}

// CanonicalMediaRecord is the engine's sole output type: one
// internally-consistent record reconciled across providers.
type CanonicalMediaRecord struct {
	ID       string            `json:"id"`
	Kind     MediaKind         `json:"kind"`
	Titles   map[string]string `json:"titles"`
	Synopses map[string]string `json:"synopses"`

	// Genres is a flat ordered list for global-title kinds (game, album).
	// GenresByLang is set instead for translated kinds (film, book).
	Genres       []string            `json:"genres,omitempty"`
	GenresByLang map[string][]string `json:"genresByLang,omitempty"`

	Country        *string `json:"country"`
	Year           *int    `json:"year"`
	PosterURL      *string `json:"posterUrl"`
	BackdropURL    *string `json:"backdropUrl"`
	PrimaryCreator *string `json:"primaryCreator"`

	TrackListing  []TrackEntry   `json:"trackListing,omitempty"`
	BonusSections []BonusSection `json:"bonusSections,omitempty"`

	Tags        []string          `json:"tags,omitempty"`
	ExternalIDs map[string]string `json:"externalIds"`
}

// DefaultTitle returns the record's default title, or "" when unset.
func (r *CanonicalMediaRecord) DefaultTitle() string {
	if r == nil || r.Titles == nil {
		return ""
	}
	return r.Titles[LangDefault]
}

// ResolveStats summarizes a batch resolution run.
type ResolveStats struct {
	SuccessCount int
	SkippedCount int
	FailedCount  int
	FailedItems  []string
}
