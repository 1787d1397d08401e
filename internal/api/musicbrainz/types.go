package musicbrainz

import "strings"

// Wire types. The MusicBrainz API omits fields freely depending on the
// inc parameters; absent fields unmarshal to zero values and the mapping
// functions below translate into the engine's own types. Raw wire shapes
// never leave this package.

// Artist represents a MusicBrainz artist
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArtistCredit represents artist credit information
type ArtistCredit struct {
	Name   string `json:"name"`
	Artist Artist `json:"artist"`
}

// MediaTrack represents a track within media
type MediaTrack struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Length    int    `json:"length"`
	Recording struct {
		Title  string `json:"title"`
		Length int    `json:"length"`
	} `json:"recording"`
}

// Media represents one medium (disc, cassette, download) of a release
type Media struct {
	Format     string       `json:"format"`
	TrackCount int          `json:"track-count"`
	Tracks     []MediaTrack `json:"tracks"`
}

// ReleaseGroup represents a MusicBrainz release group back-reference
type ReleaseGroup struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Release represents a MusicBrainz release (one edition of an album)
type Release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	Country      string         `json:"country"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Media        []Media        `json:"media"`
	ReleaseGroup *ReleaseGroup  `json:"release-group"`
}

type releaseGroupResponse struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	FirstReleaseDate string         `json:"first-release-date"`
	PrimaryType      string         `json:"primary-type"`
	ArtistCredit     []ArtistCredit `json:"artist-credit"`
}

type browseReleasesResponse struct {
	Releases     []Release `json:"releases"`
	ReleaseCount int       `json:"release-count"`
}

type releaseSearchResponse struct {
	Releases []Release `json:"releases"`
}

func (rg *releaseGroupResponse) artistName() string {
	for _, credit := range rg.ArtistCredit {
		if credit.Name != "" {
			return credit.Name
		}
		if credit.Artist.Name != "" {
			return credit.Artist.Name
		}
	}
	return ""
}

// Engine-facing types.

// ReleaseGroupInfo is a release-group's basic facts.
type ReleaseGroupInfo struct {
	ID               string
	Title            string
	Artist           string
	FirstReleaseDate string
	PrimaryType      string
}

// FirstReleaseYear returns the 4-digit year of the group's first release,
// or 0 when unknown.
func (g *ReleaseGroupInfo) FirstReleaseYear() int {
	return yearOf(g.FirstReleaseDate)
}

// ReleaseSummary is one release as listed under a release-group, before
// its track listing has been fetched.
type ReleaseSummary struct {
	ID         string
	Title      string
	Date       string
	Country    string
	Status     string
	Formats    []string
	TrackCount int
}

// CandidateTrack is one track of a fetched release.
type CandidateTrack struct {
	Position int
	Title    string
	LengthMs int
}

// ReleaseCandidate is a fully fetched release: summary facts plus its
// complete track listing. Ephemeral, never persisted.
type ReleaseCandidate struct {
	ReleaseID string
	Title     string
	Date      string
	Country   string
	Status    string
	Formats   []string
	Tracks    []CandidateTrack
}

// HasCDFormat reports whether any medium carries a CD-compatible format tag.
func hasCDFormat(formats []string) bool {
	for _, f := range formats {
		if strings.Contains(strings.ToUpper(f), "CD") {
			return true
		}
	}
	return false
}

func (r Release) toSummary() ReleaseSummary {
	summary := ReleaseSummary{
		ID:      r.ID,
		Title:   r.Title,
		Date:    r.Date,
		Country: r.Country,
		Status:  r.Status,
	}
	for _, m := range r.Media {
		if m.Format != "" {
			summary.Formats = append(summary.Formats, m.Format)
		}
		summary.TrackCount += m.TrackCount
	}
	return summary
}

func (r Release) toCandidate() *ReleaseCandidate {
	cand := &ReleaseCandidate{
		ReleaseID: r.ID,
		Title:     r.Title,
		Date:      r.Date,
		Country:   r.Country,
		Status:    r.Status,
	}
	position := 0
	for _, m := range r.Media {
		if m.Format != "" {
			cand.Formats = append(cand.Formats, m.Format)
		}
		for _, t := range m.Tracks {
			position++
			title := t.Title
			if title == "" {
				title = t.Recording.Title
			}
			length := t.Length
			if length == 0 {
				length = t.Recording.Length
			}
			cand.Tracks = append(cand.Tracks, CandidateTrack{
				Position: position,
				Title:    title,
				LengthMs: length,
			})
		}
	}
	return cand
}

// yearOf extracts a 4-digit year from a MusicBrainz date ("2006",
// "2006-04", "2006-04-28"), or 0.
func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
