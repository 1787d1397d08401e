package musicbrainz

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// Bonus-edition search bounds and scoring weights. The weights are
// empirically tuned; treat them as configuration, not correctness
// constraints.
const (
	bonusScanLimit     = 18
	bonusMaxExtras     = 5
	bonusMaxSurplus    = 8
	bonusMinCoverage   = 0.85
	weightCoverage     = 1000.0
	weightOfficial     = 25.0
	weightSingleExtra  = 60.0
	weightExtraPenalty = 8.0
	weightEdition      = 12.0
	recencyBonusCap    = 10.0
	recencyBaseYear    = 1970
	recencyYearsPerPt  = 5.0
)

var editionKeywordRe = regexp.MustCompile(`(?i)(remaster(?:ed)?|deluxe|expanded|anniversary|reissue|special edition|bonus|collector'?s edition|extended)`)

// BonusEdition is the winning bonus candidate: its extra tracks beyond
// the base edition, renumbered to continue the base listing.
type BonusEdition struct {
	ReleaseID    string
	SectionTitle string
	Extras       []CandidateTrack
	Score        float64
}

// FindBonusEdition searches the releases other than the base for the
// single best "bonus edition": a CD release covering at least 85% of the
// base's (normalized) track titles with one to five extra tracks. The
// most recent bonusScanLimit candidates are considered. No qualifying
// candidate means no bonus section, which is not an error.
func (c *Client) FindBonusEdition(ctx context.Context, base *ReleaseCandidate, releases []ReleaseSummary) (*BonusEdition, error) {
	if base == nil || len(base.Tracks) == 0 {
		return nil, nil
	}

	baseCount := len(base.Tracks)
	baseTitles := make(map[string]bool, baseCount)
	for _, t := range base.Tracks {
		baseTitles[shared.NormalizeTitle(t.Title)] = true
	}

	candidates := orderBonusCandidates(base.ReleaseID, releases)
	if len(candidates) > bonusScanLimit {
		candidates = candidates[:bonusScanLimit]
	}

	var best *BonusEdition
	for _, summary := range candidates {
		// Cheap pre-filters on the summary before fetching a tracklist.
		if summary.TrackCount > 0 &&
			(summary.TrackCount <= baseCount || summary.TrackCount > baseCount+bonusMaxSurplus) {
			continue
		}
		if !hasCDFormat(summary.Formats) {
			continue
		}

		cand, err := c.GetReleaseTracks(ctx, summary.ID)
		if err != nil {
			if shared.IsFatal(err) {
				continue
			}
			return best, err
		}

		edition := scoreBonusCandidate(base, baseTitles, cand)
		if edition == nil {
			continue
		}
		if best == nil || edition.Score > best.Score {
			best = edition
		}
	}

	if best != nil {
		renumberExtras(best, baseCount)
	}
	return best, nil
}

// scoreBonusCandidate applies the qualification gates and the scoring
// formula to one fetched candidate. Returns nil when the candidate does
// not qualify.
func scoreBonusCandidate(base *ReleaseCandidate, baseTitles map[string]bool, cand *ReleaseCandidate) *BonusEdition {
	baseCount := len(base.Tracks)
	candCount := len(cand.Tracks)

	if candCount <= baseCount || candCount > baseCount+bonusMaxSurplus {
		return nil
	}
	if !hasCDFormat(cand.Formats) {
		return nil
	}

	candTitles := make(map[string]bool, candCount)
	for _, t := range cand.Tracks {
		candTitles[shared.NormalizeTitle(t.Title)] = true
	}

	covered := 0
	for title := range baseTitles {
		if candTitles[title] {
			covered++
		}
	}
	coverage := float64(covered) / float64(len(baseTitles))
	if coverage < bonusMinCoverage {
		return nil
	}

	var extras []CandidateTrack
	for _, t := range cand.Tracks {
		if !baseTitles[shared.NormalizeTitle(t.Title)] {
			extras = append(extras, t)
		}
	}
	if len(extras) == 0 || len(extras) > bonusMaxExtras {
		return nil
	}

	score := coverage * weightCoverage
	if strings.EqualFold(cand.Status, "Official") {
		score += weightOfficial
	}
	if len(extras) == 1 {
		score += weightSingleExtra
	}
	score -= weightExtraPenalty * float64(len(extras))
	keyword := editionKeywordRe.FindString(cand.Title)
	if keyword != "" {
		score += weightEdition
	}
	if year := yearOf(cand.Date); year > recencyBaseYear {
		recency := float64(year-recencyBaseYear) / recencyYearsPerPt
		if recency > recencyBonusCap {
			recency = recencyBonusCap
		}
		score += recency
	}

	return &BonusEdition{
		ReleaseID:    cand.ReleaseID,
		SectionTitle: bonusSectionTitle(cand, keyword),
		Extras:       extras,
		Score:        score,
	}
}

// renumberExtras makes the extra tracks continue the base listing
// contiguously.
func renumberExtras(edition *BonusEdition, baseCount int) {
	for i := range edition.Extras {
		edition.Extras[i].Position = baseCount + 1 + i
	}
}

// bonusSectionTitle names the section from release year, edition keyword
// and country, whichever are known.
func bonusSectionTitle(cand *ReleaseCandidate, keyword string) string {
	var parts []string
	if year := yearOf(cand.Date); year > 0 {
		parts = append(parts, fmt.Sprintf("%d", year))
	}
	if keyword != "" {
		parts = append(parts, capitalizeWords(strings.ToLower(keyword)))
	}
	if cand.Country != "" {
		parts = append(parts, "("+cand.Country+")")
	}
	if len(parts) == 0 {
		return "Bonus Tracks"
	}
	return strings.Join(parts, " ")
}

// capitalizeWords uppercases the first rune of each word.
func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// orderBonusCandidates drops the base release and sorts the rest most
// recent first (missing dates last).
func orderBonusCandidates(baseReleaseID string, releases []ReleaseSummary) []ReleaseSummary {
	var rest []ReleaseSummary
	for _, r := range releases {
		if r.ID != baseReleaseID {
			rest = append(rest, r)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		// Inverse of dateLess, keeping empties last.
		if rest[i].Date == "" {
			return false
		}
		if rest[j].Date == "" {
			return true
		}
		return rest[i].Date > rest[j].Date
	})
	return rest
}
