package musicbrainz

import (
	"context"
	"sort"

	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// Base release selection bounds.
const (
	baseScanLimit = 14
	baseMinTracks = 5
	baseMaxTracks = 30
)

// SelectBaseRelease picks the one release whose track listing represents
// the canonical standard edition of a release-group.
//
// Candidates are ordered by release date ascending with missing dates
// last; an exact (case/whitespace-insensitive) title match against the
// group's own title outranks date order. Of the first baseScanLimit
// candidates, the first whose fetched track listing carries a CD format
// and 5..30 tracks wins. When no CD candidate qualifies the scan repeats
// without the format constraint. When nothing qualifies at all the group
// simply has no reconciled track listing; that is not an error.
func (c *Client) SelectBaseRelease(ctx context.Context, groupTitle string, releases []ReleaseSummary) (*ReleaseCandidate, error) {
	if len(releases) == 0 {
		return nil, nil
	}

	ordered := orderBaseCandidates(groupTitle, releases)
	if len(ordered) > baseScanLimit {
		ordered = ordered[:baseScanLimit]
	}

	// First pass: CD-format candidates only.
	if base, err := c.scanForBase(ctx, ordered, true); base != nil || err != nil {
		return base, err
	}
	// Second pass: any format, track-count bound still applies.
	return c.scanForBase(ctx, ordered, false)
}

func (c *Client) scanForBase(ctx context.Context, ordered []ReleaseSummary, requireCD bool) (*ReleaseCandidate, error) {
	for _, summary := range ordered {
		if requireCD && !hasCDFormat(summary.Formats) {
			continue
		}

		cand, err := c.GetReleaseTracks(ctx, summary.ID)
		if err != nil {
			if shared.IsFatal(err) {
				// A vanished release is skippable, not fatal for selection.
				continue
			}
			return nil, err
		}

		n := len(cand.Tracks)
		if n < baseMinTracks || n > baseMaxTracks {
			continue
		}
		if requireCD && !hasCDFormat(cand.Formats) {
			continue
		}
		return cand, nil
	}
	return nil, nil
}

// orderBaseCandidates sorts releases by date ascending (missing dates
// last) and floats exact title matches against the group title to the
// front.
func orderBaseCandidates(groupTitle string, releases []ReleaseSummary) []ReleaseSummary {
	ordered := append([]ReleaseSummary{}, releases...)
	wantTitle := shared.NormalizeTitle(groupTitle)

	sort.SliceStable(ordered, func(i, j int) bool {
		iExact := wantTitle != "" && shared.NormalizeTitle(ordered[i].Title) == wantTitle
		jExact := wantTitle != "" && shared.NormalizeTitle(ordered[j].Title) == wantTitle
		if iExact != jExact {
			return iExact
		}
		return dateLess(ordered[i].Date, ordered[j].Date)
	})
	return ordered
}

// dateLess orders ISO-prefix dates ascending with empty dates last.
func dateLess(a, b string) bool {
	if a == "" {
		return false
	}
	if b == "" {
		return true
	}
	return a < b
}
