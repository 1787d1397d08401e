package musicbrainz

import (
	"context"
	"fmt"

	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// Reconciliation is the assembled result of one album reconciliation:
// the canonical identity, the group's basic facts, and the reconciled
// track listing with zero or more bonus sections. Only identity failures
// are terminal; every later stage degrades to partial success.
type Reconciliation struct {
	GroupID       string
	Info          *ReleaseGroupInfo
	Base          *ReleaseCandidate
	Bonus         *BonusEdition
	TrackListing  []shared.TrackEntry
	BonusSections []shared.BonusSection
}

// ReconcileAlbum runs the full album pipeline for one inbound identifier:
// parse, resolve the canonical release-group, fetch facts and the release
// list, select the base edition, and search for a bonus edition.
func (c *Client) ReconcileAlbum(ctx context.Context, rawIdentifier string) (*Reconciliation, error) {
	groupID, err := c.ResolveCanonicalID(ctx, rawIdentifier)
	if err != nil {
		// Identity failures are the only terminal ones.
		return nil, err
	}

	rec := &Reconciliation{GroupID: groupID}

	info, err := c.GetReleaseGroupInfo(ctx, groupID)
	if err != nil {
		if shared.IsFatal(err) {
			return nil, fmt.Errorf("release group %s: %w", groupID, shared.ErrNotFound)
		}
		// Basic facts are best-effort past identity; continue without.
	} else {
		rec.Info = info
	}

	releases, err := c.GetReleaseList(ctx, groupID)
	if err != nil || len(releases) == 0 {
		// No release list means no reconciled tracklist, not a failure.
		return rec, nil
	}

	groupTitle := ""
	if rec.Info != nil {
		groupTitle = rec.Info.Title
	}

	base, err := c.SelectBaseRelease(ctx, groupTitle, releases)
	if err != nil || base == nil {
		return rec, nil
	}
	rec.Base = base
	rec.TrackListing = assembleTracks(base.Tracks)

	bonus, err := c.FindBonusEdition(ctx, base, releases)
	if err == nil && bonus != nil {
		rec.Bonus = bonus
		rec.BonusSections = []shared.BonusSection{{
			Title:  bonus.SectionTitle,
			Tracks: assembleTracks(bonus.Extras),
		}}
	}

	return rec, nil
}

func assembleTracks(tracks []CandidateTrack) []shared.TrackEntry {
	entries := make([]shared.TrackEntry, 0, len(tracks))
	for _, t := range tracks {
		entries = append(entries, shared.TrackEntry{
			Position:      t.Position,
			Title:         t.Title,
			LengthDisplay: shared.FormatTrackLength(t.LengthMs),
		})
	}
	return entries
}
