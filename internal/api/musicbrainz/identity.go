package musicbrainz

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// Inbound album identifier schemes, decided by prefix.
const (
	SchemeReleaseGroup = "release-group"
	SchemeMBID         = "mbid"
	SchemeArtistAlbum  = "artist-album"
)

const (
	prefixReleaseGroup = SchemeReleaseGroup + ":"
	prefixMBID         = SchemeMBID + ":"
	prefixArtistAlbum  = SchemeArtistAlbum + ":"
)

// AlbumIdentifier is a parsed inbound album identifier.
type AlbumIdentifier struct {
	Scheme string
	// Value is the raw id for release-group and mbid schemes.
	Value string
	// Artist and Album carry the decoded free-text pair for the
	// artist-album scheme.
	Artist string
	Album  string
}

// ParseAlbumIdentifier decodes an inbound identifier into one of the
// three supported schemes. Anything else fails with ErrInvalidIdentifier
// before any network call; callers must not proceed on a best guess.
func ParseAlbumIdentifier(raw string) (AlbumIdentifier, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(raw, prefixReleaseGroup):
		id := strings.TrimSpace(strings.TrimPrefix(raw, prefixReleaseGroup))
		if id == "" {
			return AlbumIdentifier{}, fmt.Errorf("empty release-group id: %w", shared.ErrInvalidIdentifier)
		}
		return AlbumIdentifier{Scheme: SchemeReleaseGroup, Value: id}, nil

	case strings.HasPrefix(raw, prefixMBID):
		id := strings.TrimSpace(strings.TrimPrefix(raw, prefixMBID))
		if id == "" {
			return AlbumIdentifier{}, fmt.Errorf("empty mbid: %w", shared.ErrInvalidIdentifier)
		}
		return AlbumIdentifier{Scheme: SchemeMBID, Value: id}, nil

	case strings.HasPrefix(raw, prefixArtistAlbum):
		payload := strings.TrimPrefix(raw, prefixArtistAlbum)
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return AlbumIdentifier{}, fmt.Errorf("artist-album pair must be comma-separated: %w", shared.ErrInvalidIdentifier)
		}
		artist := decodeIDPart(parts[0])
		album := decodeIDPart(parts[1])
		if artist == "" || album == "" {
			return AlbumIdentifier{}, fmt.Errorf("artist-album pair has an empty side: %w", shared.ErrInvalidIdentifier)
		}
		return AlbumIdentifier{Scheme: SchemeArtistAlbum, Artist: artist, Album: album}, nil
	}

	return AlbumIdentifier{}, fmt.Errorf("unrecognized album identifier %q: %w", shared.TruncateString(raw, 60), shared.ErrInvalidIdentifier)
}

// decodeIDPart undoes the id-safe encoding of one side of an
// artist-album pair: base64url first, percent-encoding as fallback, and
// the raw text when neither applies.
func decodeIDPart(part string) string {
	part = strings.TrimSpace(part)
	if part == "" {
		return ""
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(part); err == nil && len(decoded) > 0 {
		return strings.TrimSpace(string(decoded))
	}
	if unescaped, err := url.QueryUnescape(part); err == nil {
		return strings.TrimSpace(unescaped)
	}
	return part
}

// ResolveCanonicalID upgrades any of the three identifier schemes to the
// canonical release-group id. Results, including confirmed negatives, are
// memoized in the canonical-id cache keyed by the raw identifier.
func (c *Client) ResolveCanonicalID(ctx context.Context, raw string) (string, error) {
	ident, err := ParseAlbumIdentifier(raw)
	if err != nil {
		return "", err
	}

	if ident.Scheme == SchemeReleaseGroup {
		// Already canonical.
		return ident.Value, nil
	}

	if groupID, ok := c.canonicalIDs.Get(raw); ok {
		if groupID == "" {
			return "", fmt.Errorf("identifier %q: %w", raw, shared.ErrNotFound)
		}
		return groupID, nil
	}

	var groupID string
	switch ident.Scheme {
	case SchemeMBID:
		groupID, err = c.upgradeMBID(ctx, ident.Value)
	case SchemeArtistAlbum:
		groupID, err = c.resolveByArtistAlbum(ctx, ident.Artist, ident.Album)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.canonicalIDs.Set(raw, "")
		}
		return "", err
	}

	c.canonicalIDs.Set(raw, groupID)
	return groupID, nil
}

// upgradeMBID resolves an opaque release-level id to its owning
// release-group. Some providers hand out release-group ids under the same
// shape, so a failed release lookup retries the id as a group directly.
func (c *Client) upgradeMBID(ctx context.Context, mbid string) (string, error) {
	path := fmt.Sprintf("release/%s?inc=release-groups", mbid)
	var rel Release
	err := c.getJSON(ctx, path, &rel)
	if err == nil && rel.ReleaseGroup != nil && rel.ReleaseGroup.ID != "" {
		return rel.ReleaseGroup.ID, nil
	}
	if err != nil && !isNotFound(err) {
		return "", err
	}

	// Not a release, or the release exposes no back-reference: the id may
	// be a release-group itself.
	var rg releaseGroupResponse
	if err := c.getJSON(ctx, fmt.Sprintf("release-group/%s", mbid), &rg); err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("mbid %s: %w", mbid, shared.ErrNotFound)
		}
		return "", err
	}
	if rg.ID == "" {
		return "", fmt.Errorf("mbid %s: %w", mbid, shared.ErrNotFound)
	}
	return rg.ID, nil
}

// resolveByArtistAlbum runs an exact artist+title search and upgrades the
// best hit to its release-group.
func (c *Client) resolveByArtistAlbum(ctx context.Context, artist, album string) (string, error) {
	query := fmt.Sprintf("artist:%q AND release:%q", artist, album)
	path := fmt.Sprintf("release?query=%s&limit=1", url.QueryEscape(query))

	var result releaseSearchResponse
	if err := c.getJSON(ctx, path, &result); err != nil {
		return "", err
	}
	if len(result.Releases) == 0 {
		return "", fmt.Errorf("no release found for %s - %s: %w", artist, album, shared.ErrNotFound)
	}

	hit := result.Releases[0]
	if hit.ReleaseGroup != nil && hit.ReleaseGroup.ID != "" {
		return hit.ReleaseGroup.ID, nil
	}
	// Search hits sometimes omit the group; upgrade through the release id.
	return c.upgradeMBID(ctx, hit.ID)
}
