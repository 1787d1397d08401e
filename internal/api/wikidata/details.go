package wikidata

import (
	"context"
	"fmt"

	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// TechnicalDetails is the per-media composite pulled from one entity
// fetch: typing, taxonomy, provenance and creator facts, plus the labels
// and descriptions the orchestrator assembles titles from.
type TechnicalDetails struct {
	EntityID      string
	Blocked       bool
	InstanceTypes []string
	GenreIDs      []string
	CountryCode   string // 2-letter region code, "" when unresolved
	Year          int    // earliest publication year, 0 when unknown
	Creator       string // display name, "" when unknown
	Labels        map[string]string
	Descriptions  map[string]string
	ImageName     string // commons file name from P18, "" when absent
}

// DetailOptions narrows what BuildTechnicalDetails fetches.
type DetailOptions struct {
	Languages   []string
	SkipCountry bool
	SkipCreator bool
}

// creatorProps maps a media kind to the property holding its primary
// creator (director, developer, author, performer).
var creatorProps = map[shared.MediaKind]string{
	shared.KindFilm:  PropDirector,
	shared.KindGame:  PropDeveloper,
	shared.KindBook:  PropAuthor,
	shared.KindAlbum: PropPerformer,
}

// BuildTechnicalDetails pulls instance-type, genre, country, year and
// creator facts for one entity in a single pass. Entities whose
// instance-of matches the blocked set come back with Blocked set; callers
// must not persist those as concrete works.
func (c *Client) BuildTechnicalDetails(ctx context.Context, id string, kind shared.MediaKind, opts DetailOptions) (*TechnicalDetails, error) {
	languages := opts.Languages
	if len(languages) == 0 {
		languages = []string{shared.LangLocal, shared.LangSecondaryA, shared.LangSecondaryB}
	}

	ent, err := c.GetEntity(ctx, id, languages, []string{"labels", "descriptions", "claims"})
	if err != nil {
		return nil, err
	}

	details := &TechnicalDetails{
		EntityID:      ent.ID,
		InstanceTypes: ent.EntityIDs(PropInstanceOf),
		GenreIDs:      ent.EntityIDs(PropGenre),
		Year:          ent.EarliestYear(PropPublicationDate),
		ImageName:     ent.FirstString(PropImage),
		Labels:        make(map[string]string, len(languages)),
		Descriptions:  make(map[string]string, len(languages)),
	}

	for _, lang := range languages {
		if label := ent.Label(lang); label != "" {
			details.Labels[lang] = label
		}
		if desc := ent.Description(lang); desc != "" {
			details.Descriptions[lang] = desc
		}
	}

	for _, typ := range details.InstanceTypes {
		if c.blocked[typ] {
			details.Blocked = true
			return details, fmt.Errorf("entity %s is typed %s: %w", id, typ, shared.ErrBlocked)
		}
	}

	if !opts.SkipCountry {
		if code, err := c.resolveCountryCode(ctx, ent); err == nil {
			details.CountryCode = code
		}
		// Country is an optional fact; lookup errors degrade to "".
	}

	if !opts.SkipCreator {
		if name, err := c.resolveCreator(ctx, ent, kind); err == nil {
			details.Creator = name
		}
	}

	return details, nil
}

// resolveCountryCode performs the mandatory two-hop country resolution:
// the work's country-of-origin claim points at a country entity, and the
// 2-letter code is a property of that entity, not of the work.
func (c *Client) resolveCountryCode(ctx context.Context, ent *Entity) (string, error) {
	countryID := ent.FirstEntityID(PropCountryOfOrigin)
	if countryID == "" {
		return "", nil
	}

	country, err := c.GetEntity(ctx, countryID, []string{"en"}, []string{"claims"})
	if err != nil {
		return "", err
	}

	code := country.FirstString(PropISO3166Alpha2)
	if len(code) != 2 {
		return "", nil
	}
	return code, nil
}

// resolveCreator looks up the kind-specific creator claim and fetches its
// display label.
func (c *Client) resolveCreator(ctx context.Context, ent *Entity, kind shared.MediaKind) (string, error) {
	prop, ok := creatorProps[kind]
	if !ok {
		return "", nil
	}
	creatorID := ent.FirstEntityID(prop)
	if creatorID == "" {
		return "", nil
	}

	creator, err := c.GetEntity(ctx, creatorID, []string{"en"}, []string{"labels"})
	if err != nil {
		return "", err
	}
	return creator.Label("en"), nil
}
