package wikidata

import (
	"context"
	"fmt"
)

// ResolveGenreToRoot folds a specific genre entity up into one of the
// configured root genres by walking "subclass of" (P279) breadth-first.
// The walk deduplicates visited nodes so cyclic taxonomies terminate, and
// gives up after maxDepth hops. Canonicalization is best-effort: when no
// root is reachable the deepest resolvable ancestor is returned, and when
// nothing resolves at all the input id comes back unchanged.
//
// An empty root set means no canonicalization was requested; the input id
// is returned as-is without any network call.
func (c *Client) ResolveGenreToRoot(ctx context.Context, genreID string, roots map[string]bool, maxDepth int) (string, error) {
	if len(roots) == 0 || genreID == "" {
		return genreID, nil
	}
	if roots[genreID] {
		return genreID, nil
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	visited := map[string]bool{genreID: true}
	frontier := []string{genreID}
	lastAncestor := genreID

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		entities, err := c.GetEntities(ctx, frontier, []string{"en"}, []string{"claims"})
		if err != nil {
			return lastAncestor, fmt.Errorf("genre walk stopped at depth %d: %w", depth, err)
		}

		var next []string
		for _, nodeID := range frontier {
			ent, ok := entities[nodeID]
			if !ok {
				continue
			}
			for _, parent := range ent.EntityIDs(PropSubclassOf) {
				if roots[parent] {
					return parent, nil
				}
				if visited[parent] {
					continue
				}
				visited[parent] = true
				next = append(next, parent)
			}
		}

		if len(next) > 0 {
			lastAncestor = next[0]
		}
		frontier = next
	}

	return lastAncestor, nil
}

// ResolveCanonicalGenres canonicalizes at most maxGenres of the given
// genre ids, taken in input order, and deduplicates the results (distinct
// inputs may collapse onto the same root).
func (c *Client) ResolveCanonicalGenres(ctx context.Context, genreIDs []string, roots map[string]bool, maxGenres int) ([]string, error) {
	if maxGenres <= 0 || len(genreIDs) == 0 {
		return nil, nil
	}
	if len(genreIDs) > maxGenres {
		genreIDs = genreIDs[:maxGenres]
	}

	seen := make(map[string]bool, len(genreIDs))
	var canonical []string
	for _, id := range genreIDs {
		root, err := c.ResolveGenreToRoot(ctx, id, roots, defaultMaxDepth)
		if err != nil {
			// Best-effort: a failed walk still yields its deepest ancestor.
			if root == "" {
				continue
			}
		}
		if root == "" || seen[root] {
			continue
		}
		seen[root] = true
		canonical = append(canonical, root)
	}
	return canonical, nil
}

// GenreLabels fetches display labels for canonical genre ids in each of
// the requested languages, falling back to English when a language has
// no label.
func (c *Client) GenreLabels(ctx context.Context, genreIDs []string, languages []string) (map[string]map[string]string, error) {
	langs := append([]string{}, languages...)
	langs = appendMissing(langs, "en")

	entities, err := c.GetEntities(ctx, genreIDs, langs, []string{"labels"})
	if err != nil {
		return nil, err
	}

	labels := make(map[string]map[string]string, len(entities))
	for id, ent := range entities {
		perLang := make(map[string]string, len(languages))
		for _, lang := range languages {
			label := ent.Label(lang)
			if label == "" {
				label = ent.Label("en")
			}
			if label != "" {
				perLang[lang] = label
			}
		}
		labels[id] = perLang
	}
	return labels, nil
}

func appendMissing(langs []string, lang string) []string {
	for _, l := range langs {
		if l == lang {
			return langs
		}
	}
	return append(langs, lang)
}
