package hydrate

import (
	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// globalTitleKinds are the kinds whose titles are release names, not
// translations: one value fills every language slot.
var globalTitleKinds = map[shared.MediaKind]bool{
	shared.KindGame:  true,
	shared.KindAlbum: true,
}

func hasGlobalTitles(kind shared.MediaKind) bool {
	return globalTitleKinds[kind]
}

// globalPrecedence orders the languages a single global value is picked
// from; translatedPrecedence orders the fallbacks for the default slot of
// translated kinds.
var (
	globalPrecedence     = []string{shared.LangSecondaryA, shared.LangLocal, shared.LangSecondaryB}
	translatedPrecedence = []string{shared.LangLocal, shared.LangSecondaryA, shared.LangSecondaryB}
)

// assembleTitles builds the four-slot title (or synopsis) map from
// per-language provider values. Global-title kinds get one value in every
// slot; translated kinds keep per-language values and compute a default.
// An empty result means no provider supplied anything.
func assembleTitles(kind shared.MediaKind, values map[string]string) map[string]string {
	if hasGlobalTitles(kind) {
		for _, lang := range globalPrecedence {
			if v := values[lang]; v != "" {
				return globalSlots(v)
			}
		}
		for _, v := range values {
			if v != "" {
				return globalSlots(v)
			}
		}
		return map[string]string{}
	}

	out := make(map[string]string, 4)
	for _, lang := range translatedPrecedence {
		if v := values[lang]; v != "" {
			out[lang] = v
		}
	}

	var fallback string
	for _, lang := range translatedPrecedence {
		if v := out[lang]; v != "" {
			fallback = v
			break
		}
	}
	if fallback == "" {
		for _, v := range values {
			if v != "" {
				fallback = v
				break
			}
		}
	}
	if fallback == "" {
		return map[string]string{}
	}
	out[shared.LangDefault] = fallback

	// A language the providers had nothing for gets the default, so
	// callers indexing a slot never see a hole.
	for _, lang := range translatedPrecedence {
		if out[lang] == "" {
			out[lang] = fallback
		}
	}
	return out
}

// globalSlots fills all four language slots with one value.
func globalSlots(value string) map[string]string {
	return map[string]string{
		shared.LangLocal:      value,
		shared.LangSecondaryA: value,
		shared.LangSecondaryB: value,
		shared.LangDefault:    value,
	}
}

// flatGenreNames picks one display name per canonical genre, preferring
// the languages in globalPrecedence order. Ids that have no label at all
// are dropped.
func flatGenreNames(canonical []string, labels map[string]map[string]string) []string {
	out := make([]string, 0, len(canonical))
	for _, id := range canonical {
		if name := anyGenreName(labels[id]); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// genreNamesByLang builds per-language genre name lists for translated
// kinds. A language missing a label for some genre falls back to any
// available name so every list stays the same length and order.
func genreNamesByLang(canonical []string, labels map[string]map[string]string, languages []string) map[string][]string {
	out := make(map[string][]string, len(languages))
	for _, lang := range languages {
		names := make([]string, 0, len(canonical))
		for _, id := range canonical {
			perLang := labels[id]
			name := perLang[lang]
			if name == "" {
				name = anyGenreName(perLang)
			}
			if name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			out[lang] = names
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// anyGenreName returns the best available name for a genre regardless of
// the requested language.
func anyGenreName(perLang map[string]string) string {
	for _, lang := range globalPrecedence {
		if v := perLang[lang]; v != "" {
			return v
		}
	}
	for _, v := range perLang {
		if v != "" {
			return v
		}
	}
	return ""
}
