package hydrate

import (
	"strings"
	"unicode"

	"github.com/0zzmandias/Mazarbul-sub000/internal/shared"
)

// Raw community tags are noisy: bare numbers, years and decade labels
// carry no descriptive value and are rejected outright.
var rejectedTagPatterns = []func(string) bool{
	isAllDigits,
	isYearTag,
	isDecadeTag,
}

// FilterTags cleans a raw community tag list: trims, lowercases, drops
// numeric/year/decade noise and duplicates, and caps the result. Order of
// first appearance is preserved.
func FilterTags(raw []string, max int) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		if rejected(tag) {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// NamespaceTags slugifies cleaned tags into the record's tag namespace.
func NamespaceTags(cleaned []string) []string {
	out := make([]string, 0, len(cleaned))
	for _, tag := range cleaned {
		slug := shared.Slugify(tag)
		if slug == "" {
			continue
		}
		out = append(out, "tag."+slug)
	}
	return out
}

// genreNamesFromTags promotes the first few cleaned tags into display
// genres for the flat album genre list.
func genreNamesFromTags(cleaned []string, max int) []string {
	if max > 0 && len(cleaned) > max {
		cleaned = cleaned[:max]
	}
	out := make([]string, 0, len(cleaned))
	for _, tag := range cleaned {
		out = append(out, titleCase(tag))
	}
	return out
}

func rejected(tag string) bool {
	for _, match := range rejectedTagPatterns {
		if match(tag) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isYearTag matches bare 4-digit years like "1994".
func isYearTag(s string) bool {
	return len(s) == 4 && isAllDigits(s)
}

// isDecadeTag matches decade labels like "90s" and "1990s".
func isDecadeTag(s string) bool {
	if !strings.HasSuffix(s, "s") {
		return false
	}
	digits := s[:len(s)-1]
	return (len(digits) == 2 || len(digits) == 4) && isAllDigits(digits)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
