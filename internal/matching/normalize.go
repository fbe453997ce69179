package matching

import (
	"strings"
	"unicode"
)

// Normalize folds an OCR label or element name into a comparable form:
// lowercase, trailing colon dropped, underscores/hyphens treated as spaces,
// remaining punctuation stripped, whitespace collapsed.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, ":")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == '/':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func words(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

func wordSet(normalized string) map[string]struct{} {
	ws := words(normalized)
	set := make(map[string]struct{}, len(ws))
	for _, w := range ws {
		set[w] = struct{}{}
	}
	return set
}

// containsAllWords reports whether every word of the smaller of a/b occurs
// in the other. Single shared stopword-ish tokens are too weak a signal, so
// the contained side must carry at least one word of length > 2.
func containsAllWords(a, b string) bool {
	aw, bw := wordSet(a), wordSet(b)
	if len(aw) == 0 || len(bw) == 0 {
		return false
	}
	inner, outer := aw, bw
	if len(bw) < len(aw) {
		inner, outer = bw, aw
	}
	meaningful := false
	for w := range inner {
		if _, ok := outer[w]; !ok {
			return false
		}
		if len(w) > 2 {
			meaningful = true
		}
	}
	return meaningful
}

// jaccard computes word-set overlap between two normalized strings.
func jaccard(a, b string) float64 {
	aw, bw := wordSet(a), wordSet(b)
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	inter := 0
	for w := range aw {
		if _, ok := bw[w]; ok {
			inter++
		}
	}
	union := len(aw) + len(bw) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
