// Package matching binds OCR form-field labels to operator-configured data
// elements. It is a best-effort heuristic: normalization first, then alias
// lists, a synonym table, word containment, and finally word overlap. The
// first pass that produces a candidate wins, and every element/label pairs
// up at most once.
package matching

import "github.com/docuvault/redactsvc/internal/core/domain"

const overlapThreshold = 0.5

type Matcher struct {
	synonyms map[string]map[string]struct{}
}

// New builds a matcher with the embedded synonym table.
func New() (*Matcher, error) {
	return NewWithSynonyms(defaultSynonymsYAML)
}

// NewWithSynonyms builds a matcher from a caller-provided YAML synonym table.
func NewWithSynonyms(raw []byte) (*Matcher, error) {
	index, err := loadSynonyms(raw)
	if err != nil {
		return nil, err
	}
	return &Matcher{synonyms: index}, nil
}

type candidate struct {
	element domain.DataElement
	// normalized element name
	name string
	// normalized alias forms
	aliases []string
}

// MatchFields pairs extracted labels with data elements. Returns the matches
// in element declaration order and the labels no pass could place.
func (m *Matcher) MatchFields(elements []domain.DataElement, fields []domain.ExtractedField) ([]domain.FieldMatch, []string) {
	if len(elements) == 0 || len(fields) == 0 {
		return nil, allLabels(fields)
	}

	candidates := make([]candidate, 0, len(elements))
	for _, el := range elements {
		c := candidate{element: el, name: Normalize(el.Name)}
		for _, alias := range el.Aliases {
			if n := Normalize(alias); n != "" {
				c.aliases = append(c.aliases, n)
			}
		}
		candidates = append(candidates, c)
	}

	normalizedLabels := make([]string, len(fields))
	for i, f := range fields {
		normalizedLabels[i] = Normalize(f.Label)
	}

	usedElement := make([]bool, len(candidates))
	usedField := make([]bool, len(fields))
	matched := make(map[int]domain.FieldMatch, len(candidates))

	passes := []struct {
		kind  domain.MatchKind
		score func(c candidate, label string) (float64, bool)
	}{
		{domain.MatchExact, m.exactPass},
		{domain.MatchAlias, m.aliasPass},
		{domain.MatchSynonym, m.synonymPass},
		{domain.MatchContainment, m.containmentPass},
		{domain.MatchOverlap, m.overlapPass},
	}

	for _, pass := range passes {
		for ci, c := range candidates {
			if usedElement[ci] || c.name == "" {
				continue
			}
			bestField, bestScore := -1, 0.0
			for fi := range fields {
				if usedField[fi] || normalizedLabels[fi] == "" {
					continue
				}
				score, ok := pass.score(c, normalizedLabels[fi])
				if ok && score > bestScore {
					bestField, bestScore = fi, score
				}
			}
			if bestField < 0 {
				continue
			}
			usedElement[ci] = true
			usedField[bestField] = true
			matched[ci] = domain.FieldMatch{
				Element:    c.element.Name,
				Label:      fields[bestField].Label,
				Value:      fields[bestField].Value,
				Kind:       pass.kind,
				Score:      bestScore,
				Page:       fields[bestField].Page,
				Confidence: fields[bestField].Confidence,
				Redact:     c.element.Redact,
			}
		}
	}

	matches := make([]domain.FieldMatch, 0, len(matched))
	for ci := range candidates {
		if fm, ok := matched[ci]; ok {
			matches = append(matches, fm)
		}
	}
	var unmatched []string
	for fi, f := range fields {
		if !usedField[fi] {
			unmatched = append(unmatched, f.Label)
		}
	}
	return matches, unmatched
}

func (m *Matcher) exactPass(c candidate, label string) (float64, bool) {
	if c.name == label {
		return 1.0, true
	}
	return 0, false
}

func (m *Matcher) aliasPass(c candidate, label string) (float64, bool) {
	for _, alias := range c.aliases {
		if alias == label {
			return 0.95, true
		}
	}
	return 0, false
}

func (m *Matcher) synonymPass(c candidate, label string) (float64, bool) {
	if m.synonymous(c.name, label) {
		return 0.9, true
	}
	for _, alias := range c.aliases {
		if m.synonymous(alias, label) {
			return 0.9, true
		}
	}
	return 0, false
}

func (m *Matcher) containmentPass(c candidate, label string) (float64, bool) {
	if containsAllWords(c.name, label) {
		return 0.8, true
	}
	for _, alias := range c.aliases {
		if containsAllWords(alias, label) {
			return 0.8, true
		}
	}
	return 0, false
}

func (m *Matcher) overlapPass(c candidate, label string) (float64, bool) {
	best := jaccard(c.name, label)
	for _, alias := range c.aliases {
		if j := jaccard(alias, label); j > best {
			best = j
		}
	}
	if best >= overlapThreshold {
		return best, true
	}
	return 0, false
}

func (m *Matcher) synonymous(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if set, ok := m.synonyms[a]; ok {
		if _, hit := set[b]; hit {
			return true
		}
	}
	if set, ok := m.synonyms[b]; ok {
		if _, hit := set[a]; hit {
			return true
		}
	}
	return false
}

func allLabels(fields []domain.ExtractedField) []string {
	if len(fields) == 0 {
		return nil
	}
	labels := make([]string, 0, len(fields))
	for _, f := range fields {
		labels = append(labels, f.Label)
	}
	return labels
}
