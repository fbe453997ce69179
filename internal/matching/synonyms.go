package matching

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed synonyms.yaml
var defaultSynonymsYAML []byte

// loadSynonyms parses a YAML synonym table and indexes it both ways:
// every term in a group maps to every other term in the same group.
func loadSynonyms(raw []byte) (map[string]map[string]struct{}, error) {
	var table map[string][]string
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse synonym table: %w", err)
	}

	index := make(map[string]map[string]struct{}, len(table))
	link := func(a, b string) {
		if a == "" || b == "" || a == b {
			return
		}
		if index[a] == nil {
			index[a] = make(map[string]struct{})
		}
		index[a][b] = struct{}{}
	}

	for key, values := range table {
		group := make([]string, 0, len(values)+1)
		group = append(group, Normalize(key))
		for _, v := range values {
			group = append(group, Normalize(v))
		}
		for _, a := range group {
			for _, b := range group {
				link(a, b)
			}
		}
	}
	return index, nil
}
