package ledger

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Taxonomy is the pair of suggestion lists offered by the pickers.
type Taxonomy struct {
	Categories []string `yaml:"categories" json:"categories"`
	Payees     []string `yaml:"payees" json:"payees"`
}

func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Categories: append([]string(nil), Categories...),
		Payees:     append([]string(nil), Payees...),
	}
}

// LoadTaxonomy reads a YAML override. A missing path or an empty list keeps the default.
func LoadTaxonomy(path string) (Taxonomy, error) {
	t := DefaultTaxonomy()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("read taxonomy: %w", err)
	}
	var file Taxonomy
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return t, fmt.Errorf("parse taxonomy: %w", err)
	}
	if cats := dedupe(file.Categories); len(cats) > 0 {
		t.Categories = cats
	}
	if payees := dedupe(file.Payees); len(payees) > 0 {
		t.Payees = payees
	}
	return t, nil
}

// Suggest filters options by a case-insensitive substring, keeping their order.
// An empty query returns every option.
func Suggest(options []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(options))
	for _, o := range options {
		if q == "" || strings.Contains(strings.ToLower(o), q) {
			out = append(out, o)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
