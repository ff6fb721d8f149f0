package skills

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/jonathan/skill-matcher/internal/parsing"
)

// ExtractedSkills holds the matched canonical skills of a text per category,
// in dictionary order.
type ExtractedSkills [CategoryCount][]string

// Get returns the skills matched for a category.
func (e ExtractedSkills) Get(c Category) []string {
	if !c.Valid() {
		return nil
	}
	return e[c]
}

// Total counts matched skills across all categories.
func (e ExtractedSkills) Total() int {
	total := 0
	for _, list := range e {
		total += len(list)
	}
	return total
}

// Flatten returns the lowercase union of all categories.
func (e ExtractedSkills) Flatten() map[string]struct{} {
	out := make(map[string]struct{}, e.Total())
	for _, list := range e {
		for _, skill := range list {
			out[strings.ToLower(skill)] = struct{}{}
		}
	}
	return out
}

// Merge combines two extractions per category. Skills of e keep their order;
// skills of other are appended in their order unless already present.
func (e ExtractedSkills) Merge(other ExtractedSkills) ExtractedSkills {
	var out ExtractedSkills
	for c := range e {
		merged := slices.Clone(e[c])
		for _, skill := range other[c] {
			if !slices.Contains(e[c], skill) {
				merged = append(merged, skill)
			}
		}
		out[c] = merged
	}
	return out
}

// MarshalJSON encodes the extraction as an object keyed by category name.
func (e ExtractedSkills) MarshalJSON() ([]byte, error) {
	m := make(map[string][]string, CategoryCount)
	for c, list := range e {
		if list == nil {
			list = []string{}
		}
		m[Category(c).String()] = list
	}
	return json.Marshal(m)
}

// Extractor finds dictionary skills in text.
type Extractor struct {
	registry   *Registry
	normalizer *parsing.Normalizer
}

// NewExtractor creates an Extractor reading from registry.
func NewExtractor(registry *Registry, normalizer *parsing.Normalizer) *Extractor {
	if normalizer == nil {
		normalizer = parsing.NewNormalizer()
	}
	return &Extractor{registry: registry, normalizer: normalizer}
}

// Extract matches text against the current registry snapshot.
func (e *Extractor) Extract(text string) ExtractedSkills {
	return e.ExtractWith(e.registry.Snapshot(), text)
}

// ExtractWith matches text against a given snapshot. A single-word skill matches
// when it is one of the normalized tokens; a multi-word skill matches when it is
// a contiguous substring of the space-joined tokens.
func (e *Extractor) ExtractWith(snap *Snapshot, text string) ExtractedSkills {
	return match(snap, e.normalizer.Normalize(text, snap))
}

// ExtractValue matches a decoded value of unknown type. Anything but a string
// yields no skills.
func (e *Extractor) ExtractValue(snap *Snapshot, v any) ExtractedSkills {
	return match(snap, e.normalizer.NormalizeValue(v, snap))
}

func match(snap *Snapshot, tokens []string) ExtractedSkills {
	var out ExtractedSkills
	if len(tokens) == 0 {
		return out
	}

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
	}
	joined := strings.Join(tokens, " ")

	for c, dictionary := range snap.dictionary {
		for _, skill := range dictionary {
			var found bool
			if strings.Contains(skill, " ") {
				found = strings.Contains(joined, skill)
			} else {
				_, found = tokenSet[skill]
			}
			if found {
				out[c] = append(out[c], skill)
			}
		}
	}
	return out
}

// Normalizer exposes the normalizer used by the extractor.
func (e *Extractor) Normalizer() *parsing.Normalizer {
	return e.normalizer
}
