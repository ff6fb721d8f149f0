package skills

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/skill-matcher/internal/parsing"
	"github.com/jonathan/skill-matcher/internal/schemas"
)

// Seed is the on-disk form of a registry. YAML and JSON files are both accepted.
type Seed struct {
	Programming []string          `yaml:"programming_skills" json:"programming_skills"`
	Technical   []string          `yaml:"technical_skills" json:"technical_skills"`
	Soft        []string          `yaml:"soft_skills" json:"soft_skills"`
	Management  []string          `yaml:"management_skills" json:"management_skills"`
	Aliases     map[string]string `yaml:"skill_aliases,omitempty" json:"skill_aliases,omitempty"`
	Groups      [][]string        `yaml:"alternative_technical_skills_groups,omitempty" json:"alternative_technical_skills_groups,omitempty"`
}

func (s Seed) categoryLists() [CategoryCount][]string {
	return [CategoryCount][]string{
		Programming: s.Programming,
		Technical:   s.Technical,
		Soft:        s.Soft,
		Management:  s.Management,
	}
}

// build applies the same invariants as runtime feedback: canonical lowercase
// skills, disjoint categories and no self-referencing aliases.
func (s Seed) build() (*Snapshot, error) {
	snap := &Snapshot{
		index:   make(map[string]Category),
		aliases: make(map[string]string),
	}

	for c, list := range s.categoryLists() {
		for _, raw := range list {
			skill := CanonicalSkill(raw)
			if skill == "" {
				continue
			}
			if _, err := snap.addSkill(Category(c), skill); err != nil {
				return nil, fmt.Errorf("seed: %w", err)
			}
		}
	}

	for original, canonical := range s.Aliases {
		key := parsing.CleanKey(original)
		value := CanonicalSkill(canonical)
		if key == "" || value == "" {
			continue
		}
		if key == value {
			return nil, fmt.Errorf("seed: %w", &FeedbackError{Field: "skill_aliases", Message: fmt.Sprintf("alias %q maps to itself", original)})
		}
		snap.setAlias(key, value)
	}

	for _, group := range s.Groups {
		var members []string
		for _, raw := range group {
			skill := CanonicalSkill(raw)
			if skill == "" || slices.Contains(members, skill) {
				continue
			}
			members = append(members, skill)
		}
		if len(members) > 0 {
			snap.groups = append(snap.groups, members)
		}
	}

	return snap, nil
}

// LoadSeedFile reads a YAML or JSON registry seed, validates it against the
// registry schema and returns it.
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed content.
func ParseSeed(data []byte) (Seed, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Seed{}, fmt.Errorf("failed to parse registry file: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := schemas.ValidateDocument(schemas.RegistrySchema(), doc); err != nil {
		return Seed{}, err
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to decode registry file: %w", err)
	}
	return seed, nil
}

// WriteSeed encodes a seed as YAML.
func WriteSeed(w io.Writer, seed Seed) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seed); err != nil {
		return fmt.Errorf("failed to encode registry seed: %w", err)
	}
	return enc.Close()
}
