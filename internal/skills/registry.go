package skills

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/skill-matcher/internal/parsing"
)

// Snapshot is an immutable view of the registry. Analyses read from a single
// snapshot so they never observe a half-applied feedback update.
type Snapshot struct {
	dictionary [CategoryCount][]string
	index      map[string]Category
	aliases    map[string]string
	phrases    []string
	groups     [][]string
}

// Skills returns a copy of the canonical skills of a category in insertion order.
func (s *Snapshot) Skills(c Category) []string {
	if !c.Valid() {
		return nil
	}
	return slices.Clone(s.dictionary[c])
}

// Canonical implements parsing.AliasTable.
func (s *Snapshot) Canonical(key string) (string, bool) {
	v, ok := s.aliases[key]
	return v, ok
}

// Phrases implements parsing.AliasTable. Keys are sorted.
func (s *Snapshot) Phrases() []string {
	return s.phrases
}

// Aliases returns a copy of the alias table.
func (s *Snapshot) Aliases() map[string]string {
	out := make(map[string]string, len(s.aliases))
	for k, v := range s.aliases {
		out[k] = v
	}
	return out
}

// Groups returns a copy of the alternative groups in list order.
func (s *Snapshot) Groups() [][]string {
	out := make([][]string, len(s.groups))
	for i, g := range s.groups {
		out[i] = slices.Clone(g)
	}
	return out
}

// Seed returns the snapshot contents in seed-file form.
func (s *Snapshot) Seed() Seed {
	return Seed{
		Programming: s.Skills(Programming),
		Technical:   s.Skills(Technical),
		Soft:        s.Skills(Soft),
		Management:  s.Skills(Management),
		Aliases:     s.Aliases(),
		Groups:      s.Groups(),
	}
}

func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{
		index:   make(map[string]Category, len(s.index)),
		aliases: s.Aliases(),
		phrases: slices.Clone(s.phrases),
		groups:  s.Groups(),
	}
	for c := range s.dictionary {
		next.dictionary[c] = slices.Clone(s.dictionary[c])
	}
	for k, v := range s.index {
		next.index[k] = v
	}
	return next
}

// addSkill inserts skill into c. A skill whose text form differs once cleaned
// ("node.js" reads as "nodejs") also gets that form as an alias, so it can be
// extracted from literal text.
func (s *Snapshot) addSkill(c Category, skill string) (bool, error) {
	if existing, ok := s.index[skill]; ok {
		if existing == c {
			return false, nil
		}
		return false, &ConflictError{Skill: skill, Existing: existing, Wanted: c}
	}

	key := parsing.CleanKey(skill)
	if key == "" {
		return false, &FeedbackError{Field: "skill", Message: fmt.Sprintf("%q has no letters or digits", skill)}
	}
	if key != skill {
		if owner, ok := s.index[key]; ok {
			return false, &FeedbackError{Field: "skill", Message: fmt.Sprintf("%q reads as %s skill %q", skill, owner, key)}
		}
	}

	s.dictionary[c] = append(s.dictionary[c], skill)
	s.index[skill] = c
	if key != skill {
		if _, ok := s.aliases[key]; !ok {
			s.setAlias(key, skill)
		}
	}
	return true, nil
}

func (s *Snapshot) setAlias(key, canonical string) {
	if _, exists := s.aliases[key]; !exists && strings.Contains(key, " ") {
		s.phrases = append(s.phrases, key)
		sort.Strings(s.phrases)
	}
	s.aliases[key] = canonical
}

// addToGroup adds skill to the group containing member, or creates a singleton
// group when member is empty or unknown and skill is not grouped yet.
func (s *Snapshot) addToGroup(skill, member string) bool {
	if member != "" && member != skill {
		for i, g := range s.groups {
			if slices.Contains(g, member) {
				if slices.Contains(g, skill) {
					return false
				}
				s.groups[i] = append(g, skill)
				return true
			}
		}
	}
	for _, g := range s.groups {
		if slices.Contains(g, skill) {
			return false
		}
	}
	s.groups = append(s.groups, []string{skill})
	return true
}

// Registry owns the process-wide skill dictionary, alias table and alternative
// groups. All three are guarded by one lock; every mutation publishes a fresh
// snapshot.
type Registry struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewRegistry builds a registry from seed contents.
func NewRegistry(seed Seed) (*Registry, error) {
	snap, err := seed.build()
	if err != nil {
		return nil, err
	}
	return &Registry{current: snap}, nil
}

// NewDefaultRegistry builds a registry from the built-in defaults.
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultSeed())
	if err != nil {
		// The built-in seed is disjoint and well formed.
		panic("skills: invalid default seed: " + err.Error())
	}
	return r
}

// Snapshot returns the current immutable view.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Registry) mutate(fn func(next *Snapshot) (bool, error)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.current.clone()
	changed, err := fn(next)
	if err != nil || !changed {
		return false, err
	}
	r.current = next
	return true, nil
}

// AddSkill inserts a skill into a category. It reports whether the dictionary
// changed and fails with *ConflictError when the skill lives in another category.
func (r *Registry) AddSkill(c Category, skill string) (bool, error) {
	if !c.Valid() {
		return false, &InvalidTargetError{Target: c.String()}
	}
	canonical := CanonicalSkill(skill)
	if canonical == "" {
		return false, &FeedbackError{Field: "skill", Message: "must not be empty"}
	}
	return r.mutate(func(next *Snapshot) (bool, error) {
		return next.addSkill(c, canonical)
	})
}

// SetAlias maps a surface form to a canonical skill, overwriting any previous mapping.
func (r *Registry) SetAlias(original, canonical string) error {
	key := parsing.CleanKey(original)
	value := CanonicalSkill(canonical)
	if key == "" {
		return &FeedbackError{Field: "original", Message: "must not be empty"}
	}
	if value == "" {
		return &FeedbackError{Field: "skill", Message: "must not be empty"}
	}
	if key == value {
		return &FeedbackError{Field: "original", Message: "alias must differ from its canonical form"}
	}
	_, err := r.mutate(func(next *Snapshot) (bool, error) {
		next.setAlias(key, value)
		return true, nil
	})
	return err
}

// AddToGroup adds skill to the alternative group that contains member. With no
// matching group a new singleton group is created unless skill is already grouped.
func (r *Registry) AddToGroup(skill, member string) (bool, error) {
	canonical := CanonicalSkill(skill)
	if canonical == "" {
		return false, &FeedbackError{Field: "skill", Message: "must not be empty"}
	}
	anchor := CanonicalSkill(member)
	return r.mutate(func(next *Snapshot) (bool, error) {
		return next.addToGroup(canonical, anchor), nil
	})
}

// ApplyFeedback dispatches a feedback request on its target name.
func (r *Registry) ApplyFeedback(target, skill, original string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case TargetGroups:
		return r.AddToGroup(skill, original)
	case TargetAliases:
		if err := r.SetAlias(original, skill); err != nil {
			return false, err
		}
		return true, nil
	}

	c, err := ParseCategory(target)
	if err != nil {
		return false, err
	}
	return r.AddSkill(c, skill)
}

// CanonicalSkill lowercases a skill and collapses internal whitespace.
func CanonicalSkill(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), " ")
}
