// Package skills holds the categorized skill dictionary, the alias table and the
// alternative skill groups, and extracts categorized skills from free text.
package skills

import (
	"fmt"
	"strings"
)

// Category tags one of the four skill dictionaries.
type Category int

// The category set is closed. Order here is the iteration order everywhere.
const (
	Programming Category = iota
	Technical
	Soft
	Management

	// CategoryCount is the number of categories, sized for per-category arrays.
	CategoryCount = iota
)

// Feedback targets that are not dictionary categories.
const (
	TargetGroups  = "alternative_technical_skills_groups"
	TargetAliases = "skill_aliases"
)

// IsFeedbackTarget reports whether name is a category or one of the
// non-category feedback targets.
func IsFeedbackTarget(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TargetGroups, TargetAliases:
		return true
	}
	_, err := ParseCategory(name)
	return err == nil
}

var categoryNames = [CategoryCount]string{
	Programming: "programming_skills",
	Technical:   "technical_skills",
	Soft:        "soft_skills",
	Management:  "management_skills",
}

// Categories returns all categories in canonical order.
func Categories() []Category {
	return []Category{Programming, Technical, Soft, Management}
}

// String returns the external name of the category, e.g. "programming_skills".
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	return c >= 0 && c < CategoryCount
}

// ParseCategory maps an external category name to a Category.
func ParseCategory(name string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == normalized {
			return Category(i), nil
		}
	}
	return 0, &InvalidTargetError{Target: name}
}

// MarshalText lets Category be used as a JSON object key.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText parses the external category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Weights assigns a relative importance to every category.
type Weights map[Category]float64

// DefaultWeights returns the reference weighting: programming 0.3, technical 0.3,
// soft 0.2, management 0.2.
func DefaultWeights() Weights {
	return Weights{
		Programming: 0.3,
		Technical:   0.3,
		Soft:        0.2,
		Management:  0.2,
	}
}

// Total sums all weights.
func (w Weights) Total() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	for c, v := range w {
		if v < 0 {
			return fmt.Errorf("weight for %s must be non-negative, got %v", c, v)
		}
	}
	return nil
}
