package skills

import "fmt"

// InvalidTargetError is returned when a feedback target or category name is unknown.
type InvalidTargetError struct {
	Target string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid skill category: %q", e.Target)
}

// ConflictError is returned when a skill is inserted into a category while it
// already belongs to a different one.
type ConflictError struct {
	Skill    string
	Existing Category
	Wanted   Category
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("skill %q already belongs to %s, cannot add to %s", e.Skill, e.Existing, e.Wanted)
}

// FeedbackError represents malformed feedback input (empty skill, self alias, ...).
type FeedbackError struct {
	Field   string
	Message string
}

func (e *FeedbackError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("feedback error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("feedback error: %s", e.Message)
}
