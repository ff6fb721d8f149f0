package ranking

import (
	"slices"
	"sort"
)

// GroupResolution is the outcome of matching alternative groups.
type GroupResolution struct {
	// Matched holds one representative per group the candidate satisfies.
	Matched []string
	// Missing holds one representative per group the job asks for and the
	// candidate does not satisfy.
	Missing []string
	// Remaining is the job skill set with every group-in-job member removed.
	Remaining map[string]struct{}
}

// ResolveGroups walks groups in order. A group is relevant when it intersects
// the job set; it is satisfied when it also intersects the candidate set. The
// representative is the first group member, in group order, that lies in the
// relevant intersection. Neither input set is modified.
func ResolveGroups(job, candidate map[string]struct{}, groups [][]string) GroupResolution {
	res := GroupResolution{
		Matched:   []string{},
		Missing:   []string{},
		Remaining: make(map[string]struct{}, len(job)),
	}
	for skill := range job {
		res.Remaining[skill] = struct{}{}
	}

	for _, group := range groups {
		var inJob []string
		for _, member := range group {
			if _, ok := res.Remaining[member]; ok {
				inJob = append(inJob, member)
			}
		}
		if len(inJob) == 0 {
			continue
		}

		if rep, ok := firstIn(group, candidate); ok {
			res.Matched = append(res.Matched, rep)
		} else {
			res.Missing = append(res.Missing, inJob[0])
		}

		for _, member := range inJob {
			delete(res.Remaining, member)
		}
	}

	return res
}

// SatisfiedBy returns the groups that contain any of the matched
// representatives. Every member of such a group counts as covered.
func SatisfiedBy(groups [][]string, matched []string) [][]string {
	var out [][]string
	for _, group := range groups {
		for _, member := range group {
			if slices.Contains(matched, member) {
				out = append(out, group)
				break
			}
		}
	}
	return out
}

func firstIn(group []string, set map[string]struct{}) (string, bool) {
	for _, member := range group {
		if _, ok := set[member]; ok {
			return member, true
		}
	}
	return "", false
}

// SortedKeys returns the members of a set in ascending order.
func SortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
