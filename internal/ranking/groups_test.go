package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, s := range items {
		out[s] = struct{}{}
	}
	return out
}

func TestResolveGroups_CandidateHasAlternative(t *testing.T) {
	groups := [][]string{{"mysql", "postgresql", "mongodb"}}
	job := set("mysql", "postgresql", "python")
	candidate := set("postgresql", "python")

	res := ResolveGroups(job, candidate, groups)

	require.Len(t, res.Matched, 1)
	assert.Contains(t, []string{"postgresql"}, res.Matched[0])
	assert.Empty(t, res.Missing)
	assert.Equal(t, set("python"), res.Remaining)
	assert.Len(t, job, 3, "input set is not modified")
}

func TestResolveGroups_CandidateLacksGroup(t *testing.T) {
	groups := [][]string{{"mysql", "postgresql", "mongodb"}, {"aws", "azure", "gcp"}}
	job := set("postgresql", "mongodb", "aws")
	candidate := set("azure")

	res := ResolveGroups(job, candidate, groups)

	require.Len(t, res.Missing, 1)
	assert.Contains(t, []string{"postgresql", "mongodb"}, res.Missing[0])
	assert.Equal(t, []string{"azure"}, res.Matched)
	assert.Empty(t, res.Remaining)
	assert.Equal(t, [][]string{{"aws", "azure", "gcp"}}, SatisfiedBy(groups, res.Matched))
}

func TestResolveGroups_IrrelevantGroupSkipped(t *testing.T) {
	groups := [][]string{{"react", "angular", "vue"}}
	res := ResolveGroups(set("python"), set("react"), groups)

	assert.Empty(t, res.Matched)
	assert.Empty(t, res.Missing)
	assert.Equal(t, set("python"), res.Remaining)
}

func TestResolveGroups_RepresentativeFromIntersection(t *testing.T) {
	groups := [][]string{{"a", "b", "c", "d"}}
	job := set("c", "d")
	candidate := set("b", "d")

	for i := 0; i < 20; i++ {
		res := ResolveGroups(job, candidate, groups)
		require.Len(t, res.Matched, 1)
		assert.Contains(t, []string{"b", "d"}, res.Matched[0])
	}
}

func TestResolveGroups_OverlappingGroups(t *testing.T) {
	groups := [][]string{{"aws", "gcp"}, {"gcp", "azure"}}
	res := ResolveGroups(set("gcp"), set(), groups)

	assert.Equal(t, []string{"gcp"}, res.Missing, "second group sees gcp already consumed")
}

func TestSatisfiedBy_OverlappingGroups(t *testing.T) {
	groups := [][]string{{"aws", "gcp"}, {"gcp", "azure"}, {"docker", "podman"}}

	assert.Equal(t, [][]string{{"aws", "gcp"}, {"gcp", "azure"}}, SatisfiedBy(groups, []string{"gcp"}))
	assert.Empty(t, SatisfiedBy(groups, nil))
}

func TestResolveGroups_Empty(t *testing.T) {
	res := ResolveGroups(nil, nil, nil)
	assert.NotNil(t, res.Matched)
	assert.NotNil(t, res.Missing)
	assert.Empty(t, res.Remaining)
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"aws", "java", "python"}, SortedKeys(set("python", "aws", "java")))
	assert.Equal(t, []string{}, SortedKeys(nil))
}
