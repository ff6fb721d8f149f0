package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisReport_JSON(t *testing.T) {
	report := AnalysisReport{
		MatchedKeywords: []string{"aws", "python"},
		MatchPercentage: 100,
		MatchLevel:      MatchPerfect,
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"matchedKeywords":["aws","python"],"matchPercentage":100,"matchLevel":"Perfect","missingKeywords":[]}`, string(data))
}

func TestErrorReport(t *testing.T) {
	report := ErrorReport("Error in analyze_match: boom")

	assert.Equal(t, MatchError, report.MatchLevel)
	assert.Equal(t, 0, report.MatchPercentage)
	assert.Empty(t, report.MatchedKeywords)
	assert.Empty(t, report.MissingKeywords)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"matchedKeywords":[],"matchPercentage":0,"matchLevel":"Error","missingKeywords":[],"error":"Error in analyze_match: boom"}`, string(data))
}
