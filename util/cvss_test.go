package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCVSSScore(t *testing.T) {
	score := CalculateCVSSScore("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")
	assert.InDelta(t, 9.8, score, 0.01)

	assert.Zero(t, CalculateCVSSScore(""))
	assert.Zero(t, CalculateCVSSScore("AV:N/AC:L"))
	assert.Zero(t, CalculateCVSSScore("CVSS:3.1/garbage"))
}

func TestGetSeverityRating(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetSeverityRating(0))
	assert.Equal(t, "LOW", GetSeverityRating(3.9))
	assert.Equal(t, "MEDIUM", GetSeverityRating(4.0))
	assert.Equal(t, "HIGH", GetSeverityRating(7.0))
	assert.Equal(t, "CRITICAL", GetSeverityRating(9.0))
}

func TestNormalizeSeverityLabel(t *testing.T) {
	assert.Equal(t, "MEDIUM", NormalizeSeverityLabel("Moderate"))
	assert.Equal(t, "CRITICAL", NormalizeSeverityLabel("critical"))
	assert.Equal(t, "UNKNOWN", NormalizeSeverityLabel("whatever"))
}
