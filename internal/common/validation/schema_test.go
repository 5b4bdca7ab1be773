package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intakeSchema(t *testing.T) *Schema {
	s, err := Compile(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"applicant_region": map[string]interface{}{"type": "string"},
			"coverage_amount":  map[string]interface{}{"type": "number"},
		},
		"required": []string{"applicant_region", "coverage_amount"},
	})
	require.NoError(t, err)
	return s
}

func TestSchema_Valid(t *testing.T) {
	s := intakeSchema(t)

	err := s.Validate(map[string]interface{}{
		"applicant_region": "US",
		"coverage_amount":  float64(2000000),
	})
	assert.NoError(t, err)
}

func TestSchema_SingleViolationReported(t *testing.T) {
	s := intakeSchema(t)

	err := s.Validate(map[string]interface{}{
		"applicant_region": "US",
		"coverage_amount":  "plenty",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coverage_amount")
}

func TestSchema_MissingRequiredField(t *testing.T) {
	s := intakeSchema(t)

	err := s.Validate(map[string]interface{}{"coverage_amount": float64(100)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "applicant_region")
}

func TestCompile_InvalidDocument(t *testing.T) {
	_, err := Compile(map[string]interface{}{
		"type":     "object",
		"required": "applicant_region", // must be an array
	})
	assert.Error(t, err)
}
