package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleBody struct {
	Name   string   `json:"name" binding:"required,min=2"`
	Email  string   `json:"email" binding:"required,email"`
	Credit *float64 `json:"credit" binding:"required,gt=0"`
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	credit := -1.0
	err := binding.Validator.ValidateStruct(&sampleBody{Name: "a", Email: "nope", Credit: &credit})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-1")
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)

	byField := map[string]string{}
	for _, d := range resp.Error.Details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "Must be at least 2 characters", byField["name"])
	assert.Equal(t, "Invalid email format", byField["email"])
	assert.Equal(t, "Must be greater than 0", byField["credit"])
}

func TestFormatValidationErrors_MissingField(t *testing.T) {
	SetupValidator()

	err := binding.Validator.ValidateStruct(&sampleBody{Name: "ab", Email: "a@b.co"})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "")
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "credit", resp.Error.Details[0].Field)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
}

func TestFormatValidationErrors_NotAValidationError(t *testing.T) {
	resp := FormatValidationErrors(errors.New("boom"), "")
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}
