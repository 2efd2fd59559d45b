package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator_UsesJSONTagNames(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type input struct {
		CustomerName string `json:"customer_name" binding:"required"`
	}
	err := v.Struct(input{})
	require.Error(t, err)

	validationErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.Len(t, validationErrs, 1)
	assert.Equal(t, "customer_name", validationErrs[0].Field())
}

func TestFormatBindingError(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type input struct {
		Name   string   `json:"name" binding:"required"`
		Status string   `json:"status" binding:"omitempty,oneof=draft posted"`
		Items  []string `json:"items" binding:"min=1"`
	}

	err := v.Struct(input{Status: "archived"})
	require.Error(t, err)

	msg := FormatBindingError(err)
	assert.Contains(t, msg, "name: This field is required")
	assert.Contains(t, msg, "status: Must be one of: draft posted")
	assert.Contains(t, msg, "items: Must have at least 1 items")
}

func TestFormatBindingError_PassesThroughNonValidatorErrors(t *testing.T) {
	err := errors.New("unexpected EOF")
	assert.Equal(t, "unexpected EOF", FormatBindingError(err))
}
