package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ClientName string `json:"client_name" binding:"required,max=5"`
	Count      int    `json:"count" binding:"gte=0"`
}

func TestSetupValidator_UsesJSONNames(t *testing.T) {
	SetupValidator()

	err := binding.Validator.ValidateStruct(&sampleRequest{Count: -1})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, "client_name", fieldErrs[0].Field())
	assert.Equal(t, "client_name is required", ValidationMessage(fieldErrs[0]))
	assert.Equal(t, "count must be greater than or equal to 0", ValidationMessage(fieldErrs[1]))
}

func TestValidationMessage_Max(t *testing.T) {
	SetupValidator()

	err := binding.Validator.ValidateStruct(&sampleRequest{ClientName: "too long"})
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "client_name must be at most 5 characters", ValidationMessage(fieldErrs[0]))
}
