package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vsrunapp/vsrun-server/internal/errors"
	"github.com/vsrunapp/vsrun-server/internal/validation"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required"`
}

func TestValidate_Passes(t *testing.T) {
	v := validation.New()

	err := v.Validate(registerRequest{
		Email:       "alex@example.com",
		Password:    "a-long-password",
		DisplayName: "Alex",
	})
	assert.NoError(t, err)
}

func TestValidate_ReportsFieldsByJSONTag(t *testing.T) {
	v := validation.New()

	err := v.Validate(registerRequest{
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "display_name")
}
