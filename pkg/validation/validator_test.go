package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestToDetails_ValidationErrors(t *testing.T) {
	t.Parallel()

	v := validator.New()
	err := v.Struct(sample{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["Email"])
	assert.Equal(t, "must be at least 8 characters long", details["Password"])
}

func TestToDetails_Nil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, ToDetails(nil))
}

func TestToDetails_UnknownError(t *testing.T) {
	t.Parallel()
	details := ToDetails(assert.AnError)
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, details)
}
