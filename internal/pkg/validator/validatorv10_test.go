package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type issueRequest struct {
	Email    string `validate:"required,email"`
	AuthMode string `validate:"required,authmode"`
	Name     string `validate:"max=5"`
}

func TestV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	var _ Validator = v

	assert.NoError(t, v.Validate(issueRequest{Email: "jane@example.com", AuthMode: "signup"}))
	assert.NoError(t, v.Validate(issueRequest{Email: "jane@example.com", AuthMode: "signin", Name: "Ann"}))

	err = v.Validate(issueRequest{Email: "not-an-email", AuthMode: "login", Name: "Annabelle"})
	require.Error(t, err)

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email must be a valid email address", verr.Values()["email"])
	assert.Equal(t, "AuthMode must be either signup or signin", verr.Values()["auth_mode"])
	assert.Equal(t, "Name must be a maximum of 5 characters in length", verr.Values()["name"])
	assert.Contains(t, verr.Error(), "auth_mode")
}

func TestV10ValidationError_Empty(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
}

type verifyRequest struct {
	Code string `validate:"required" label:"otp"`
	Mode string `validate:"required,authmode" label:"type"`
	Note string `validate:"required" label:"-"`
}

func TestV10Validator_Label(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(verifyRequest{Mode: "register"})

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, V10ValidationError{
		"otp":  "otp is a required field",
		"type": "type must be either signup or signin",
		"note": "Note is a required field",
	}, verr)
}
