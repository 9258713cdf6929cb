package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(errors.New("email is required")), want: http.StatusBadRequest},
		{name: "already exists", err: NewBusiness("Account already exists", CodeAlreadyExists), want: http.StatusBadRequest},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "unauthorized", err: NewBusiness("bad code", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "conflict", err: NewBusiness("dup", CodeConflict), want: http.StatusConflict},
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if assert.ErrorAs(t, tt.err, &gerr) {
				assert.Equal(t, tt.want, gerr.StatusCode())
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	err := NewServer(cause)
	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Internal server error", gerr.Msg())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, TypeServer, gerr.Type())

	err = NewServer(cause, "Failed to send OTP email. Please check your email address.")
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Failed to send OTP email. Please check your email address.", gerr.Msg())
	assert.ErrorIs(t, err, cause)
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "email", "email is invalid")

	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]string{"email": "email is invalid"}, gerr.Fields())
	assert.Equal(t, CodeInvalidInput, gerr.Code())

	err = NewInvalidInput(nil, "dangling")
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())
}

func TestIs(t *testing.T) {
	assert.True(t, Is(NewBusiness("x", CodeNotFound), CodeNotFound))
	assert.False(t, Is(NewBusiness("x", CodeNotFound), CodeUnauthorized))
	assert.False(t, Is(errors.New("plain"), CodeInternal))
}

func TestError_Error(t *testing.T) {
	cause := errors.New("smtp dial: timeout")

	assert.Equal(t, "Internal server error: smtp dial: timeout", NewServer(cause).Error())
	assert.Equal(t, "Invalid OTP code", NewBusiness("Invalid OTP code", CodeUnauthorized).Error())
	assert.Equal(t, "validation error", (&Error{errType: TypeValidation}).Error())
	assert.Equal(t, "NOT_FOUND", CodeNotFound.String())
	assert.Equal(t, "INTERNAL", Code(99).String())
}
