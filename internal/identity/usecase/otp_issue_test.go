package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/notekeep/internal/identity/entity"
	"github.com/shandysiswandi/notekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/notekeep/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUsecase_IssueOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			input IssueOTPInput
			field string
		}{
			{name: "missing email", input: IssueOTPInput{Mode: entity.AuthModeSignup}, field: "email"},
			{name: "bad email", input: IssueOTPInput{Email: "not-an-email", Mode: entity.AuthModeSignup}, field: "email"},
			{name: "missing mode", input: IssueOTPInput{Email: "a@b.co"}, field: "type"},
			{name: "unknown mode", input: IssueOTPInput{Email: "a@b.co", Mode: "register"}, field: "type"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := newTestUsecase(t)

				out, err := d.uc.IssueOTP(ctx, tt.input)
				assert.Nil(t, out)

				assert.True(t, goerror.Is(err, goerror.CodeInvalidInput))

				var verr validator.V10ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Values(), tt.field)
			})
		}
	})

	t.Run("signup for a new email", func(t *testing.T) {
		d := newTestUsecase(t)
		d.notifier.On("SendOTP", mock.Anything, OTPNotification{
			Email: "ana@example.com",
			Code:  "482913",
			TTL:   10 * time.Minute,
		}).Return(nil).Once()

		out, err := d.uc.IssueOTP(ctx, IssueOTPInput{
			Email: "  Ana@Example.com ",
			Name:  " Ana ",
			Mode:  "SIGNUP",
		})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", out.Email)
		assert.Equal(t, "482913", out.Code)
		assert.Equal(t, testNow.Add(10*time.Minute), out.ExpiresAt)

		user := d.store.users["ana@example.com"]
		require.NotNil(t, user)
		assert.Equal(t, "Ana", user.Name)
		assert.False(t, user.IsVerified())

		otps := d.store.otpsFor("ana@example.com")
		require.Len(t, otps, 1)
		assert.NotEqual(t, "482913", otps[0].Code)
		assert.True(t, d.hmac.Verify(otps[0].Code, "482913"))
		assert.False(t, otps[0].Verified)
	})

	t.Run("signup for an unverified account keeps the existing row", func(t *testing.T) {
		d := newTestUsecase(t)
		seeded := d.seedUser("ana@example.com", "Ana", false)
		d.notifier.On("SendOTP", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Mode: entity.AuthModeSignup})
		require.NoError(t, err)

		user := d.store.users["ana@example.com"]
		assert.Equal(t, seeded.ID, user.ID)
		assert.Equal(t, "Ana", user.Name)
	})

	t.Run("signup for a verified account", func(t *testing.T) {
		d := newTestUsecase(t)
		d.seedUser("ana@example.com", "Ana", true)

		_, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Mode: entity.AuthModeSignup})
		assertBusiness(t, err, goerror.CodeAlreadyExists, msgAccountExists)
		assert.Empty(t, d.store.otpsFor("ana@example.com"))
	})

	t.Run("signin without an account", func(t *testing.T) {
		d := newTestUsecase(t)

		_, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ghost@example.com", Mode: entity.AuthModeSignin})
		assertBusiness(t, err, goerror.CodeNotFound, msgNoAccount)
		assert.Empty(t, d.store.users)
		assert.Empty(t, d.store.otpsFor("ghost@example.com"))
	})

	t.Run("signin does not touch the account", func(t *testing.T) {
		d := newTestUsecase(t)
		d.seedUser("ana@example.com", "Ana", true)
		d.notifier.On("SendOTP", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Name: "Renamed", Mode: entity.AuthModeSignin})
		require.NoError(t, err)
		assert.Equal(t, "Ana", d.store.users["ana@example.com"].Name)
	})

	t.Run("reissue replaces earlier codes", func(t *testing.T) {
		d := newTestUsecase(t)
		d.otp.codes = []string{"111111", "222222"}
		d.notifier.On("SendOTP", mock.Anything, mock.Anything).Return(nil).Twice()

		_, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Mode: entity.AuthModeSignup})
		require.NoError(t, err)
		d.clock.Advance(time.Minute)
		_, err = d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Mode: entity.AuthModeSignup})
		require.NoError(t, err)

		otps := d.store.otpsFor("ana@example.com")
		require.Len(t, otps, 1)
		assert.True(t, d.hmac.Verify(otps[0].Code, "222222"))
	})

	t.Run("delete of old codes failing is not fatal", func(t *testing.T) {
		d := newTestUsecase(t)
		d.store.errDeleteByEmail = errors.New("db timeout")
		d.notifier.On("SendOTP", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Mode: entity.AuthModeSignup})
		require.NoError(t, err)
		assert.Len(t, d.store.otpsFor("ana@example.com"), 1)
	})

	t.Run("delivery failure removes the code and keeps the identity", func(t *testing.T) {
		d := newTestUsecase(t)
		d.notifier.On("SendOTP", mock.Anything, mock.Anything).Return(errors.New("smtp: 550 mailbox unavailable")).Once()

		out, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Mode: entity.AuthModeSignup})
		assert.Nil(t, out)
		assertBusiness(t, err, goerror.CodeInternal, msgDeliveryFailed)

		assert.Empty(t, d.store.otpsFor("ana@example.com"))
		assert.Len(t, d.store.deletedIDs, 1)
		assert.Contains(t, d.store.users, "ana@example.com")
	})

	t.Run("delivery failure with failing cleanup", func(t *testing.T) {
		d := newTestUsecase(t)
		d.store.errDeleteByID = errors.New("db timeout")
		d.notifier.On("SendOTP", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		_, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Mode: entity.AuthModeSignup})
		assertBusiness(t, err, goerror.CodeInternal, msgDeliveryFailed)
	})

	t.Run("repository failures", func(t *testing.T) {
		tests := []struct {
			name  string
			setup func(d *testDeps)
		}{
			{name: "get user", setup: func(d *testDeps) { d.store.errGetUser = errors.New("db down") }},
			{name: "upsert user", setup: func(d *testDeps) { d.store.errUpsertUser = errors.New("db down") }},
			{name: "create otp", setup: func(d *testDeps) { d.store.errCreateOTP = errors.New("db down") }},
			{name: "generate code", setup: func(d *testDeps) { d.otp.err = errors.New("entropy exhausted") }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := newTestUsecase(t)
				tt.setup(d)

				_, err := d.uc.IssueOTP(ctx, IssueOTPInput{Email: "ana@example.com", Mode: entity.AuthModeSignup})
				assertBusiness(t, err, goerror.CodeInternal, "Internal server error")
			})
		}
	})
}
