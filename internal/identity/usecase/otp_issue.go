package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/notekeep/internal/identity/entity"
	"github.com/shandysiswandi/notekeep/internal/pkg/goerror"
)

type IssueOTPInput struct {
	Email string          `validate:"required,email,max=255"`
	Name  string          `validate:"max=100"`
	Mode  entity.AuthMode `validate:"required,authmode" label:"type"`
}

type IssueOTPOutput struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// IssueOTP provisions the identity for the requested mode, replaces any
// previous codes for the email with a fresh one and emails it. The identity
// write is kept even when delivery fails.
func (s *Usecase) IssueOTP(ctx context.Context, in IssueOTPInput) (_ *IssueOTPOutput, err error) {
	ctx, span := s.startSpan(ctx, "IssueOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Mode = entity.AuthModeFromString(in.Mode.String())

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	defer func() { s.count(ctx, s.issuedCounter, in.Mode, err) }()

	now := s.clock.Now()

	if err := s.provisionIdentity(ctx, in, now); err != nil {
		return nil, err
	}

	if err := s.repoDB.DeleteOTPByEmail(ctx, in.Email); err != nil {
		slog.WarnContext(ctx, "failed to repo delete otp by email", "email", in.Email, "error", err)
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	digest, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.otpTTL()
	record := entity.OTPCode{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		Code:      string(digest),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if err := s.repoDB.CreateOTP(ctx, record); err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoNotifier.SendOTP(ctx, OTPNotification{Email: in.Email, Code: code, TTL: ttl}); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "email", in.Email, "error", err)

		if derr := s.repoDB.DeleteOTPByID(ctx, record.ID); derr != nil {
			slog.ErrorContext(ctx, "failed to repo delete otp after delivery failure", "otp_id", record.ID, "error", derr)
		}

		return nil, goerror.NewServer(err, msgDeliveryFailed)
	}

	return &IssueOTPOutput{
		Email:     in.Email,
		Code:      code,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *Usecase) provisionIdentity(ctx context.Context, in IssueOTPInput, now time.Time) error {
	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}
	exists := err == nil

	if in.Mode == entity.AuthModeSignin {
		if !exists {
			return goerror.NewBusiness(msgNoAccount, goerror.CodeNotFound)
		}
		return nil
	}

	if exists && user.IsVerified() {
		return goerror.NewBusiness(msgAccountExists, goerror.CodeAlreadyExists)
	}

	if _, err := s.repoDB.UpsertUser(ctx, entity.UpsertUser{
		ID:    s.uid.Generate(),
		Email: in.Email,
		Name:  in.Name,
		At:    now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert user", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
