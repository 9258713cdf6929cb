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

type VerifyOTPInput struct {
	Email string          `validate:"required,email,max=255"`
	Code  string          `validate:"required,max=32" label:"otp"`
	Mode  entity.AuthMode `validate:"required,authmode" label:"type"`
	Name  string          `validate:"max=100"`
}

// VerifyOTPOutput is the public projection of the verified identity.
type VerifyOTPOutput struct {
	ID    int64
	Email string
	Name  string
	Image string
}

// VerifyOTP consumes the newest valid code for the email and finalizes the
// identity. Wrong and expired codes fail the same way.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (_ *VerifyOTPOutput, err error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	in.Code = stripSpaces(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Mode = entity.AuthModeFromString(in.Mode.String())
	if in.Mode == "" {
		in.Mode = entity.AuthModeSignin
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	defer func() { s.count(ctx, s.verifiedCounter, in.Mode, err) }()

	digest, err := s.hmac.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	record, err := s.repoDB.GetLatestValidOTP(ctx, in.Email, string(digest), now)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp not matched or expired", "email", in.Email)
		return nil, goerror.NewBusiness(msgInvalidOTP, goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get latest valid otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	consumed, err := s.repoDB.MarkOTPVerified(ctx, record.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark otp verified", "otp_id", record.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !consumed {
		slog.WarnContext(ctx, "otp already consumed", "otp_id", record.ID)
		return nil, goerror.NewBusiness(msgInvalidOTP, goerror.CodeUnauthorized)
	}

	user, err := s.finalizeIdentity(ctx, in, now)
	if err != nil {
		return nil, err
	}

	if err := s.repoMessaging.PublishIdentityVerified(ctx, IdentityVerifiedEvent{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Mode:       in.Mode,
		VerifiedAt: now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish identity verified", "user_id", user.ID, "error", err)
	}

	return &VerifyOTPOutput{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	}, nil
}

func (s *Usecase) finalizeIdentity(ctx context.Context, in VerifyOTPInput, now time.Time) (*entity.User, error) {
	data := entity.UpsertUser{
		Email:      in.Email,
		Name:       in.Name,
		VerifiedAt: &now,
		At:         now,
	}

	if in.Mode == entity.AuthModeSignup {
		data.ID = s.uid.Generate()
		user, err := s.repoDB.UpsertUser(ctx, data)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo upsert verified user", "email", in.Email, "error", err)
			return nil, goerror.NewServer(err)
		}
		return user, nil
	}

	data.Name = ""
	user, err := s.repoDB.MarkUserVerified(ctx, data)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness(msgNoAccount, goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark user verified", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}
