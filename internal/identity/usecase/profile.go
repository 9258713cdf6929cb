package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/notekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/notekeep/internal/pkg/jwt"
)

// Profile returns the projection of the identity behind the session token.
func (s *Usecase) Profile(ctx context.Context) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOTPOutput{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	}, nil
}
