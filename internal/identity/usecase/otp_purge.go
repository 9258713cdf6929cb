package usecase

import (
	"context"
	"log/slog"
)

// PurgeExpiredOTP removes codes whose expiry has passed and returns how many
// were deleted.
func (s *Usecase) PurgeExpiredOTP(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "PurgeExpiredOTP")
	defer span.End()

	n, err := s.repoDB.DeleteExpiredOTP(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired otp", "error", err)
		return 0, err
	}

	if n > 0 {
		slog.InfoContext(ctx, "expired otp purged", "count", n)
	}

	return n, nil
}
