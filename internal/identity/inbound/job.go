package inbound

import (
	"context"

	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/goroutine"
)

// RegisterJob schedules the periodic cleanup of expired codes. It stops when
// ctx is cancelled.
func RegisterJob(ctx context.Context, cfg config.Config, routine *goroutine.Manager, uc ucJob) {
	interval := cfg.GetMinute("modules.identity.otp_purge_interval_minutes")

	routine.Every(ctx, "identity.purge_expired_otp", interval, func(ctx context.Context) error {
		_, err := uc.PurgeExpiredOTP(ctx)
		return err
	})
}
