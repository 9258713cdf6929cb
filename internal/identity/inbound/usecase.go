package inbound

import (
	"context"

	"github.com/shandysiswandi/notekeep/internal/identity/usecase"
)

type ucJob interface {
	PurgeExpiredOTP(ctx context.Context) (int64, error)
}

type uc interface {
	ucJob

	IssueOTP(ctx context.Context, in usecase.IssueOTPInput) (*usecase.IssueOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	Profile(ctx context.Context) (*usecase.VerifyOTPOutput, error)
}
