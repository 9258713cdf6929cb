package inbound

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/notekeep/internal/identity/entity"
	"github.com/shandysiswandi/notekeep/internal/identity/usecase"
	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/notekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/notekeep/internal/pkg/jwt"
	"github.com/shandysiswandi/notekeep/internal/pkg/router"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	idempotencyScope     = "identity:otp:issue:"
	envDevelopment       = "development"
)

type HTTPEndpoint struct {
	uc   uc
	cfg  config.Config
	jwt  jwt.JWT
	idem idempotency.Idempotency
}

// IssueOTP sends a one-time passcode to the email.
// @Summary Issue OTP
// @Description Provisions the identity for the requested type and emails a six digit code.
// @Tags Identity
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client key that makes repeated submissions safe"
// @Param request body IssueOTPRequest true "Issue payload"
// @Success 200 {object} router.successResponse{data=IssueOTPResponse} "OTP sent"
// @Failure 400 {object} router.errorResponse "Validation error or account already exists"
// @Failure 404 {object} router.errorResponse "No account found"
// @Failure 409 {object} router.errorResponse "Duplicate request"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp/issue [post]
func (h *HTTPEndpoint) IssueOTP(r *router.Request) (any, error) {
	var req IssueOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	in := usecase.IssueOTPInput{
		Email: req.Email,
		Name:  req.Name,
		Mode:  entity.AuthModeFromString(req.Type),
	}

	var out *usecase.IssueOTPOutput
	run := func(ctx context.Context) error {
		var err error
		out, err = h.uc.IssueOTP(ctx, in)
		return err
	}

	key := r.GetHeader(headerIdempotencyKey)
	if key == "" || h.idem == nil {
		if err := run(r.Context()); err != nil {
			return nil, err
		}
	} else if err := h.idem.Exec(r.Context(), idempotencyScope+key, run,
		idempotency.WithStateTTL(h.cfg.GetSecond("modules.identity.idempotency_ttl_seconds")),
		idempotency.WithReleaseOnError(),
	); err != nil {
		return nil, mapIdempotencyError(r.Context(), err)
	}

	resp := IssueOTPResponse{Success: true, Email: out.Email}
	if h.cfg.GetString("app.env") == envDevelopment {
		resp.Debug = &IssueOTPDebug{OTP: out.Code, ExpiresAt: out.ExpiresAt}
	}

	return resp, nil
}

// VerifyOTP exchanges a valid code for a session token.
// @Summary Verify OTP
// @Description Consumes the latest valid code for the email and returns the identity with an access token.
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Signed in"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Invalid or expired OTP"
// @Failure 404 {object} router.errorResponse "No account found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Email: req.Email,
		Code:  req.OTP,
		Mode:  entity.AuthModeFromString(req.Type),
		Name:  req.Name,
	})
	if err != nil {
		return nil, err
	}

	token, err := h.jwt.Generate(jwt.Subject{UserID: out.ID, Email: out.Email, Name: out.Name})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to generate access token", "user_id", out.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return VerifyOTPResponse{User: toUserResponse(out), AccessToken: token}, nil
}

// Profile returns the identity behind the bearer token.
// @Summary Current identity
// @Tags Identity
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Identity"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/me [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	out, err := h.uc.Profile(r.Context())
	if err != nil {
		return nil, err
	}

	return ProfileResponse{User: toUserResponse(out)}, nil
}

func toUserResponse(out *usecase.VerifyOTPOutput) UserResponse {
	return UserResponse{ID: out.ID, Email: out.Email, Name: out.Name, Image: out.Image}
}

func mapIdempotencyError(ctx context.Context, err error) error {
	var gerr *goerror.Error
	switch {
	case errors.As(err, &gerr):
		return err
	case errors.Is(err, idempotency.ErrAlreadyInProgress),
		errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyFailed):
		return goerror.NewBusiness("Duplicate request, this OTP request was already submitted", goerror.CodeConflict)
	default:
		slog.ErrorContext(ctx, "failed to run idempotent otp issue", "error", err)
		return goerror.NewServer(err)
	}
}
