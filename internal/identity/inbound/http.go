package inbound

import (
	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/notekeep/internal/pkg/jwt"
	"github.com/shandysiswandi/notekeep/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc, cfg config.Config, tokens jwt.JWT, idem idempotency.Idempotency) {
	end := &HTTPEndpoint{uc: uc, cfg: cfg, jwt: tokens, idem: idem}

	r.POST("/api/v1/identity/otp/issue", end.IssueOTP)
	r.POST("/api/v1/identity/otp/verify", end.VerifyOTP)
	r.GET("/api/v1/identity/me", end.Profile)
}
