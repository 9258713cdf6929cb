package app

import (
	"log/slog"

	"github.com/shandysiswandi/notekeep/internal/identity"
)

func (a *App) initModules() error {
	if !a.config.GetBool("modules.identity.enabled") {
		slog.Warn("module disabled", "module", "identity")
		return nil
	}

	return identity.New(identity.Dependency{
		Ctx:         a.ctx,
		DBConn:      a.dbConn,
		Goroutine:   a.goroutine,
		Router:      a.router,
		Idempotency: a.idemp,
		Messaging:   a.messaging,
		Mail:        a.mail,
		Config:      a.config,
		Instrument:  a.ins,
		UID:         a.uid,
		HMAC:        a.hmac,
		OTP:         a.otp,
		Clock:       a.clock,
		Validator:   a.validator,
		JWT:         a.jwt,
	})
}
