package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/notekeep/internal/identity/inbound"
	"github.com/shandysiswandi/notekeep/internal/identity/outbound/db"
	"github.com/shandysiswandi/notekeep/internal/identity/outbound/email"
	"github.com/shandysiswandi/notekeep/internal/identity/outbound/mq"
	"github.com/shandysiswandi/notekeep/internal/identity/usecase"
	"github.com/shandysiswandi/notekeep/internal/pkg/clock"
	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/goroutine"
	"github.com/shandysiswandi/notekeep/internal/pkg/hash"
	"github.com/shandysiswandi/notekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/notekeep/internal/pkg/jwt"
	"github.com/shandysiswandi/notekeep/internal/pkg/mail"
	"github.com/shandysiswandi/notekeep/internal/pkg/messaging"
	"github.com/shandysiswandi/notekeep/internal/pkg/otp"
	"github.com/shandysiswandi/notekeep/internal/pkg/router"
	"github.com/shandysiswandi/notekeep/internal/pkg/uid"
	"github.com/shandysiswandi/notekeep/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Publisher        `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	OTP         otp.Generator              `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
	JWT         jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		RepoNotifier:  email.New(dep.Mail, dep.Instrument),
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		OTP:           dep.OTP,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config, dep.JWT, dep.Idempotency)
	inbound.RegisterJob(dep.Ctx, dep.Config, dep.Goroutine, uc)

	return nil
}
