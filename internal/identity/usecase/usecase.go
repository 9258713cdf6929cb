package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"
	"github.com/shandysiswandi/notekeep/internal/identity/entity"
	"github.com/shandysiswandi/notekeep/internal/pkg/clock"
	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/hash"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/notekeep/internal/pkg/otp"
	"github.com/shandysiswandi/notekeep/internal/pkg/uid"
	"github.com/shandysiswandi/notekeep/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const defaultOTPTTL = 10 * time.Minute

const (
	msgNoAccount      = "No account found with this email. Please sign up first."
	msgAccountExists  = "Account already exists. Please sign in instead."
	msgDeliveryFailed = "Failed to send OTP email. Please check your email address."
	msgInvalidOTP     = "Invalid or expired OTP"
)

// IdentityVerifiedEvent is published after a successful verification.
type IdentityVerifiedEvent struct {
	UserID     int64
	Email      string
	Name       string
	Mode       entity.AuthMode
	VerifiedAt time.Time
}

// OTPNotification is what the notifier needs to deliver a code.
type OTPNotification struct {
	Email string
	Code  string
	TTL   time.Duration
}

type repoMessaging interface {
	PublishIdentityVerified(ctx context.Context, msg IdentityVerifiedEvent) error
}

type repoNotifier interface {
	SendOTP(ctx context.Context, msg OTPNotification) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	UpsertUser(ctx context.Context, in entity.UpsertUser) (*entity.User, error)
	MarkUserVerified(ctx context.Context, in entity.UpsertUser) (*entity.User, error)

	CreateOTP(ctx context.Context, in entity.OTPCode) error
	GetLatestValidOTP(ctx context.Context, email, code string, now time.Time) (*entity.OTPCode, error)
	MarkOTPVerified(ctx context.Context, id int64) (bool, error)
	DeleteOTPByEmail(ctx context.Context, email string) error
	DeleteOTPByID(ctx context.Context, id int64) error
	DeleteExpiredOTP(ctx context.Context, now time.Time) (int64, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	repoNotifier  repoNotifier
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	otp           otp.Generator
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation

	issuedCounter   metric.Int64Counter
	verifiedCounter metric.Int64Counter
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	RepoNotifier  repoNotifier
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	OTP           otp.Generator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		repoNotifier:  dep.RepoNotifier,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		otp:           dep.OTP,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}

	meter := dep.Instrument.Meter("identity.usecase")

	var err error
	s.issuedCounter, err = meter.Int64Counter("identity.otp.issued", metric.WithDescription("Number of OTP issuance attempts"))
	if err != nil {
		slog.Error("failed to create otp issued counter", "error", err)
	}
	s.verifiedCounter, err = meter.Int64Counter("identity.otp.verified", metric.WithDescription("Number of OTP verification attempts"))
	if err != nil {
		slog.Error("failed to create otp verified counter", "error", err)
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	if ttl := s.cfg.GetMinute("modules.identity.otp_ttl_minutes"); ttl > 0 {
		return ttl
	}
	return defaultOTPTTL
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, mode entity.AuthMode, err error) {
	if c == nil {
		return
	}

	c.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode.String()),
		attribute.String("result", lo.Ternary(err == nil, "success", "failure")),
	))
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
