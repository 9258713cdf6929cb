package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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

// App owns every long-lived dependency of the service.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	config config.Config
	ins    instrument.Instrumentation

	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otp       otp.Generator
	jwt       jwt.JWT

	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Publisher

	router     *router.Router
	httpServer *http.Server

	// closers run in reverse registration order on shutdown.
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// New builds the application. If a step fails, whatever was already opened
// is released before the error is returned.
func New() (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{ctx: ctx, cancel: cancel}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"config", a.initConfig},
		{"instrument", a.initInstrument},
		{"libraries", a.initLibraries},
		{"jwt", a.initJWT},
		{"database", a.initDatabase},
		{"cache", a.initCache},
		{"mail", a.initMail},
		{"messaging", a.initMessaging},
		{"http server", a.initHTTPServer},
		{"modules", a.initModules},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			cancel()
			a.close(context.Background())
			return nil, fmt.Errorf("init %s: %w", step.name, err)
		}
	}

	return a, nil
}

func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.ErrorContext(ctx, "failed to close resource", "name", c.name, "error", err)
		}
	}
	a.closers = nil
}
