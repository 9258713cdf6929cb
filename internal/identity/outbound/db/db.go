package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/notekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const pgUniqueViolation = "23505"

// DB stores users and OTP records in Postgres.
type DB struct {
	conn   *pgxpool.Pool
	tracer trace.Tracer
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, tracer: ins.Tracer("identity.outbound.db")}
}

// mapError turns driver errors into the sentinels the usecase branches on.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return goerror.ErrNotFound
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return goerror.ErrConflict
	}
	return err
}

func (s *DB) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(semconv.DBSystemPostgreSQL, semconv.DBOperationName(op)),
	)
}

// endSpan marks the span failed unless err is an expected miss or conflict.
func (s *DB) endSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil || errors.Is(err, goerror.ErrNotFound) || errors.Is(err, goerror.ErrConflict) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
