package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/notekeep/internal/identity/entity"
)

const userColumns = `id, email, COALESCE(name, ''), COALESCE(image, ''), email_verified_at, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Image, &u.EmailVerifiedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	user, err := scanUser(s.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM identity_users WHERE email = $1`, email))
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	user, err := scanUser(s.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM identity_users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

// UpsertUser inserts the identity or, when the email already exists, replaces
// the name only if a non-empty one is given. email_verified_at is set only
// when in.VerifiedAt is non-nil and is never cleared.
func (s *DB) UpsertUser(ctx context.Context, in entity.UpsertUser) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "UpsertUser")
	defer func() { s.endSpan(span, err) }()

	user, err := scanUser(s.conn.QueryRow(ctx, `
		INSERT INTO identity_users (id, email, name, email_verified_at, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $5)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, identity_users.name),
			email_verified_at = COALESCE(EXCLUDED.email_verified_at, identity_users.email_verified_at),
			updated_at = EXCLUDED.updated_at
		RETURNING `+userColumns,
		in.ID, in.Email, in.Name, in.VerifiedAt, in.At,
	))
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

// MarkUserVerified stamps email_verified_at on an existing identity.
// Returns goerror.ErrNotFound when no identity has the email.
func (s *DB) MarkUserVerified(ctx context.Context, in entity.UpsertUser) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "MarkUserVerified")
	defer func() { s.endSpan(span, err) }()

	user, err := scanUser(s.conn.QueryRow(ctx, `
		UPDATE identity_users SET
			name = COALESCE(NULLIF($2, ''), name),
			email_verified_at = $3,
			updated_at = $4
		WHERE email = $1
		RETURNING `+userColumns,
		in.Email, in.Name, in.VerifiedAt, in.At,
	))
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}
