package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/notekeep/internal/identity/entity"
)

func (s *DB) CreateOTP(ctx context.Context, in entity.OTPCode) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOTP")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO identity_otp_codes (id, email, code, expires_at, verified, created_at)
		VALUES ($1, $2, $3, $4, false, $5)`,
		in.ID, in.Email, in.Code, in.ExpiresAt, in.CreatedAt,
	)
	return mapError(err)
}

// GetLatestValidOTP returns the newest unverified record for email whose code
// matches and whose expiry is after now.
func (s *DB) GetLatestValidOTP(ctx context.Context, email, code string, now time.Time) (_ *entity.OTPCode, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestValidOTP")
	defer func() { s.endSpan(span, err) }()

	var o entity.OTPCode
	err = s.conn.QueryRow(ctx, `
		SELECT id, email, code, expires_at, verified, created_at
		FROM identity_otp_codes
		WHERE email = $1 AND code = $2 AND expires_at > $3 AND verified = false
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		email, code, now,
	).Scan(&o.ID, &o.Email, &o.Code, &o.ExpiresAt, &o.Verified, &o.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return &o, nil
}

// MarkOTPVerified flips the verified flag. It returns false when the record
// was already verified or no longer exists.
func (s *DB) MarkOTPVerified(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkOTPVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE identity_otp_codes SET verified = true WHERE id = $1 AND verified = false`, id)
	if err != nil {
		return false, mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) DeleteOTPByEmail(ctx context.Context, email string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteOTPByEmail")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM identity_otp_codes WHERE email = $1`, email)
	return mapError(err)
}

func (s *DB) DeleteOTPByID(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteOTPByID")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM identity_otp_codes WHERE id = $1`, id)
	return mapError(err)
}

func (s *DB) DeleteExpiredOTP(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM identity_otp_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, mapError(err)
	}

	return tag.RowsAffected(), nil
}
