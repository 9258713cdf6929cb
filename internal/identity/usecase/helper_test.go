package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/notekeep/internal/identity/entity"
	"github.com/shandysiswandi/notekeep/internal/pkg/clock"
	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/notekeep/internal/pkg/hash"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/notekeep/internal/pkg/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOTP(ctx context.Context, msg OTPNotification) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockMessaging struct {
	mock.Mock
}

func (m *MockMessaging) PublishIdentityVerified(ctx context.Context, msg IdentityVerifiedEvent) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type sequenceID struct {
	mu   sync.Mutex
	next int64
}

func (s *sequenceID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type stubOTP struct {
	codes []string
	err   error
}

func (s *stubOTP) Generate() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	code := s.codes[0]
	if len(s.codes) > 1 {
		s.codes = s.codes[1:]
	}
	return code, nil
}

// memStore mirrors the SQL semantics of the Postgres repository.
type memStore struct {
	mu    sync.Mutex
	users map[string]*entity.User
	otps  []entity.OTPCode

	errGetUser       error
	errUpsertUser    error
	errDeleteByEmail error
	errCreateOTP     error
	errDeleteByID    error
	errLookup        error
	errMark          error
	forceMarkLost    bool
	deletedIDs       []int64
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*entity.User{}}
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errGetUser != nil {
		return nil, m.errGetUser
	}
	u, ok := m.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (m *memStore) UpsertUser(_ context.Context, in entity.UpsertUser) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errUpsertUser != nil {
		return nil, m.errUpsertUser
	}

	u, ok := m.users[in.Email]
	if !ok {
		u = &entity.User{ID: in.ID, Email: in.Email, CreatedAt: in.At}
		m.users[in.Email] = u
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.VerifiedAt != nil {
		at := *in.VerifiedAt
		u.EmailVerifiedAt = &at
	}
	u.UpdatedAt = in.At

	cp := *u
	return &cp, nil
}

func (m *memStore) MarkUserVerified(_ context.Context, in entity.UpsertUser) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[in.Email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	at := *in.VerifiedAt
	u.EmailVerifiedAt = &at
	u.UpdatedAt = in.At

	cp := *u
	return &cp, nil
}

func (m *memStore) CreateOTP(_ context.Context, in entity.OTPCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errCreateOTP != nil {
		return m.errCreateOTP
	}
	m.otps = append(m.otps, in)
	return nil
}

func (m *memStore) GetLatestValidOTP(_ context.Context, email, code string, now time.Time) (*entity.OTPCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errLookup != nil {
		return nil, m.errLookup
	}

	var matches []entity.OTPCode
	for _, o := range m.otps {
		if o.Email == email && o.Code == code && o.ExpiresAt.After(now) && !o.Verified {
			matches = append(matches, o)
		}
	}
	if len(matches) == 0 {
		return nil, goerror.ErrNotFound
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID > matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return &matches[0], nil
}

func (m *memStore) MarkOTPVerified(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errMark != nil {
		return false, m.errMark
	}
	if m.forceMarkLost {
		return false, nil
	}
	for i := range m.otps {
		if m.otps[i].ID == id && !m.otps[i].Verified {
			m.otps[i].Verified = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) DeleteOTPByEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.errDeleteByEmail != nil {
		return m.errDeleteByEmail
	}
	kept := m.otps[:0]
	for _, o := range m.otps {
		if o.Email != email {
			kept = append(kept, o)
		}
	}
	m.otps = kept
	return nil
}

func (m *memStore) DeleteOTPByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deletedIDs = append(m.deletedIDs, id)
	if m.errDeleteByID != nil {
		return m.errDeleteByID
	}
	kept := m.otps[:0]
	for _, o := range m.otps {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	m.otps = kept
	return nil
}

func (m *memStore) DeleteExpiredOTP(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	kept := m.otps[:0]
	for _, o := range m.otps {
		if o.ExpiresAt.After(now) {
			kept = append(kept, o)
			continue
		}
		n++
	}
	m.otps = kept
	return n, nil
}

func (m *memStore) otpsFor(email string) []entity.OTPCode {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.OTPCode
	for _, o := range m.otps {
		if o.Email == email {
			out = append(out, o)
		}
	}
	return out
}

type testDeps struct {
	uc        *Usecase
	store     *memStore
	notifier  *MockNotifier
	messaging *MockMessaging
	clock     *clock.Fixed
	otp       *stubOTP
	hmac      hash.Hash
}

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newTestUsecase(t *testing.T) *testDeps {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  identity:\n    otp_ttl_minutes: 10\n"))
	require.NoError(t, err)

	d := &testDeps{
		store:     newMemStore(),
		notifier:  &MockNotifier{},
		messaging: &MockMessaging{},
		clock:     clock.NewFixed(testNow),
		otp:       &stubOTP{codes: []string{"482913"}},
		hmac:      hash.NewHMACSHA256("test-otp-secret"),
	}

	d.uc = New(Dependency{
		RepoDB:        d.store,
		RepoMessaging: d.messaging,
		RepoNotifier:  d.notifier,
		Validator:     v,
		Config:        cfg,
		HMAC:          d.hmac,
		OTP:           d.otp,
		UID:           &sequenceID{next: 1000},
		Clock:         d.clock,
		Instrument:    instrument.NewNoop(),
	})

	t.Cleanup(func() {
		d.notifier.AssertExpectations(t)
		d.messaging.AssertExpectations(t)
	})

	return d
}

func (d *testDeps) seedUser(email, name string, verified bool) *entity.User {
	u := &entity.User{ID: 1, Email: email, Name: name, CreatedAt: testNow.Add(-time.Hour)}
	if verified {
		at := testNow.Add(-time.Hour)
		u.EmailVerifiedAt = &at
	}
	d.store.users[email] = u
	return u
}

func assertBusiness(t *testing.T, err error, code goerror.Code, msg string) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, code, gerr.Code())
	require.Equal(t, msg, gerr.Msg())
}
