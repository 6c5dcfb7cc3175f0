package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type BackendAPI interface {
	Login(ctx context.Context, in LoginInput) (Issued, error)
	Register(ctx context.Context, in RegisterInput) (Issued, error)
	Validate(ctx context.Context, token string) (bool, error)
	Logout(ctx context.Context, token string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, rec SessionRecord) error
	GetSession(ctx context.Context, id string) (SessionRecord, error)
	MarkValidated(ctx context.Context, id string, at time.Time) error
	RevokeSession(ctx context.Context, id string) error
	RevokeExpired(ctx context.Context, now time.Time) ([]string, error)
}

// Sealer encrypts backend tokens at rest.
type Sealer interface {
	EncryptString(value string) ([]byte, error)
	DecryptString(value []byte) (string, error)
}

type Service struct {
	backend BackendAPI
	store   SessionStore
	sealer  Sealer
	secret  string
	ttl     time.Duration
	// RevalidateEvery bounds how stale a backend validation may get before a
	// request triggers another one.
	RevalidateEvery time.Duration
	now             func() time.Time
}

func NewService(backend BackendAPI, store SessionStore, sealer Sealer, secret string, ttl time.Duration) *Service {
	return &Service{
		backend:         backend,
		store:           store,
		sealer:          sealer,
		secret:          secret,
		ttl:             ttl,
		RevalidateEvery: 5 * time.Minute,
		now:             time.Now,
	}
}

// Login authenticates against the backend and opens a console session. It returns
// the session and the signed console token the UI presents from then on.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, string, error) {
	issued, err := s.backend.Login(ctx, in)
	if err != nil {
		return Session{}, "", err
	}
	return s.open(ctx, issued, in.IPAddress, in.UserAgent)
}

// Register creates the account and signs the new user in.
func (s *Service) Register(ctx context.Context, in RegisterInput, ip, userAgent string) (Session, string, error) {
	issued, err := s.backend.Register(ctx, in)
	if err != nil {
		return Session{}, "", err
	}
	return s.open(ctx, issued, ip, userAgent)
}

func (s *Service) open(ctx context.Context, issued Issued, ip, userAgent string) (Session, string, error) {
	if issued.Token == "" {
		return Session{}, "", errors.New("backend issued no session token")
	}
	now := s.now().UTC()
	expires := now.Add(s.ttl)
	if !issued.ExpiresAt.IsZero() && issued.ExpiresAt.Before(expires) && issued.ExpiresAt.After(now) {
		expires = issued.ExpiresAt
	}
	sealed, err := s.sealer.EncryptString(issued.Token)
	if err != nil {
		return Session{}, "", fmt.Errorf("seal backend token: %w", err)
	}

	rec := SessionRecord{
		ID:              uuid.NewString(),
		UserID:          issued.User.ID,
		User:            issued.User,
		BackendTokenEnc: sealed,
		IPAddress:       ip,
		UserAgent:       userAgent,
		CreatedAt:       now,
		LastValidatedAt: now,
		ExpiresAt:       expires,
	}
	if err := s.store.CreateSession(ctx, rec); err != nil {
		return Session{}, "", fmt.Errorf("store console session: %w", err)
	}

	token, err := GenerateToken(s.secret, Claims{
		SessionID: rec.ID,
		UserID:    rec.UserID,
		Username:  rec.User.Username,
		RoleName:  rec.User.Role.Name,
	}, now, expires)
	if err != nil {
		return Session{}, "", err
	}
	return toSession(rec, issued.Token), token, nil
}

// Authenticate resolves a console token to its live session. The backend is asked
// again once the last validation is older than RevalidateEvery; a backend that says
// no ends the session, a backend that cannot be reached does not.
func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	claims, err := ParseToken(s.secret, token, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	sess, err := s.load(ctx, claims.SessionID)
	if err != nil {
		return Session{}, err
	}
	if s.RevalidateEvery > 0 && s.now().Sub(sess.LastValidatedAt) >= s.RevalidateEvery {
		valid, verr := s.backend.Validate(ctx, sess.BackendToken)
		switch {
		case verr != nil:
			slog.Warn("session revalidation failed", "session", sess.ID, "err", verr)
		case !valid:
			s.revoke(ctx, sess.ID)
			return Session{}, ErrSessionInvalid
		default:
			s.markValidated(ctx, &sess)
		}
	}
	return sess, nil
}

// Restore is the UI's on-load check: the stored session must exist and the backend
// must confirm it right now. Any doubt clears the session.
func (s *Service) Restore(ctx context.Context, sessionID string) (Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	valid, err := s.backend.Validate(ctx, sess.BackendToken)
	if err != nil || !valid {
		if err != nil {
			slog.Warn("session restore validation failed", "session", sess.ID, "err", err)
		}
		s.revoke(ctx, sess.ID)
		return Session{}, ErrSessionInvalid
	}
	s.markValidated(ctx, &sess)
	return sess, nil
}

// Logout tells the backend best-effort and always ends the console session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
			return nil
		}
		return err
	}
	if err := s.backend.Logout(ctx, sess.BackendToken); err != nil {
		slog.Warn("backend logout failed", "session", sess.ID, "err", err)
	}
	return s.store.RevokeSession(ctx, sess.ID)
}

// SweepExpired revokes expired sessions and returns their ids.
func (s *Service) SweepExpired(ctx context.Context) ([]string, error) {
	return s.store.RevokeExpired(ctx, s.now().UTC())
}

func (s *Service) load(ctx context.Context, id string) (Session, error) {
	rec, err := s.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !s.now().Before(rec.ExpiresAt) {
		s.revoke(ctx, rec.ID)
		return Session{}, ErrSessionExpired
	}
	token, err := s.sealer.DecryptString(rec.BackendTokenEnc)
	if err != nil {
		return Session{}, fmt.Errorf("open backend token: %w", err)
	}
	return toSession(rec, token), nil
}

func (s *Service) markValidated(ctx context.Context, sess *Session) {
	now := s.now().UTC()
	if err := s.store.MarkValidated(ctx, sess.ID, now); err != nil {
		slog.Warn("session validation stamp failed", "session", sess.ID, "err", err)
		return
	}
	sess.LastValidatedAt = now
}

func (s *Service) revoke(ctx context.Context, id string) {
	if err := s.store.RevokeSession(ctx, id); err != nil {
		slog.Warn("session revoke failed", "session", id, "err", err)
	}
}

func toSession(rec SessionRecord, backendToken string) Session {
	return Session{
		ID:              rec.ID,
		User:            rec.User,
		BackendToken:    backendToken,
		IPAddress:       rec.IPAddress,
		UserAgent:       rec.UserAgent,
		CreatedAt:       rec.CreatedAt,
		LastValidatedAt: rec.LastValidatedAt,
		ExpiresAt:       rec.ExpiresAt,
	}
}
