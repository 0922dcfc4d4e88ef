package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
	"github.com/zachrizzo/hens-travel/internal/util"
)

const DefaultSessionTTL = 12 * time.Hour

type SessionEventKind string

const (
	SessionStarted SessionEventKind = "started"
	SessionEnded   SessionEventKind = "ended"
	SessionExpired SessionEventKind = "expired"
)

type SessionEvent struct {
	Kind    SessionEventKind
	Session domain.AdminSession
	At      time.Time
}

type AuthResult struct {
	Session   domain.AdminSession
	Token     string
	ExpiresAt time.Time
}

type subscriber struct {
	id int
	fn func(SessionEvent)
}

// SessionManager signs admins in and out and is the single place session
// changes are announced from.
type SessionManager struct {
	users    ports.RecordStore[domain.AdminUser]
	sessions ports.RecordStore[domain.AdminSession]
	tokens   *util.JWTManager
	ttl      time.Duration
	now      func() time.Time

	// transitions serialises deactivation so each session ends once.
	transitions sync.Mutex

	mu          sync.Mutex
	subscribers []subscriber
	nextSubID   int
}

func NewSessionManager(users ports.RecordStore[domain.AdminUser], sessions ports.RecordStore[domain.AdminSession], tokens *util.JWTManager, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *SessionManager) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
		m.tokens.SetClock(now)
	}
}

// Subscribe registers fn for every session change. Subscribers run
// synchronously in registration order.
func (m *SessionManager) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSubID++
	id := m.nextSubID
	m.subscribers = append(m.subscribers, subscriber{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subscribers {
			if s.id == id {
				m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (m *SessionManager) emit(kind SessionEventKind, session domain.AdminSession) {
	m.mu.Lock()
	subs := make([]subscriber, len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	event := SessionEvent{Kind: kind, Session: session, At: m.now()}
	for _, s := range subs {
		s.fn(event)
	}
}

func (m *SessionManager) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := m.users.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr("load admin", err)
	}
	if !util.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := m.now().UTC()
	session := domain.AdminSession{
		UserID:    email,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		Active:    true,
	}
	id, err := m.sessions.Create(ctx, session)
	if err != nil {
		return nil, storeErr("create session", err)
	}
	session.ID = id

	token, err := m.tokens.Generate(id, session.UserID, session.Email, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	m.emit(SessionStarted, session)
	return &AuthResult{Session: session, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Current resolves token to its active session. Any failure is reported as
// ErrSessionRequired; a session found past its expiry is deactivated and
// announced as SessionExpired.
func (m *SessionManager) Current(ctx context.Context, token string) (*domain.AdminSession, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionRequired
	}
	claims, err := m.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, util.ErrTokenExpired) && claims != nil {
			if expErr := m.expire(ctx, claims.SessionID()); expErr != nil {
				return nil, expErr
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionRequired, err)
	}

	id := claims.SessionID()
	session, err := m.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return nil, ErrSessionRequired
		}
		return nil, storeErr("load session", err)
	}
	if !session.Active {
		return nil, ErrSessionRequired
	}
	if session.ExpiredAt(m.now()) {
		if err := m.expire(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrSessionRequired
	}
	session.ID = id
	return session, nil
}

// Logout ends the session behind token. Unknown, invalid or already ended
// sessions are not an error.
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	claims, err := m.tokens.Parse(strings.TrimSpace(token))
	if err != nil && !errors.Is(err, util.ErrTokenExpired) {
		return nil
	}
	if claims == nil {
		return nil
	}
	return m.deactivate(ctx, claims.SessionID(), SessionEnded)
}

func (m *SessionManager) expire(ctx context.Context, id string) error {
	return m.deactivate(ctx, id, SessionExpired)
}

func (m *SessionManager) deactivate(ctx context.Context, id string, kind SessionEventKind) error {
	if id == "" {
		return nil
	}
	m.transitions.Lock()
	defer m.transitions.Unlock()

	session, err := m.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return nil
		}
		return storeErr("load session", err)
	}
	if !session.Active {
		return nil
	}
	session.Active = false
	if err := m.sessions.Update(ctx, id, *session); err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return nil
		}
		return storeErr("deactivate session", err)
	}
	session.ID = id
	m.emit(kind, *session)
	return nil
}

// CreateAdmin provisions an account. The site has no registration flow, so
// this is only reachable from hensctl.
func (m *SessionManager) CreateAdmin(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	email = domain.NormalizeEmail(email)
	var problems []string
	if email == "" || !strings.Contains(email, "@") {
		problems = append(problems, "a valid email is required")
	}
	if err := util.ValidatePassword(password); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validationErr(problems); err != nil {
		return nil, err
	}

	if _, err := m.users.Get(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: admin %s already exists", ErrValidation, email)
	} else if !errors.Is(err, ports.ErrRecordNotFound) {
		return nil, storeErr("load admin", err)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	user := domain.AdminUser{Email: email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	if err := m.users.Upsert(ctx, email, user); err != nil {
		return nil, storeErr("create admin", err)
	}
	user.ID = email
	return &user, nil
}

func (m *SessionManager) ResetPassword(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)
	if err := util.ValidatePassword(password); err != nil {
		return validationErr([]string{err.Error()})
	}
	user, err := m.users.Get(ctx, email)
	if err != nil {
		return storeErr("load admin "+email, err)
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = m.now().UTC()
	if err := m.users.Update(ctx, email, *user); err != nil {
		return storeErr("update admin", err)
	}
	return nil
}
