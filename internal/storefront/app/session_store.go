package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/internal/storefront/ports/scheduler"
	"gogetmarket/internal/storefront/ports/services"
	"gogetmarket/pkg/logger"
)

// Причины истечения сессии.
const (
	ReasonTimedOut = "session timed out"
	ReasonExpired  = "session expired"
)

const (
	LogLogin          = "user logged in"
	LogLogout         = "user logged out"
	LogSessionExpired = "session expired"
	LogSessionRefresh = "session refreshed"
	LogGuest          = "continuing as guest"
	LogLoginRejected  = "login rejected"
)

// sessionSnapshot - сохраняемая форма сессии.
type sessionSnapshot struct {
	User      *entities.User `json:"user"`
	IsGuest   bool           `json:"is_guest"`
	ExpiresAt *time.Time     `json:"expires_at"`
	Expired   bool           `json:"expired"`
	Error     string         `json:"error,omitempty"`
}

// SessionStore хранит пользователя и срок сессии. Сеть не использует:
// переходы приходят извне через MarkExpired.
type SessionStore struct {
	mu        sync.Mutex
	user      *entities.User
	isGuest   bool
	expiresAt *time.Time
	errMsg    string
	// expired - сессия помечена истекшей и сигнал уже опубликован.
	expired bool
	timer   scheduler.Timer
	gen     uint64

	bus       bus.Bus
	clock     scheduler.Scheduler
	inspector services.TokenInspector
	snap      snapshotter
	log       *logger.Logger
	listeners listeners[entities.Session]
}

// NewSessionStore создает хранилище и восстанавливает сохраненную сессию.
// inspector может быть nil, если вход по токену не нужен.
func NewSessionStore(ctx context.Context, deps Deps, inspector services.TokenInspector) *SessionStore {
	log := deps.logger("session_store")
	s := &SessionStore{
		bus:       deps.Bus,
		clock:     deps.Scheduler,
		inspector: inspector,
		log:       log,
	}
	s.snap = deps.snapshot(SnapshotSession, log)

	var saved sessionSnapshot
	if s.snap.hydrate(ctx, &saved) {
		s.restore(saved)
	}
	return s
}

func (s *SessionStore) restore(saved sessionSnapshot) {
	if saved.User == nil {
		s.isGuest = saved.IsGuest
		return
	}
	if validateStruct(*saved.User) != nil || saved.ExpiresAt == nil {
		return
	}

	s.user = saved.User
	s.expiresAt = saved.ExpiresAt
	s.expired = saved.Expired
	s.errMsg = saved.Error

	if remaining := saved.ExpiresAt.Sub(s.clock.Now()); !s.expired && remaining > 0 {
		s.armTimerLocked(remaining)
	}
}

// Login начинает сессию на ttl. Ошибка валидации не меняет состояние.
func (s *SessionStore) Login(ctx context.Context, user entities.User, ttl time.Duration) error {
	var ttlErr error
	if ttl <= 0 {
		ttlErr = entities.NewValidationError("ttl", entities.ErrInvalidTTL.Error())
	}
	if err := mergeValidation(validateStruct(user), ttlErr); err != nil {
		s.log.Warn(ctx, LogLoginRejected, zap.Error(err))
		return err
	}

	s.mu.Lock()
	expiresAt := s.clock.Now().Add(ttl)
	s.user = &user
	s.expiresAt = &expiresAt
	s.isGuest = false
	s.errMsg = ""
	s.expired = false
	s.armTimerLocked(ttl)
	state := s.stateLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.log.Info(ctx, LogLogin, zap.String("user_id", user.ID), zap.Time("expires_at", expiresAt))
	s.listeners.notify(s.log, state)
	return nil
}

// LoginWithToken начинает сессию со сроком из claim exp токена доступа.
func (s *SessionStore) LoginWithToken(ctx context.Context, user entities.User, token string) error {
	if s.inspector == nil {
		return fmt.Errorf("login with token: %w", services.ErrMalformedToken)
	}

	expiresAt, err := s.inspector.ExpiresAt(ctx, token)
	if err != nil {
		return fmt.Errorf("login with token: %w", err)
	}

	ttl := expiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return fmt.Errorf("login with token: %w", entities.ErrTokenAlreadyDead)
	}
	return s.Login(ctx, user, ttl)
}

// Logout завершает сессию добровольно. Сигнал session-expired не публикуется.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.stopTimerLocked()
	s.user = nil
	s.expiresAt = nil
	s.isGuest = false
	s.errMsg = ""
	s.expired = false
	state := s.stateLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.log.Info(ctx, LogLogout)
	s.listeners.notify(s.log, state)
}

// MarkExpired помечает сессию истекшей и публикует session-expired.
// Повторные вызовы до следующего Login ничего не делают и возвращают false.
// Без пользователя истекать нечему.
func (s *SessionStore) MarkExpired(ctx context.Context, reason string) bool {
	return s.expire(ctx, reason, nil)
}

// expire выполняет MarkExpired, если live(), вызванная под блокировкой, не вернула false.
func (s *SessionStore) expire(ctx context.Context, reason string, live func() bool) bool {
	s.mu.Lock()
	if s.user == nil || s.expired || (live != nil && !live()) {
		s.mu.Unlock()
		return false
	}
	s.stopTimerLocked()
	s.expired = true
	s.errMsg = reason
	state := s.stateLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.log.Warn(ctx, LogSessionExpired, zap.String("reason", reason), zap.String("user_id", state.User.ID))
	s.listeners.notify(s.log, state)
	s.bus.Publish(bus.SignalSessionExpired, nil)
	return true
}

// CheckExpiry помечает сессию истекшей, если ее срок прошел.
func (s *SessionStore) CheckExpiry(ctx context.Context) bool {
	return s.expire(ctx, ReasonExpired, func() bool {
		return s.expiresAt != nil && !s.clock.Now().Before(*s.expiresAt)
	})
}

// Refresh продлевает живую сессию на ttl от текущего момента.
func (s *SessionStore) Refresh(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return entities.NewValidationError("ttl", entities.ErrInvalidTTL.Error())
	}

	s.mu.Lock()
	if !s.authenticatedLocked() {
		s.mu.Unlock()
		return entities.ErrNoActiveSession
	}
	expiresAt := s.clock.Now().Add(ttl)
	s.expiresAt = &expiresAt
	s.armTimerLocked(ttl)
	state := s.stateLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.log.Debug(ctx, LogSessionRefresh, zap.Time("expires_at", expiresAt))
	s.listeners.notify(s.log, state)
	return nil
}

// ContinueAsGuest сбрасывает пользователя и продолжает работу без входа.
func (s *SessionStore) ContinueAsGuest(ctx context.Context) {
	s.mu.Lock()
	s.stopTimerLocked()
	s.user = nil
	s.expiresAt = nil
	s.errMsg = ""
	s.expired = false
	s.isGuest = true
	state := s.stateLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.log.Info(ctx, LogGuest)
	s.listeners.notify(s.log, state)
}

// IsAuthenticated - чистый запрос без побочных эффектов.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticatedLocked()
}

// Session возвращает снимок текущего состояния.
func (s *SessionStore) Session() entities.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Subscribe регистрирует слушателя изменений сессии.
func (s *SessionStore) Subscribe(fn func(entities.Session)) func() {
	return s.listeners.add(fn)
}

// Close отменяет таймер истечения.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *SessionStore) authenticatedLocked() bool {
	return s.user != nil && !s.expired && s.expiresAt != nil && s.clock.Now().Before(*s.expiresAt)
}

func (s *SessionStore) stateLocked() entities.Session {
	state := entities.Session{
		IsAuthenticated: s.authenticatedLocked(),
		IsGuest:         s.isGuest,
		Error:           s.errMsg,
	}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	if s.expiresAt != nil {
		at := *s.expiresAt
		state.ExpiresAt = &at
	}
	return state
}

func (s *SessionStore) persistLocked(ctx context.Context) {
	s.snap.persist(ctx, sessionSnapshot{
		User:      s.user,
		IsGuest:   s.isGuest,
		ExpiresAt: s.expiresAt,
		Expired:   s.expired,
		Error:     s.errMsg,
	})
}

func (s *SessionStore) armTimerLocked(d time.Duration) {
	s.stopTimerLocked()
	gen := s.gen
	s.timer = s.clock.AfterFunc(d, func() { s.onTimer(gen) })
}

func (s *SessionStore) stopTimerLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *SessionStore) onTimer(gen uint64) {
	s.expire(context.Background(), ReasonTimedOut, func() bool { return gen == s.gen })
}

// IsValidation сообщает, что err - ошибка валидации аргументов.
func IsValidation(err error) bool {
	return errors.Is(err, entities.ErrValidation)
}
