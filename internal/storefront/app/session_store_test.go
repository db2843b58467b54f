package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogetmarket/internal/storefront/app"
	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/bus"
)

var errInspect = errors.New("cannot read token")

type stubInspector struct {
	exp time.Time
	err error
}

func (s stubInspector) ExpiresAt(context.Context, string) (time.Time, error) {
	return s.exp, s.err
}

func TestSessionStore_Login(t *testing.T) {
	t.Run("valid login", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, nil)

		require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))

		session := s.Session()
		assert.True(t, s.IsAuthenticated())
		assert.True(t, session.IsAuthenticated)
		assert.False(t, session.IsGuest)
		assert.Empty(t, session.Error)
		require.NotNil(t, session.User)
		assert.Equal(t, "u-1", session.User.ID)
		require.NotNil(t, session.ExpiresAt)
		assert.Equal(t, epoch.Add(time.Hour), *session.ExpiresAt)
	})

	t.Run("invalid user and ttl", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, nil)

		err := s.Login(f.ctx, entities.User{Email: "not-an-email", Mobile: "12"}, 0)

		require.Error(t, err)
		assert.True(t, app.IsValidation(err))
		var ve *entities.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "id")
		assert.Contains(t, ve.Fields, "email")
		assert.Contains(t, ve.Fields, "mobile")
		assert.Contains(t, ve.Fields, "ttl")
		assert.False(t, s.IsAuthenticated())
		assert.Nil(t, s.Session().User)
	})

	t.Run("authentication lapses with the clock", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, nil)
		require.NoError(t, s.Login(f.ctx, buyer(), time.Minute))

		f.clock.Advance(59 * time.Second)
		assert.True(t, s.IsAuthenticated())

		f.clock.Advance(time.Second)
		assert.False(t, s.IsAuthenticated())
	})
}

func TestSessionStore_Logout(t *testing.T) {
	f := newFixture(t)
	expired := f.count(bus.SignalSessionExpired)
	s := app.NewSessionStore(f.ctx, f.deps, nil)
	require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))

	s.Logout(f.ctx)

	session := s.Session()
	assert.False(t, session.IsAuthenticated)
	assert.Nil(t, session.User)
	assert.Nil(t, session.ExpiresAt)

	f.clock.Advance(2 * time.Hour)
	assert.Zero(t, *expired, "logout and its canceled timer must not raise session-expired")
}

func TestSessionStore_MarkExpired(t *testing.T) {
	t.Run("publishes once per expiry", func(t *testing.T) {
		f := newFixture(t)
		expired := f.count(bus.SignalSessionExpired)
		s := app.NewSessionStore(f.ctx, f.deps, nil)
		require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))

		assert.True(t, s.MarkExpired(f.ctx, "unauthorized"))
		assert.False(t, s.MarkExpired(f.ctx, "unauthorized again"))

		assert.Equal(t, 1, *expired)
		session := s.Session()
		assert.False(t, session.IsAuthenticated)
		require.NotNil(t, session.User, "expired user snapshot is kept for display")
		assert.Equal(t, "u-1", session.User.ID)
		assert.Equal(t, "unauthorized", session.Error)
	})

	t.Run("concurrent triggers", func(t *testing.T) {
		f := newFixture(t)
		var mu sync.Mutex
		published := 0
		f.bus.Subscribe(bus.SignalSessionExpired, func(bus.Event) {
			mu.Lock()
			published++
			mu.Unlock()
		})
		s := app.NewSessionStore(f.ctx, f.deps, nil)
		require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.MarkExpired(f.ctx, "unauthorized")
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, published)
	})

	t.Run("login rearms the guard", func(t *testing.T) {
		f := newFixture(t)
		expired := f.count(bus.SignalSessionExpired)
		s := app.NewSessionStore(f.ctx, f.deps, nil)

		require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))
		s.MarkExpired(f.ctx, "unauthorized")
		require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))
		s.MarkExpired(f.ctx, "unauthorized")

		assert.Equal(t, 2, *expired)
		assert.Equal(t, "unauthorized", s.Session().Error)
	})

	t.Run("nothing to expire without a user", func(t *testing.T) {
		f := newFixture(t)
		expired := f.count(bus.SignalSessionExpired)
		s := app.NewSessionStore(f.ctx, f.deps, nil)

		assert.False(t, s.MarkExpired(f.ctx, "unauthorized"))
		assert.Zero(t, *expired)
	})

	t.Run("login clears previous error", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, nil)
		require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))
		s.MarkExpired(f.ctx, "unauthorized")

		require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))
		assert.Empty(t, s.Session().Error)
		assert.True(t, s.IsAuthenticated())
	})
}

func TestSessionStore_ExpiryTimer(t *testing.T) {
	f := newFixture(t)
	expired := f.count(bus.SignalSessionExpired)
	s := app.NewSessionStore(f.ctx, f.deps, nil)
	require.NoError(t, s.Login(f.ctx, buyer(), 10*time.Minute))

	f.clock.Advance(10 * time.Minute)

	assert.Equal(t, 1, *expired)
	assert.Equal(t, app.ReasonTimedOut, s.Session().Error)
	assert.False(t, s.MarkExpired(f.ctx, "late"))
	assert.Equal(t, 1, *expired)
}

func TestSessionStore_Refresh(t *testing.T) {
	t.Run("extends live session", func(t *testing.T) {
		f := newFixture(t)
		expired := f.count(bus.SignalSessionExpired)
		s := app.NewSessionStore(f.ctx, f.deps, nil)
		require.NoError(t, s.Login(f.ctx, buyer(), 10*time.Minute))

		f.clock.Advance(9 * time.Minute)
		require.NoError(t, s.Refresh(f.ctx, 10*time.Minute))
		f.clock.Advance(5 * time.Minute)

		assert.True(t, s.IsAuthenticated())
		assert.Zero(t, *expired)
		assert.Equal(t, epoch.Add(19*time.Minute), *s.Session().ExpiresAt)
	})

	t.Run("no session", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, nil)

		assert.ErrorIs(t, s.Refresh(f.ctx, time.Minute), entities.ErrNoActiveSession)
	})

	t.Run("invalid ttl", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, nil)
		require.NoError(t, s.Login(f.ctx, buyer(), time.Minute))

		assert.True(t, app.IsValidation(s.Refresh(f.ctx, -time.Second)))
	})
}

func TestSessionStore_CheckExpiry(t *testing.T) {
	f := newFixture(t)
	expired := f.count(bus.SignalSessionExpired)
	s := app.NewSessionStore(f.ctx, f.deps, nil)
	require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))

	assert.False(t, s.CheckExpiry(f.ctx))
	s.Close()
	f.clock.Advance(2 * time.Hour)

	assert.True(t, s.CheckExpiry(f.ctx))
	assert.False(t, s.CheckExpiry(f.ctx))
	assert.Equal(t, 1, *expired)
	assert.Equal(t, app.ReasonExpired, s.Session().Error)
}

func TestSessionStore_ContinueAsGuest(t *testing.T) {
	f := newFixture(t)
	s := app.NewSessionStore(f.ctx, f.deps, nil)
	require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))
	s.MarkExpired(f.ctx, "unauthorized")

	s.ContinueAsGuest(f.ctx)

	session := s.Session()
	assert.True(t, session.IsGuest)
	assert.False(t, session.IsAuthenticated)
	assert.Nil(t, session.User)
	assert.Empty(t, session.Error)
}

func TestSessionStore_LoginWithToken(t *testing.T) {
	t.Run("ttl from exp", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, stubInspector{exp: epoch.Add(15 * time.Minute)})

		require.NoError(t, s.LoginWithToken(f.ctx, buyer(), "token"))
		assert.Equal(t, epoch.Add(15*time.Minute), *s.Session().ExpiresAt)
	})

	t.Run("already expired token", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, stubInspector{exp: epoch.Add(-time.Minute)})

		assert.ErrorIs(t, s.LoginWithToken(f.ctx, buyer(), "token"), entities.ErrTokenAlreadyDead)
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("inspector error", func(t *testing.T) {
		f := newFixture(t)
		s := app.NewSessionStore(f.ctx, f.deps, stubInspector{err: errInspect})

		assert.ErrorIs(t, s.LoginWithToken(f.ctx, buyer(), "token"), errInspect)
	})
}

func TestSessionStore_Persistence(t *testing.T) {
	t.Run("restores session and timer", func(t *testing.T) {
		f := newFixture(t)
		expired := f.count(bus.SignalSessionExpired)
		first := app.NewSessionStore(f.ctx, f.deps, nil)
		require.NoError(t, first.Login(f.ctx, buyer(), time.Hour))
		first.Close()

		second := app.NewSessionStore(f.ctx, f.deps, nil)
		assert.True(t, second.IsAuthenticated())
		assert.Equal(t, "u-1", second.Session().User.ID)

		f.clock.Advance(time.Hour)
		assert.Equal(t, 1, *expired)
	})

	t.Run("corrupt snapshot falls back to default", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.storage.Save(f.ctx, f.key(app.SnapshotSession), []byte(`{"user":`)))

		s := app.NewSessionStore(f.ctx, f.deps, nil)

		assert.Equal(t, entities.Session{}, s.Session())
	})

	t.Run("works without storage", func(t *testing.T) {
		f := newFixture(t)
		f.deps.Storage = nil
		s := app.NewSessionStore(f.ctx, f.deps, nil)

		require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))
		assert.Zero(t, f.storage.Keys())
	})
}

func TestSessionStore_Subscribe(t *testing.T) {
	f := newFixture(t)
	s := app.NewSessionStore(f.ctx, f.deps, nil)

	var order []string
	var seen []bool
	unsubscribe := s.Subscribe(func(session entities.Session) {
		order = append(order, "first")
		seen = append(seen, session.IsAuthenticated)
	})
	s.Subscribe(func(entities.Session) { order = append(order, "second") })

	require.NoError(t, s.Login(f.ctx, buyer(), time.Hour))
	unsubscribe()
	unsubscribe()
	s.Logout(f.ctx)

	assert.Equal(t, []string{"first", "second", "second"}, order)
	assert.Equal(t, []bool{true}, seen)
}
