package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogetmarket/internal/storefront/app"
	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/bus"
)

func TestStores_SessionExpiryReachesUnrelatedSubscribers(t *testing.T) {
	f := newFixture(t)
	stores := app.NewStores(f.ctx, f.deps, app.Settings{ToastDuration: time.Second}, nil)
	t.Cleanup(stores.Close)

	stores.Bus.Subscribe(bus.SignalSessionExpired, func(bus.Event) {
		stores.Toasts.Warning(f.ctx, "Your session has expired")
	})

	require.NoError(t, stores.Session.Login(f.ctx, buyer(), time.Hour))
	stores.Session.MarkExpired(f.ctx, "unauthorized")
	stores.Session.MarkExpired(f.ctx, "unauthorized")

	require.Len(t, stores.Toasts.Toasts(), 1)
	assert.Equal(t, entities.ToastWarning, stores.Toasts.Toasts()[0].Type)
}

func TestStores_SnapshotKeys(t *testing.T) {
	f := newFixture(t)
	stores := app.NewStores(f.ctx, f.deps, app.Settings{}, nil)
	t.Cleanup(stores.Close)

	require.NoError(t, stores.Session.Login(f.ctx, buyer(), time.Hour))
	require.NoError(t, stores.Cart.AddItem(f.ctx, "p1", product("p1", 10), 1, 10))
	_, err := stores.Wishlist.AddToWishlist(f.ctx, product("p1", 10))
	require.NoError(t, err)

	for _, kind := range []string{app.SnapshotSession, app.SnapshotCart, app.SnapshotWishlist} {
		payload, err := f.storage.Load(f.ctx, "test:client-1:"+kind)
		require.NoError(t, err)
		assert.NotNil(t, payload, kind)
	}
	assert.Equal(t, 3, f.storage.Keys())
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "shop:c1:cart", app.SnapshotKey("shop", "c1", app.SnapshotCart))
	assert.Equal(t, "shop:cart", app.SnapshotKey("shop", "", app.SnapshotCart))
}

func TestStores_ResumeExpiresStaleSession(t *testing.T) {
	f := newFixture(t)
	first := app.NewStores(f.ctx, f.deps, app.Settings{}, nil)
	require.NoError(t, first.Session.Login(f.ctx, buyer(), time.Hour))
	first.Close()

	f.clock.Advance(2 * time.Hour)
	expired := f.count(bus.SignalSessionExpired)
	second := app.NewStores(f.ctx, f.deps, app.Settings{ToastDuration: time.Second}, nil)
	t.Cleanup(second.Close)
	second.Bus.Subscribe(bus.SignalSessionExpired, func(bus.Event) {
		second.Toasts.Warning(f.ctx, "Your session has expired")
	})

	assert.False(t, second.Session.IsAuthenticated())
	assert.Zero(t, *expired)

	second.Resume(f.ctx)
	second.Resume(f.ctx)

	assert.Equal(t, 1, *expired)
	assert.Equal(t, app.ReasonExpired, second.Session.Session().Error)
	require.Len(t, second.Toasts.Toasts(), 1)

	third := app.NewStores(f.ctx, f.deps, app.Settings{}, nil)
	t.Cleanup(third.Close)
	third.Resume(f.ctx)
	assert.Equal(t, 1, *expired, "expiry is persisted and not repeated")
}

func TestStores_ResumeKeepsLiveSession(t *testing.T) {
	f := newFixture(t)
	first := app.NewStores(f.ctx, f.deps, app.Settings{}, nil)
	require.NoError(t, first.Session.Login(f.ctx, buyer(), time.Hour))
	first.Close()

	expired := f.count(bus.SignalSessionExpired)
	second := app.NewStores(f.ctx, f.deps, app.Settings{}, nil)
	t.Cleanup(second.Close)
	second.Resume(f.ctx)

	assert.True(t, second.Session.IsAuthenticated())
	assert.Zero(t, *expired)
}
