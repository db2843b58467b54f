package app

import (
	"context"
	"time"

	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/internal/storefront/ports/services"
)

// Settings - настраиваемые длительности хранилищ.
type Settings struct {
	SessionTTL            time.Duration
	ToastDuration         time.Duration
	TransientErrorTimeout time.Duration
}

// Stores - набор хранилищ одного клиента, связанных общей шиной.
type Stores struct {
	Bus      bus.Bus
	Session  *SessionStore
	Cart     *CartStore
	Wishlist *WishlistStore
	Toasts   *ToastStore
	Network  *NetworkMonitor
	Settings Settings
}

// NewStores создает и восстанавливает все хранилища клиента.
func NewStores(ctx context.Context, deps Deps, settings Settings, inspector services.TokenInspector) *Stores {
	return &Stores{
		Bus:      deps.Bus,
		Session:  NewSessionStore(ctx, deps, inspector),
		Cart:     NewCartStore(ctx, deps),
		Wishlist: NewWishlistStore(ctx, deps),
		Toasts:   NewToastStore(deps, settings.ToastDuration),
		Network:  NewNetworkMonitor(deps, settings.TransientErrorTimeout),
		Settings: settings,
	}
}

// Resume применяет сроки, прошедшие, пока хранилища были выгружены:
// восстановленная просроченная сессия истекает с сигналом session-expired.
// Вызывается после подписки на шину.
func (s *Stores) Resume(ctx context.Context) {
	s.Session.CheckExpiry(ctx)
}

// Close отменяет таймеры и подписки. Состояние хранилищ сохраняется.
func (s *Stores) Close() {
	s.Session.Close()
	s.Toasts.Close()
	s.Network.Close()
}
