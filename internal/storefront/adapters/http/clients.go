package http

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gogetmarket/internal/storefront/adapters/apiboundary"
	busadapter "gogetmarket/internal/storefront/adapters/bus"
	"gogetmarket/internal/storefront/app"
	"gogetmarket/internal/storefront/metrics"
	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/internal/storefront/ports/scheduler"
	"gogetmarket/internal/storefront/ports/services"
	"gogetmarket/internal/storefront/ports/storage"
	"gogetmarket/internal/storefront/resilience"
	"gogetmarket/pkg/logger"
)

// Сообщения пользователю, которые хост добавляет в очередь уведомлений.
const (
	MsgSessionExpired = "Your session has expired. Sign in again or continue as a guest."
	MsgAddedToCart    = "Added to cart"
	MsgSavedWishlist  = "Saved to wishlist"
	MsgCompareFull    = "You can compare up to 4 products"
)

const (
	LogClientLoaded  = "client stores loaded"
	LogClientEvicted = "idle client stores evicted"
)

// RegistryDeps - общие для всех клиентов зависимости.
type RegistryDeps struct {
	Storage    storage.SnapshotStorage
	Scheduler  scheduler.Scheduler
	Inspector  services.TokenInspector
	Resilience *resilience.ServiceResilience
	Metrics    *metrics.Metrics
	Settings   app.Settings
	KeyPrefix  string
	Logger     *logger.Logger
}

// Client - хранилища и граница бэкенда одного клиента.
type Client struct {
	ID       string
	Stores   *app.Stores
	Boundary *apiboundary.Reporter

	lastSeen time.Time
	release  []func()
}

func (c *Client) close() {
	for _, release := range c.release {
		release()
	}
	c.Stores.Close()
}

// Registry лениво создает набор хранилищ на каждый идентификатор клиента.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Client
	loading singleflight.Group
	deps    RegistryDeps
}

// NewRegistry создает пустой реестр.
func NewRegistry(deps RegistryDeps) *Registry {
	if deps.Logger == nil {
		deps.Logger = logger.Log(context.Background())
	}
	return &Registry{clients: make(map[string]*Client), deps: deps}
}

// Get возвращает хранилища клиента, восстанавливая их из снимков при первом обращении.
// Восстановление идет без блокировки реестра. Параллельные первые обращения
// с одним идентификатором получают один и тот же набор.
func (r *Registry) Get(ctx context.Context, clientID string) *Client {
	if c, ok := r.touch(clientID); ok {
		return c
	}

	loaded, _, _ := r.loading.Do(clientID, func() (any, error) {
		if c, ok := r.touch(clientID); ok {
			return c, nil
		}

		loadCtx := context.WithoutCancel(ctx)
		c := r.newClient(loadCtx, clientID)

		r.mu.Lock()
		c.lastSeen = r.deps.Scheduler.Now()
		r.clients[clientID] = c
		r.mu.Unlock()

		r.deps.Metrics.ClientAdded()
		r.deps.Logger.Debug(ctx, LogClientLoaded, zap.String(logger.ClientID, clientID))
		c.Stores.Resume(loadCtx)
		return c, nil
	})
	return loaded.(*Client)
}

func (r *Registry) touch(clientID string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[clientID]
	if ok {
		c.lastSeen = r.deps.Scheduler.Now()
	}
	return c, ok
}

func (r *Registry) newClient(ctx context.Context, clientID string) *Client {
	log := r.deps.Logger.With(zap.String(logger.ClientID, clientID))
	eventBus := busadapter.NewEventBus(log)

	deps := app.Deps{
		Bus:       eventBus,
		Scheduler: r.deps.Scheduler,
		Storage:   r.deps.Storage,
		KeyPrefix: r.deps.KeyPrefix,
		ClientID:  clientID,
		Logger:    log,
	}
	stores := app.NewStores(ctx, deps, r.deps.Settings, r.deps.Inspector)

	c := &Client{
		ID:       clientID,
		Stores:   stores,
		Boundary: apiboundary.NewReporter(r.deps.Resilience, stores.Session, stores.Wishlist, eventBus),
	}
	c.release = append(c.release,
		r.deps.Metrics.ObserveBus(eventBus),
		eventBus.Subscribe(bus.SignalSessionExpired, func(bus.Event) {
			stores.Toasts.Warning(context.Background(), MsgSessionExpired)
		}),
	)
	return c
}

// Len возвращает число загруженных клиентов.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Evict выгружает клиентов, простаивающих дольше idle. Их снимки остаются в хранилище.
func (r *Registry) Evict(ctx context.Context, idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.deps.Scheduler.Now()
	evicted := 0
	for id, c := range r.clients {
		if now.Sub(c.lastSeen) < idle {
			continue
		}
		c.close()
		delete(r.clients, id)
		r.deps.Metrics.ClientRemoved()
		evicted++
	}

	if evicted > 0 {
		r.deps.Logger.Info(ctx, LogClientEvicted, zap.Int("evicted", evicted))
	}
	return evicted
}

// RunEviction периодически вызывает Evict, пока ctx не отменен.
func (r *Registry) RunEviction(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Evict(ctx, idle)
		}
	}
}

// Close выгружает всех клиентов.
func (r *Registry) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.clients {
		c.close()
		delete(r.clients, id)
		r.deps.Metrics.ClientRemoved()
	}
	return nil
}
