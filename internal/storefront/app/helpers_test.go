package app_test

import (
	"context"
	"testing"
	"time"

	busadapter "gogetmarket/internal/storefront/adapters/bus"
	"gogetmarket/internal/storefront/adapters/scheduler"
	"gogetmarket/internal/storefront/adapters/storage"
	"gogetmarket/internal/storefront/app"
	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/pkg/logger"
)

var epoch = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ctx     context.Context
	bus     *busadapter.EventBus
	clock   *scheduler.Manual
	storage *storage.MemoryStorage
	deps    app.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.NewNop()
	f := &fixture{
		ctx:     logger.NewContext(context.Background(), log),
		bus:     busadapter.NewEventBus(log),
		clock:   scheduler.NewManual(epoch),
		storage: storage.NewMemoryStorage(),
	}
	f.deps = app.Deps{
		Bus:       f.bus,
		Scheduler: f.clock,
		Storage:   f.storage,
		KeyPrefix: "test",
		ClientID:  "client-1",
		Logger:    log,
	}
	return f
}

// count подписывается на сигнал и возвращает счетчик доставок.
func (f *fixture) count(signal bus.Signal) *int {
	n := new(int)
	f.bus.Subscribe(signal, func(bus.Event) { *n++ })
	return n
}

func (f *fixture) key(kind string) string {
	return app.SnapshotKey("test", "client-1", kind)
}

func product(id string, price entities.Money) entities.Product {
	return entities.Product{ID: id, Name: "Product " + id, Price: price, InStock: true}
}

func buyer() entities.User {
	return entities.User{
		ID:        "u-1",
		Email:     "asha@example.com",
		FirstName: "Asha",
		LastName:  "Rao",
	}
}
