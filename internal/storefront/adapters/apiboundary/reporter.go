// Package apiboundary переводит исходы вызовов бэкенда в действия хранилищ:
// отказ в авторизации истекает сессию, сбой публикует network-error,
// свежие цены каталога обновляют избранное.
package apiboundary

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gogetmarket/internal/storefront/domain/entities"
	"gogetmarket/internal/storefront/ports/bus"
	"gogetmarket/internal/storefront/resilience"
	"gogetmarket/pkg/logger"
)

const (
	LogUnauthorized   = "backend rejected credentials"
	LogBackendFailure = "backend call failed"
	LogPricesApplied  = "catalog prices applied"

	ReasonUnauthorized = "unauthorized response from backend"
)

// ErrUnauthorized - бэкенд отверг учетные данные.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError - ответ бэкенда с HTTP-статусом ошибки.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded with status %d", e.StatusCode)
}

// SessionExpirer - часть хранилища сессии, нужная границе.
type SessionExpirer interface {
	MarkExpired(ctx context.Context, reason string) bool
}

// PriceRefresher - часть хранилища избранного, нужная границе.
type PriceRefresher interface {
	RefreshPrice(ctx context.Context, productID string, price entities.Money) (bool, error)
}

// NetworkErrorPayload сопровождает сигнал network-error.
type NetworkErrorPayload struct {
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// IsUnauthorized распознает отказ в авторизации: ErrUnauthorized, gRPC Unauthenticated или HTTP 401.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusUnauthorized
	}
	if st, ok := status.FromError(err); ok {
		return st.Code() == codes.Unauthenticated
	}
	return false
}

// isCanceled - вызов прерван самим клиентом, это не сбой сети.
func isCanceled(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	if st, ok := status.FromError(err); ok {
		return st.Code() == codes.Canceled
	}
	return false
}

// isRetryable - повторять имеет смысл только сбои транспорта и 5xx.
func isRetryable(err error) bool {
	if IsUnauthorized(err) || isCanceled(err) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.ResourceExhausted, codes.Aborted, codes.Internal, codes.Unknown:
			return true
		default:
			return false
		}
	}
	return true
}

// NewResilience создает обертку, которая не повторяет отказы в авторизации
// и не считает их сбоями бэкенда.
func NewResilience(name string, breaker resilience.CircuitBreakerConfig, retry resilience.RetryConfig) *resilience.ServiceResilience {
	breaker.IsFailure = func(err error) bool { return !IsUnauthorized(err) && !isCanceled(err) }
	retry.ShouldRetry = isRetryable
	return resilience.NewServiceResilience(name, breaker, retry)
}

// Reporter связывает вызовы бэкенда с хранилищами одного клиента.
type Reporter struct {
	resilience *resilience.ServiceResilience
	session    SessionExpirer
	prices     PriceRefresher
	bus        bus.Bus
}

// NewReporter создает границу. res обычно общий для всех клиентов.
func NewReporter(res *resilience.ServiceResilience, session SessionExpirer, prices PriceRefresher, b bus.Bus) *Reporter {
	return &Reporter{resilience: res, session: session, prices: prices, bus: b}
}

// Call выполняет вызов бэкенда с повторами и сообщает исход хранилищам.
func (r *Reporter) Call(ctx context.Context, operation string, call func(context.Context) error) error {
	err := r.resilience.Execute(ctx, operation, call)
	r.Report(ctx, operation, err)
	return err
}

// Observe учитывает исход вызова, выполненного вне границы: результат
// попадает в общий предохранитель, затем в хранилища.
func (r *Reporter) Observe(ctx context.Context, operation string, err error) {
	if !isCanceled(err) {
		r.resilience.Breaker().RecordResult(ctx, err)
	}
	r.Report(ctx, operation, err)
}

// Report переводит исход уже выполненного вызова в действия хранилищ.
func (r *Reporter) Report(ctx context.Context, operation string, err error) {
	if err == nil || isCanceled(err) {
		return
	}
	log := logger.Log(ctx).With(zap.String("operation", operation))

	if IsUnauthorized(err) {
		log.Warn(ctx, LogUnauthorized, zap.Error(err))
		r.session.MarkExpired(ctx, ReasonUnauthorized)
		return
	}

	log.Warn(ctx, LogBackendFailure, zap.Error(err))
	r.bus.Publish(bus.SignalNetworkError, NetworkErrorPayload{Operation: operation, Error: err.Error()})
}

// ApplyPrices передает свежие цены каталога в избранное.
// Возвращает число обновленных товаров. Отсутствующие товары пропускаются.
func (r *Reporter) ApplyPrices(ctx context.Context, prices map[string]entities.Money) (int, error) {
	updated := 0
	var errs []error
	for productID, price := range prices {
		ok, err := r.prices.RefreshPrice(ctx, productID, price)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", productID, err))
			continue
		}
		if ok {
			updated++
		}
	}

	logger.Log(ctx).Debug(ctx, LogPricesApplied, zap.Int("received", len(prices)), zap.Int("updated", updated))
	return updated, errors.Join(errs...)
}

// RefreshPrices запрашивает цены через fetch и применяет их.
func (r *Reporter) RefreshPrices(
	ctx context.Context,
	productIDs []string,
	fetch func(ctx context.Context, productIDs []string) (map[string]entities.Money, error),
) (int, error) {
	prices, err := resilience.Do(ctx, r.resilience, "refresh_prices", func(ctx context.Context) (map[string]entities.Money, error) {
		return fetch(ctx, productIDs)
	})
	r.Report(ctx, "refresh_prices", err)
	if err != nil {
		return 0, err
	}
	return r.ApplyPrices(ctx, prices)
}
