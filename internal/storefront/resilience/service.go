package resilience

import (
	"context"

	"go.uber.org/zap"

	"gogetmarket/pkg/logger"
)

// ServiceResilience объединяет автомат защиты и повторы для одного бэкенда.
type ServiceResilience struct {
	serviceName    string
	circuitBreaker *CircuitBreaker
	retry          *Retry
}

// NewServiceResilience создает обертку с заданными настройками.
func NewServiceResilience(serviceName string, breaker CircuitBreakerConfig, retry RetryConfig) *ServiceResilience {
	return &ServiceResilience{
		serviceName:    serviceName,
		circuitBreaker: NewCircuitBreaker(serviceName, breaker),
		retry:          NewRetry(serviceName, retry),
	}
}

// Breaker возвращает автомат защиты.
func (r *ServiceResilience) Breaker() *CircuitBreaker {
	return r.circuitBreaker
}

// Execute выполняет операцию с повторами внутри автомата защиты.
func (r *ServiceResilience) Execute(ctx context.Context, operationName string, operation func(context.Context) error) error {
	log := logger.Log(ctx).With(
		zap.String("service", r.serviceName),
		zap.String("operation", operationName),
	)
	log.Debug(ctx, "executing operation with resilience")

	return r.circuitBreaker.Execute(ctx, func() error {
		return r.retry.Execute(ctx, func() error { return operation(ctx) })
	})
}

// Do выполняет операцию с результатом.
func Do[T any](ctx context.Context, r *ServiceResilience, operationName string, operation func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.Execute(ctx, operationName, func(ctx context.Context) error {
		var err error
		result, err = operation(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
