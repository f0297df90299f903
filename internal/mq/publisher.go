package mq

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"habittracker/pkg/circuitbreaker"
	"habittracker/pkg/logger"
	"habittracker/pkg/metrics"
	"habittracker/pkg/trace"
)

// EventPublisher publishes domain events. Publishing is best effort: callers
// never fail because an event could not be delivered.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any)
}

// Broker is the transport below the event publisher, see pkg/mq.Publisher.
type Broker interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) {}

// BrokerPublisher wraps events in an envelope and hands them to the broker
// behind a circuit breaker.
type BrokerPublisher struct {
	broker  Broker
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

func NewBrokerPublisher(broker Broker, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *BrokerPublisher {
	return &BrokerPublisher{
		broker:  broker,
		breaker: breaker,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

func (p *BrokerPublisher) Publish(ctx context.Context, routingKey string, payload any) {
	log := logger.WithTrace(ctx, p.logger).With(zap.String("routing_key", routingKey))

	event, err := NewEvent(routingKey, trace.FromContext(ctx), payload)
	if err != nil {
		log.Error("failed to encode event", zap.Error(err))
		metrics.IncrementEventPublished(routingKey, "failed")
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to encode event envelope", zap.Error(err))
		metrics.IncrementEventPublished(routingKey, "failed")
		return
	}

	// 请求结束后事件仍需发出
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err = p.breaker.Execute(pubCtx, func(ctx context.Context) error {
		return p.broker.Publish(ctx, routingKey, event.ID, body)
	})
	switch {
	case err == nil:
		metrics.IncrementEventPublished(routingKey, "success")
		log.Debug("event published", zap.String("event_id", event.ID))
	case errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen):
		metrics.IncrementEventPublished(routingKey, "skipped")
		log.Warn("event dropped, broker circuit open", zap.String("event_id", event.ID))
	default:
		metrics.IncrementEventPublished(routingKey, "failed")
		log.Error("failed to publish event", zap.String("event_id", event.ID), zap.Error(err))
	}
}
