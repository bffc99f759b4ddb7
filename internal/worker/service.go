package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-storefront.git/internal/kafka"
	"github.com/ariefcatur/go-storefront.git/internal/mailer"
	"github.com/ariefcatur/go-storefront.git/internal/orders"
	"github.com/ariefcatur/go-storefront.git/internal/redisx"
)

// Service consumes order events and handles the slow side effects the HTTP
// path must not wait on: customer email and the order-status cache.
type Service struct {
	Redis       *redis.Client
	Mailer      *mailer.Mailer
	ServiceName string
}

func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	env, fresh, err := s.accept(ctx, m, orders.EventOrderCreated)
	if err != nil || !fresh {
		return err
	}
	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	s.cacheStatus(ctx, p.OrderID, orders.StatusPlaced)
	if p.UserEmail != "" {
		s.Mailer.SendOrderConfirmation(p.UserEmail, p.OrderID, p.AmountCents)
	}
	slog.Info("order created handled", "order_id", p.OrderID, "trace_id", env.TraceID)
	return nil
}

func (s *Service) HandleOrderCanceled(ctx context.Context, m kafkago.Message) error {
	env, fresh, err := s.accept(ctx, m, orders.EventOrderCanceled)
	if err != nil || !fresh {
		return err
	}
	p, err := kafkax.UnwrapPayload[orders.OrderCanceledPayload](env.Payload)
	if err != nil {
		return err
	}

	s.cacheStatus(ctx, p.OrderID, orders.StatusCanceled)
	if p.UserEmail != "" {
		s.Mailer.SendOrderCancellation(p.UserEmail, p.OrderID, p.Reason)
	}
	slog.Info("order canceled handled", "order_id", p.OrderID, "trace_id", env.TraceID)
	return nil
}

func (s *Service) HandleStatusUpdated(ctx context.Context, m kafkago.Message) error {
	env, fresh, err := s.accept(ctx, m, orders.EventOrderStatusUpdated)
	if err != nil || !fresh {
		return err
	}
	p, err := kafkax.UnwrapPayload[orders.OrderStatusUpdatedPayload](env.Payload)
	if err != nil {
		return err
	}

	s.cacheStatus(ctx, p.OrderID, p.Status)
	if p.CODPaid {
		slog.Info("cod payment collected", "order_id", p.OrderID)
	}
	return nil
}

// accept decodes the envelope, drops foreign event types, and dedups by
// event id so a redelivered message runs its side effects once.
func (s *Service) accept(ctx context.Context, m kafkago.Message, want string) (*orders.Envelope, bool, error) {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return nil, false, err
	}
	if env.EventType != want {
		return nil, false, nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	seen, _ := redisx.Exists(ctx, s.Redis, dkey)
	if seen {
		return &env, false, nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return &env, true, nil
}

func (s *Service) cacheStatus(ctx context.Context, orderID string, status orders.Status) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = s.Redis.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, status), redisx.TTLStatusCache).Err()
}
