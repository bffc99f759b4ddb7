package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-storefront.git/internal/kafka"
	"github.com/ariefcatur/go-storefront.git/internal/orders"
	"github.com/ariefcatur/go-storefront.git/internal/redisx"
)

func statusMessage(eventID, orderID string, status orders.Status) kafkago.Message {
	ev := orders.Envelope{
		EventID:       eventID,
		EventType:     orders.EventOrderStatusUpdated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "storefront-api",
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.OrderStatusUpdatedPayload{
			OrderID: orderID,
			Status:  status,
		}),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(ev)}
}

func TestHandleStatusUpdatedCachesStatus(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := &Service{Redis: rdb, ServiceName: "worker-test"}
	ctx := context.Background()

	if err := svc.HandleStatusUpdated(ctx, statusMessage("ev-1", "ord-1", orders.StatusShipped)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, "ord-1")
	got, err := rdb.Get(ctx, key).Result()
	if err != nil {
		t.Fatalf("cache read: %v", err)
	}
	if got != `{"status":"Shipped"}` {
		t.Errorf("cached = %s", got)
	}
}

// A redelivered event must not run its side effects twice.
func TestHandleStatusUpdatedDedups(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := &Service{Redis: rdb, ServiceName: "worker-test"}
	ctx := context.Background()

	m := statusMessage("ev-1", "ord-1", orders.StatusShipped)
	if err := svc.HandleStatusUpdated(ctx, m); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, "ord-1")
	if err := rdb.Set(ctx, key, "sentinel", 0).Err(); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleStatusUpdated(ctx, m); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	got, _ := rdb.Get(ctx, key).Result()
	if got != "sentinel" {
		t.Errorf("redelivery overwrote the cache: %s", got)
	}
}

func TestHandlerIgnoresForeignEventType(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := &Service{Redis: rdb, ServiceName: "worker-test"}
	ctx := context.Background()

	// a status event delivered to the created handler is dropped untouched
	if err := svc.HandleOrderCreated(ctx, statusMessage("ev-2", "ord-2", orders.StatusDelivered)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, "ord-2")
	if _, err := rdb.Get(ctx, key).Result(); err != redis.Nil {
		t.Error("foreign event type produced a side effect")
	}
}
