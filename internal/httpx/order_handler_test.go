package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storefront.git/internal/orders"
)

// fakeOrderStore serves canned answers so handler paths run without Postgres.
type fakeOrderStore struct {
	owner    string
	order    *orders.Order
	getCalls int
}

func (f *fakeOrderStore) Place(context.Context, string, []orders.PlaceItem, json.RawMessage, int64, string) (*orders.Order, error) {
	return nil, orders.ErrNotFound
}

func (f *fakeOrderStore) Get(context.Context, string) (*orders.Order, error) {
	f.getCalls++
	if f.order == nil {
		return nil, orders.ErrNotFound
	}
	return f.order, nil
}

func (f *fakeOrderStore) Owner(context.Context, string) (string, error) {
	if f.owner == "" {
		return "", orders.ErrNotFound
	}
	return f.owner, nil
}

func (f *fakeOrderStore) Cancel(context.Context, string, string, string) error    { return nil }
func (f *fakeOrderStore) MarkPaid(context.Context, string) error                  { return nil }
func (f *fakeOrderStore) FailPayment(context.Context, string) error               { return nil }
func (f *fakeOrderStore) SetGatewayRef(context.Context, string, string) error     { return nil }
func (f *fakeOrderStore) ListAll(context.Context) ([]orders.Order, error)         { return nil, nil }
func (f *fakeOrderStore) ListByUser(context.Context, string) ([]orders.Order, error) {
	return nil, nil
}
func (f *fakeOrderStore) UpdateStatus(context.Context, string, orders.Status) (bool, error) {
	return false, nil
}

func trackRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/order/track", strings.NewReader(`{"orderId":"ord-1"}`))
	return req.WithContext(context.WithValue(req.Context(), ctxKeyUserID, userID))
}

// A warm status cache must not answer for a caller who does not own the
// order; tracking is per-owner even when the database is never consulted.
func TestTrackRejectsNonOwnerWithWarmCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	h := &OrderHandler{Orders: &fakeOrderStore{owner: "user-a"}, Redis: rdb}
	h.cacheStatus(context.Background(), "ord-1", orders.StatusShipped)

	rec := httptest.NewRecorder()
	h.track(rec, trackRequest("user-b"))

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Fatal("non-owner was served a cached status")
	}
	if body.Message != "Unauthorized" {
		t.Errorf("message = %q, want %q", body.Message, "Unauthorized")
	}
	if body.Status != "" {
		t.Errorf("status leaked: %q", body.Status)
	}
}

func TestTrackServesOwnerFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := &fakeOrderStore{owner: "user-a"}
	h := &OrderHandler{Orders: store, Redis: rdb}
	h.cacheStatus(context.Background(), "ord-1", orders.StatusShipped)

	rec := httptest.NewRecorder()
	h.track(rec, trackRequest("user-a"))

	var body struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Status != string(orders.StatusShipped) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if store.getCalls != 0 {
		t.Errorf("cache hit still loaded the order %d times", store.getCalls)
	}
}

func TestTrackFallsBackToStoreOnCacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := &fakeOrderStore{
		owner: "user-a",
		order: &orders.Order{ID: "ord-1", UserID: "user-a", Status: orders.StatusProcessing},
	}
	h := &OrderHandler{Orders: store, Redis: rdb}

	rec := httptest.NewRecorder()
	h.track(rec, trackRequest("user-a"))

	if !strings.Contains(rec.Body.String(), string(orders.StatusProcessing)) {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if store.getCalls != 1 {
		t.Errorf("getCalls = %d, want 1", store.getCalls)
	}
}
