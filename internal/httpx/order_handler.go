package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-storefront.git/internal/analytics"
	"github.com/ariefcatur/go-storefront.git/internal/cart"
	kafkax "github.com/ariefcatur/go-storefront.git/internal/kafka"
	"github.com/ariefcatur/go-storefront.git/internal/orders"
	"github.com/ariefcatur/go-storefront.git/internal/payments"
	"github.com/ariefcatur/go-storefront.git/internal/redisx"
	"github.com/ariefcatur/go-storefront.git/internal/users"
)

// OrderStore is the order persistence surface the HTTP layer relies on;
// *orders.Repo satisfies it.
type OrderStore interface {
	Place(ctx context.Context, userID string, items []orders.PlaceItem, address json.RawMessage, amountCents int64, method string) (*orders.Order, error)
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	Owner(ctx context.Context, orderID string) (string, error)
	Cancel(ctx context.Context, orderID, userID, reason string) error
	UpdateStatus(ctx context.Context, orderID string, to orders.Status) (bool, error)
	MarkPaid(ctx context.Context, orderID string) error
	FailPayment(ctx context.Context, orderID string) error
	SetGatewayRef(ctx context.Context, orderID, ref string) error
	ListAll(ctx context.Context) ([]orders.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
}

type OrderHandler struct {
	Orders   OrderStore
	Users    *users.Repo
	Cart     *cart.Repo
	Stripe   *payments.StripeGateway
	Razorpay *payments.RazorpayGateway
	Redis    *redis.Client
	Auth     *Auth

	ProducerCreated   *kafkax.Producer
	ProducerCanceled  *kafkax.Producer
	ProducerStatus    *kafkax.Producer
	ProducerPayAuth   *kafkax.Producer
	ProducerPayFailed *kafkax.Producer

	Service             string
	DeliveryChargeCents int64
}

func (h *OrderHandler) Register(r chi.Router) {
	r.Route("/order", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireUser)
			r.Post("/place", h.placeCOD)
			r.Post("/stripe", h.placeStripe)
			r.Post("/razorpay", h.placeRazorpay)
			r.Post("/verifyStripe", h.verifyStripe)
			r.Post("/verifyRazorpay", h.verifyRazorpay)
			r.Post("/userorders", h.userOrders)
			r.Post("/cancel", h.cancel)
			r.Post("/track", h.track)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAdmin)
			r.Post("/list", h.list)
			r.Post("/status", h.updateStatus)
			r.Get("/analytics", h.analytics)
		})
	})
}

type placeRequest struct {
	Items   []orders.PlaceItem `json:"items"`
	Amount  int64              `json:"amount"`
	Address json.RawMessage    `json:"address"`
}

func (h *OrderHandler) place(w http.ResponseWriter, r *http.Request, method string) *orders.Order {
	var req placeRequest
	if !decode(w, r, &req) {
		return nil
	}
	if len(req.Items) == 0 {
		fail(w, "No items in order")
		return nil
	}
	if req.Amount <= 0 {
		fail(w, "Invalid order amount")
		return nil
	}
	o, err := h.Orders.Place(r.Context(), UserID(r.Context()), req.Items, req.Address, req.Amount, method)
	if err != nil {
		fail(w, err.Error())
		return nil
	}
	return o
}

func (h *OrderHandler) placeCOD(w http.ResponseWriter, r *http.Request) {
	o := h.place(w, r, orders.MethodCOD)
	if o == nil {
		return
	}
	if err := h.Cart.Clear(r.Context(), o.UserID); err != nil {
		fail(w, err.Error())
		return
	}
	h.cacheStatus(r.Context(), o.ID, o.Status)
	h.publishCreated(r, o)
	ok(w, map[string]any{"message": "Order Placed"})
}

func (h *OrderHandler) placeStripe(w http.ResponseWriter, r *http.Request) {
	if !h.Stripe.Configured() {
		fail(w, payments.MsgStripeNotConfigured)
		return
	}
	o := h.place(w, r, orders.MethodStripe)
	if o == nil {
		return
	}
	url, err := h.Stripe.CheckoutSession(r.Header.Get("Origin"), o, h.DeliveryChargeCents)
	if err != nil {
		// the order must not hold stock for a session that never opened
		if rbErr := h.Orders.FailPayment(r.Context(), o.ID); rbErr != nil {
			fail(w, rbErr.Error())
			return
		}
		fail(w, err.Error())
		return
	}
	h.cacheStatus(r.Context(), o.ID, o.Status)
	h.publishCreated(r, o)
	ok(w, map[string]any{"session_url": url})
}

func (h *OrderHandler) placeRazorpay(w http.ResponseWriter, r *http.Request) {
	if !h.Razorpay.Configured() {
		fail(w, payments.MsgRazorpayNotConfigured)
		return
	}
	o := h.place(w, r, orders.MethodRazorpay)
	if o == nil {
		return
	}
	rzpOrder, err := h.Razorpay.CreateOrder(o.ID, o.AmountCents)
	if err != nil {
		if rbErr := h.Orders.FailPayment(r.Context(), o.ID); rbErr != nil {
			fail(w, rbErr.Error())
			return
		}
		fail(w, err.Error())
		return
	}
	if ref, _ := rzpOrder["id"].(string); ref != "" {
		if err := h.Orders.SetGatewayRef(r.Context(), o.ID, ref); err != nil {
			fail(w, err.Error())
			return
		}
	}
	h.cacheStatus(r.Context(), o.ID, o.Status)
	h.publishCreated(r, o)
	ok(w, map[string]any{"order": rzpOrder})
}

func (h *OrderHandler) verifyStripe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"orderId"`
		Success string `json:"success"`
	}
	if !decode(w, r, &req) {
		return
	}
	o, err := h.Orders.Get(r.Context(), req.OrderID)
	if err != nil {
		fail(w, err.Error())
		return
	}
	if req.Success != "true" {
		if err := h.Orders.FailPayment(r.Context(), req.OrderID); err != nil {
			fail(w, err.Error())
			return
		}
		h.publish(r, h.ProducerPayFailed, orders.EventPaymentFailed, req.OrderID,
			orders.PaymentFailedPayload{OrderID: req.OrderID, Gateway: orders.MethodStripe})
		fail(w, "Payment Failed")
		return
	}
	if err := h.Orders.MarkPaid(r.Context(), req.OrderID); err != nil {
		fail(w, err.Error())
		return
	}
	if err := h.Cart.Clear(r.Context(), o.UserID); err != nil {
		fail(w, err.Error())
		return
	}
	h.publish(r, h.ProducerPayAuth, orders.EventPaymentAuthorized, req.OrderID,
		orders.PaymentAuthorizedPayload{OrderID: req.OrderID, Gateway: orders.MethodStripe, AmountCents: o.AmountCents})
	ok(w, map[string]any{"message": "Payment Successful"})
}

func (h *OrderHandler) verifyRazorpay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RazorpayOrderID string `json:"razorpay_order_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	paid, orderID, err := h.Razorpay.FetchOrder(req.RazorpayOrderID)
	if err != nil {
		fail(w, err.Error())
		return
	}
	if orderID == "" {
		fail(w, "Order not found")
		return
	}
	if !paid {
		if err := h.Orders.FailPayment(r.Context(), orderID); err != nil {
			fail(w, err.Error())
			return
		}
		h.publish(r, h.ProducerPayFailed, orders.EventPaymentFailed, orderID,
			orders.PaymentFailedPayload{OrderID: orderID, Gateway: orders.MethodRazorpay})
		fail(w, "Payment Failed")
		return
	}
	o, err := h.Orders.Get(r.Context(), orderID)
	if err != nil {
		fail(w, err.Error())
		return
	}
	if err := h.Orders.MarkPaid(r.Context(), orderID); err != nil {
		fail(w, err.Error())
		return
	}
	if err := h.Cart.Clear(r.Context(), o.UserID); err != nil {
		fail(w, err.Error())
		return
	}
	h.publish(r, h.ProducerPayAuth, orders.EventPaymentAuthorized, orderID,
		orders.PaymentAuthorizedPayload{
			OrderID:     orderID,
			Gateway:     orders.MethodRazorpay,
			GatewayRef:  req.RazorpayOrderID,
			AmountCents: o.AmountCents,
		})
	ok(w, map[string]any{"message": "Payment Successful"})
}

func (h *OrderHandler) userOrders(w http.ResponseWriter, r *http.Request) {
	os, err := h.Orders.ListByUser(r.Context(), UserID(r.Context()))
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"orders": os})
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	os, err := h.Orders.ListAll(r.Context())
	if err != nil {
		fail(w, err.Error())
		return
	}
	ok(w, map[string]any{"orders": os})
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	codPaid, err := h.Orders.UpdateStatus(r.Context(), req.OrderID, orders.Status(req.Status))
	if err != nil {
		fail(w, err.Error())
		return
	}
	h.cacheStatus(r.Context(), req.OrderID, orders.Status(req.Status))
	h.publish(r, h.ProducerStatus, orders.EventOrderStatusUpdated, req.OrderID,
		orders.OrderStatusUpdatedPayload{OrderID: req.OrderID, Status: orders.Status(req.Status), CODPaid: codPaid})
	ok(w, map[string]any{"message": "Status Updated"})
}

func (h *OrderHandler) cancel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID      string `json:"orderId"`
		CancelReason string `json:"cancelReason"`
	}
	if !decode(w, r, &req) {
		return
	}
	userID := UserID(r.Context())
	if err := h.Orders.Cancel(r.Context(), req.OrderID, userID, req.CancelReason); err != nil {
		fail(w, err.Error())
		return
	}
	h.cacheStatus(r.Context(), req.OrderID, orders.StatusCanceled)
	h.publish(r, h.ProducerCanceled, orders.EventOrderCanceled, req.OrderID,
		orders.OrderCanceledPayload{
			OrderID:   req.OrderID,
			UserID:    userID,
			UserEmail: h.userEmail(r, userID),
			Reason:    req.CancelReason,
		})
	ok(w, map[string]any{"message": "Order cancelled successfully"})
}

// track serves the shopper's status poll from the Redis cache when it can,
// falling back to the database on a miss. Ownership is verified before either
// path: the cache is keyed by order alone, so it must never answer for a
// caller who does not own the order.
func (h *OrderHandler) track(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if !decode(w, r, &req) {
		return
	}
	owner, err := h.Orders.Owner(r.Context(), req.OrderID)
	if err != nil {
		fail(w, err.Error())
		return
	}
	if owner != UserID(r.Context()) {
		fail(w, "Unauthorized")
		return
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, req.OrderID)
	if cached, err := h.Redis.Get(r.Context(), key).Result(); err == nil {
		var body struct {
			Status orders.Status `json:"status"`
		}
		if json.Unmarshal([]byte(cached), &body) == nil {
			ok(w, map[string]any{"status": body.Status})
			return
		}
	}
	o, err := h.Orders.Get(r.Context(), req.OrderID)
	if err != nil {
		fail(w, err.Error())
		return
	}
	h.cacheStatus(r.Context(), o.ID, o.Status)
	ok(w, map[string]any{"status": o.Status})
}

func (h *OrderHandler) analytics(w http.ResponseWriter, r *http.Request) {
	if cached, err := h.Redis.Get(r.Context(), redisx.KeyAnalytics).Result(); err == nil {
		ok(w, map[string]any{"analytics": json.RawMessage(cached)})
		return
	}
	os, err := h.Orders.ListAll(r.Context())
	if err != nil {
		fail(w, err.Error())
		return
	}
	summary := analytics.Compute(os, time.Now())
	if b, err := json.Marshal(summary); err == nil {
		_ = h.Redis.Set(r.Context(), redisx.KeyAnalytics, b, redisx.TTLAnalytics).Err()
	}
	ok(w, map[string]any{"analytics": summary})
}

func (h *OrderHandler) cacheStatus(ctx context.Context, orderID string, status orders.Status) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = h.Redis.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, status), redisx.TTLStatusCache).Err()
}

func (h *OrderHandler) publishCreated(r *http.Request, o *orders.Order) {
	h.publish(r, h.ProducerCreated, orders.EventOrderCreated, o.ID, orders.OrderCreatedPayload{
		OrderID:       o.ID,
		UserID:        o.UserID,
		UserEmail:     h.userEmail(r, o.UserID),
		Items:         o.Items,
		AmountCents:   o.AmountCents,
		PaymentMethod: o.PaymentMethod,
	})
}

func (h *OrderHandler) publish(r *http.Request, p *kafkax.Producer, eventType, orderID string, payload any) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       middleware.GetReqID(r.Context()),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrderHandler) userEmail(r *http.Request, userID string) string {
	u, err := h.Users.ByID(r.Context(), userID)
	if err != nil {
		return ""
	}
	return u.Email
}
