package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderCanceled      = "OrderCanceled"
	EventOrderStatusUpdated = "OrderStatusUpdated"
	EventPaymentAuthorized  = "PaymentAuthorized"
	EventPaymentFailed      = "PaymentFailed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	Items         []Item `json:"items"`
	AmountCents   int64  `json:"amount_cents"`
	PaymentMethod string `json:"payment_method"`
}

type OrderCanceledPayload struct {
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
	Reason    string `json:"reason"`
}

type OrderStatusUpdatedPayload struct {
	OrderID string `json:"order_id"`
	Status  Status `json:"status"`
	CODPaid bool   `json:"cod_paid"`
}

type PaymentAuthorizedPayload struct {
	OrderID     string `json:"order_id"`
	Gateway     string `json:"gateway"`
	GatewayRef  string `json:"gateway_ref,omitempty"`
	AmountCents int64  `json:"amount_cents"`
}

type PaymentFailedPayload struct {
	OrderID string `json:"order_id"`
	Gateway string `json:"gateway"`
}
