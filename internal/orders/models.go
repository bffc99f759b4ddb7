package orders

import (
	"encoding/json"
	"time"
)

const (
	MethodCOD      = "COD"
	MethodStripe   = "Stripe"
	MethodRazorpay = "Razorpay"
)

// PlaceItem is one requested line of a checkout.
type PlaceItem struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"quantity"`
}

// Item is the denormalized snapshot of a product line at order time.
type Item struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Size       string `json:"size"`
	Qty        int    `json:"quantity"`
	PriceCents int64  `json:"price"`
}

type Order struct {
	ID            string          `json:"_id"`
	UserID        string          `json:"userId"`
	Items         []Item          `json:"items"`
	AmountCents   int64           `json:"amount"`
	Address       json.RawMessage `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	Paid          bool            `json:"payment"`
	Status        Status          `json:"status"`
	Cancelled     bool            `json:"cancelled"`
	CancelReason  string          `json:"cancelReason,omitempty"`
	CancelledAt   *time.Time      `json:"cancelDate,omitempty"`
	GatewayRef    string          `json:"-"`
	CreatedAt     time.Time       `json:"date"`
	UpdatedAt     time.Time       `json:"-"`
}
