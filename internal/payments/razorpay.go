package payments

import (
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
)

const MsgRazorpayNotConfigured = "Razorpay payment is not configured. Please use COD or contact support."

type RazorpayGateway struct {
	client   *razorpay.Client
	keyID    string
	secret   string
	currency string
}

func NewRazorpay(keyID, keySecret, currency string) *RazorpayGateway {
	g := &RazorpayGateway{keyID: keyID, secret: keySecret, currency: strings.ToUpper(currency)}
	if g.Configured() {
		g.client = razorpay.NewClient(keyID, keySecret)
	}
	return g
}

func (g *RazorpayGateway) Configured() bool {
	return g.keyID != "" && !strings.Contains(g.keyID, "Paste") &&
		g.secret != "" && !strings.Contains(g.secret, "Paste")
}

// CreateOrder opens a gateway order whose receipt is our order id; the
// client-side widget completes the payment against it.
func (g *RazorpayGateway) CreateOrder(orderID string, amountCents int64) (map[string]interface{}, error) {
	if !g.Configured() {
		return nil, fmt.Errorf("%s", MsgRazorpayNotConfigured)
	}
	body := map[string]interface{}{
		"amount":   amountCents,
		"currency": g.currency,
		"receipt":  orderID,
	}
	return g.client.Order.Create(body, nil)
}

// FetchOrder looks a gateway order up by its Razorpay id and reports whether
// it is paid, plus the receipt (our order id).
func (g *RazorpayGateway) FetchOrder(razorpayOrderID string) (paid bool, receipt string, err error) {
	if !g.Configured() {
		return false, "", fmt.Errorf("%s", MsgRazorpayNotConfigured)
	}
	info, err := g.client.Order.Fetch(razorpayOrderID, nil, nil)
	if err != nil {
		return false, "", err
	}
	status, _ := info["status"].(string)
	receipt, _ = info["receipt"].(string)
	return status == "paid", receipt, nil
}
