package payments

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/ariefcatur/go-storefront.git/internal/orders"
)

// MsgStripeNotConfigured is what the shopper sees when card payment is
// unavailable; the frontend shows it verbatim.
const MsgStripeNotConfigured = "Stripe payment is not configured. Please use COD or contact support."

type StripeGateway struct {
	api      *client.API
	key      string
	currency string
}

func NewStripe(secretKey, currency string) *StripeGateway {
	g := &StripeGateway{key: secretKey, currency: strings.ToLower(currency)}
	if g.Configured() {
		g.api = &client.API{}
		g.api.Init(secretKey, nil)
	}
	return g
}

// Configured treats an empty key or the scaffold's "Paste" placeholder as not
// set up.
func (g *StripeGateway) Configured() bool {
	return g.key != "" && !strings.Contains(g.key, "Paste")
}

// CheckoutSession creates a redirect-based Checkout Session for an order's
// lines plus the delivery charge, and returns the hosted payment URL.
func (g *StripeGateway) CheckoutSession(origin string, o *orders.Order, deliveryChargeCents int64) (string, error) {
	if !g.Configured() {
		return "", fmt.Errorf("%s", MsgStripeNotConfigured)
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(o.Items)+1)
	for _, it := range o.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
				UnitAmount: stripe.Int64(it.PriceCents),
			},
			Quantity: stripe.Int64(int64(it.Qty)),
		})
	}
	lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String(g.currency),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String("Delivery Charges"),
			},
			UnitAmount: stripe.Int64(deliveryChargeCents),
		},
		Quantity: stripe.Int64(1),
	})

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(fmt.Sprintf("%s/verify?success=true&orderId=%s", origin, o.ID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/verify?success=false&orderId=%s", origin, o.ID)),
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
	}
	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
