package payments

import (
	"testing"

	"github.com/ariefcatur/go-storefront.git/internal/orders"
)

func TestStripeConfigured(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"PasteYourKeyHere", false},
		{"sk_test_abc123", true},
	}
	for _, c := range cases {
		if got := NewStripe(c.key, "inr").Configured(); got != c.want {
			t.Errorf("Configured() with key %q = %v, want %v", c.key, got, c.want)
		}
	}
}

func TestStripeNotConfiguredMessage(t *testing.T) {
	g := NewStripe("", "inr")
	_, err := g.CheckoutSession("http://localhost:5173", &orders.Order{ID: "o1"}, 1000)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != MsgStripeNotConfigured {
		t.Errorf("got %q, want %q", err.Error(), MsgStripeNotConfigured)
	}
}

func TestRazorpayConfigured(t *testing.T) {
	cases := []struct {
		keyID, secret string
		want          bool
	}{
		{"", "", false},
		{"rzp_test_abc", "", false},
		{"PasteKeyIdHere", "PasteSecretHere", false},
		{"rzp_test_abc", "secret123", true},
	}
	for _, c := range cases {
		if got := NewRazorpay(c.keyID, c.secret, "INR").Configured(); got != c.want {
			t.Errorf("Configured() with (%q, %q) = %v, want %v", c.keyID, c.secret, got, c.want)
		}
	}
}

func TestRazorpayNotConfiguredMessage(t *testing.T) {
	g := NewRazorpay("", "", "INR")
	if _, err := g.CreateOrder("o1", 5000); err == nil || err.Error() != MsgRazorpayNotConfigured {
		t.Errorf("CreateOrder err = %v, want %q", err, MsgRazorpayNotConfigured)
	}
	if _, _, err := g.FetchOrder("order_x"); err == nil || err.Error() != MsgRazorpayNotConfigured {
		t.Errorf("FetchOrder err = %v, want %q", err, MsgRazorpayNotConfigured)
	}
}
