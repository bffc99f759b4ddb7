package kafka

import (
	"encoding/json"
	"testing"
)

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
		Amount  int64  `json:"amount_cents"`
	}

	raw := MustMarshal(payload{OrderID: "o-1", Amount: 4200})
	got, err := UnwrapPayload[payload](json.RawMessage(raw))
	if err != nil {
		t.Fatalf("UnwrapPayload: %v", err)
	}
	if got.OrderID != "o-1" || got.Amount != 4200 {
		t.Errorf("got %+v", got)
	}

	if _, err := UnwrapPayload[payload](json.RawMessage(`{`)); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}
