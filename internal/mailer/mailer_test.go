package mailer

import (
	"strings"
	"testing"
)

func TestOTPBody(t *testing.T) {
	body := OTPBody("123456")
	if !strings.Contains(body, "123456") {
		t.Error("body does not contain the code")
	}
	if !strings.Contains(body, "valid for 10 minutes") {
		t.Error("body does not mention the validity window")
	}
}

func TestOrderBodies(t *testing.T) {
	conf := orderConfirmationBody("order-1", 199950)
	if !strings.Contains(conf, "order-1") || !strings.Contains(conf, "1999.50") {
		t.Errorf("unexpected confirmation body: %s", conf)
	}

	canc := orderCancellationBody("order-2", "Wrong size")
	if !strings.Contains(canc, "order-2") || !strings.Contains(canc, "Wrong size") {
		t.Errorf("unexpected cancellation body: %s", canc)
	}
}
