package orders

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPlaced, StatusProcessing, true},
		{StatusPlaced, StatusShipped, true},
		{StatusPlaced, StatusCanceled, true},
		{StatusPlaced, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCanceled, true},
		{StatusProcessing, StatusPlaced, false},
		{StatusShipped, StatusOutForDelivery, true},
		{StatusShipped, StatusCanceled, false},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusOutForDelivery, StatusShipped, false},
		{StatusDelivered, StatusPlaced, false},
		{StatusCanceled, StatusPlaced, false},
		{Status("bogus"), StatusShipped, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestCancellable(t *testing.T) {
	for _, s := range []Status{StatusPlaced, StatusProcessing} {
		if !Cancellable(s) {
			t.Errorf("Cancellable(%q) = false, want true", s)
		}
	}
	for _, s := range []Status{StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCanceled} {
		if Cancellable(s) {
			t.Errorf("Cancellable(%q) = true, want false", s)
		}
	}
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{ProductName: "Round Neck Tee", Size: "M", Available: 2, Requested: 5}
	want := "Insufficient stock for Round Neck Tee (M). Available: 2, Requested: 5"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
