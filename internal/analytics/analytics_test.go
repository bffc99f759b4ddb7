package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront.git/internal/orders"
)

func mkOrder(id string, amount int64, status orders.Status, paid bool, created time.Time, items ...orders.Item) orders.Order {
	return orders.Order{
		ID:          id,
		AmountCents: amount,
		Status:      status,
		Paid:        paid,
		CreatedAt:   created,
		Items:       items,
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, time.Now())

	assert.Equal(t, 0, s.TotalOrders)
	assert.Equal(t, int64(0), s.TotalRevenue)
	assert.Equal(t, 0, s.CompletionRate)
	assert.NotNil(t, s.CancellationReasons)
	assert.NotNil(t, s.TopProducts)
	require.Len(t, s.DailyRevenue, 7)
	for _, st := range orders.DefaultStatuses {
		assert.Contains(t, s.StatusCounts, string(st))
	}
}

func TestComputeTotalsAndStatusCounts(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cancelledAt := now.Add(-time.Hour)
	all := []orders.Order{
		mkOrder("a", 5000, orders.StatusDelivered, true, now.Add(-2*time.Hour)),
		mkOrder("b", 3000, orders.StatusPlaced, false, now.Add(-3*time.Hour)),
		mkOrder("c", 2000, orders.StatusProcessing, true, now.Add(-40*24*time.Hour)),
		{
			ID:           "d",
			AmountCents:  7000,
			Status:       orders.StatusCanceled,
			Cancelled:    true,
			CancelReason: "Changed my mind",
			CancelledAt:  &cancelledAt,
			CreatedAt:    now.Add(-time.Hour),
		},
	}

	s := Compute(all, now)

	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 1, s.CancelledOrders)
	assert.Equal(t, int64(7000), s.TotalRevenue) // paid, non-cancelled only
	assert.Equal(t, 1, s.PendingOrders)
	assert.Equal(t, 1, s.StatusCounts[string(orders.StatusDelivered)])
	assert.Equal(t, 1, s.StatusCounts[string(orders.StatusPlaced)])
	assert.Equal(t, 0, s.StatusCounts[string(orders.StatusShipped)])
	assert.Equal(t, 3, s.RecentOrders) // "c" is older than 30 days
	assert.Equal(t, 33, s.CompletionRate)

	require.Len(t, s.CancellationReasons, 1)
	assert.Equal(t, "Changed my mind", s.CancellationReasons[0].Reason)
	assert.Equal(t, "d", s.CancellationReasons[0].OrderID)
	assert.Equal(t, int64(7000), s.CancellationReasons[0].Amount)
}

func TestComputeDailyRevenueBuckets(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

	all := []orders.Order{
		mkOrder("today", 1000, orders.StatusDelivered, true, now.Add(-time.Hour)),
		mkOrder("yesterday", 2000, orders.StatusDelivered, true, now.AddDate(0, 0, -1)),
		mkOrder("unpaid", 9000, orders.StatusPlaced, false, now.Add(-time.Hour)),
		mkOrder("last-week", 5000, orders.StatusDelivered, true, now.AddDate(0, 0, -10)),
	}

	s := Compute(all, now)
	require.Len(t, s.DailyRevenue, 7)

	assert.Equal(t, "2026-03-09", s.DailyRevenue[0].Date)
	assert.Equal(t, "2026-03-15", s.DailyRevenue[6].Date)
	assert.Equal(t, int64(1000), s.DailyRevenue[6].Revenue)
	assert.Equal(t, 1, s.DailyRevenue[6].Orders)
	assert.Equal(t, int64(2000), s.DailyRevenue[5].Revenue)
	assert.Equal(t, int64(0), s.DailyRevenue[0].Revenue)
}

func TestComputeTopProducts(t *testing.T) {
	now := time.Now()
	item := func(name string, qty int) orders.Item {
		return orders.Item{ProductID: name, Name: name, Qty: qty, PriceCents: 100}
	}

	all := []orders.Order{
		mkOrder("a", 100, orders.StatusDelivered, true, now, item("tee", 3), item("hoodie", 1)),
		mkOrder("b", 100, orders.StatusPlaced, false, now, item("tee", 2), item("cap", 2)),
		{
			ID: "c", Cancelled: true, Status: orders.StatusCanceled, CreatedAt: now,
			Items: []orders.Item{item("hoodie", 4)},
		},
		mkOrder("d", 100, orders.StatusPlaced, false, now,
			item("scarf", 1), item("belt", 1), item("socks", 1)),
	}

	s := Compute(all, now)

	// cancelled orders still count toward product popularity
	require.True(t, len(s.TopProducts) <= 5)
	assert.Equal(t, TopProduct{Name: "hoodie", Count: 5}, s.TopProducts[0])
	assert.Equal(t, TopProduct{Name: "tee", Count: 5}, s.TopProducts[1])
	assert.Equal(t, TopProduct{Name: "cap", Count: 2}, s.TopProducts[2])
}

func TestComputeCompletionRateRounds(t *testing.T) {
	now := time.Now()
	all := []orders.Order{
		mkOrder("a", 100, orders.StatusDelivered, true, now),
		mkOrder("b", 100, orders.StatusDelivered, true, now),
		mkOrder("c", 100, orders.StatusPlaced, false, now),
	}
	s := Compute(all, now)
	assert.Equal(t, 67, s.CompletionRate)
}
