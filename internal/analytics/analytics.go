package analytics

import (
	"sort"
	"time"

	"github.com/ariefcatur/go-storefront.git/internal/orders"
)

type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Orders  int    `json:"orders"`
}

type TopProduct struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CancellationReason struct {
	Reason  string     `json:"reason"`
	Date    *time.Time `json:"date"`
	OrderID string     `json:"orderId"`
	Amount  int64      `json:"amount"`
}

type Summary struct {
	TotalOrders         int                  `json:"totalOrders"`
	TotalRevenue        int64                `json:"totalRevenue"`
	PendingOrders       int                  `json:"pendingOrders"`
	CancelledOrders     int                  `json:"cancelledOrders"`
	StatusCounts        map[string]int       `json:"statusCounts"`
	CancellationReasons []CancellationReason `json:"cancellationReasons"`
	RecentOrders        int                  `json:"recentOrders"`
	DailyRevenue        []DailyRevenue       `json:"dailyRevenue"`
	TopProducts         []TopProduct         `json:"topProducts"`
	CompletionRate      int                  `json:"completionRate"`
}

// Compute reduces the full order set into the dashboard summary. One pass per
// metric over an in-memory slice; fine at small-shop volumes. Day buckets use
// local midnight boundaries of now's location.
func Compute(all []orders.Order, now time.Time) Summary {
	var active, cancelled []orders.Order
	for _, o := range all {
		if o.Cancelled {
			cancelled = append(cancelled, o)
		} else {
			active = append(active, o)
		}
	}

	s := Summary{
		TotalOrders:         len(active),
		CancelledOrders:     len(cancelled),
		StatusCounts:        map[string]int{},
		CancellationReasons: []CancellationReason{},
		TopProducts:         []TopProduct{},
	}

	for _, st := range orders.DefaultStatuses {
		s.StatusCounts[string(st)] = 0
	}

	completed := 0
	for _, o := range active {
		if o.Paid {
			s.TotalRevenue += o.AmountCents
		} else {
			s.PendingOrders++
		}
		status := string(o.Status)
		if status == "" {
			status = string(orders.StatusPlaced)
		}
		s.StatusCounts[status]++
		if o.Status == orders.StatusDelivered {
			completed++
		}
	}
	if len(active) > 0 {
		s.CompletionRate = int(float64(completed)/float64(len(active))*100 + 0.5)
	}

	for _, o := range cancelled {
		if o.CancelReason != "" {
			s.CancellationReasons = append(s.CancellationReasons, CancellationReason{
				Reason:  o.CancelReason,
				Date:    o.CancelledAt,
				OrderID: o.ID,
				Amount:  o.AmountCents,
			})
		}
	}

	// recent = last 30 days, active and cancelled alike
	cutoff := now.Add(-30 * 24 * time.Hour)
	for _, o := range all {
		if o.CreatedAt.After(cutoff) {
			s.RecentOrders++
		}
	}

	// 7 daily buckets ending today, paid active orders only
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)
		bucket := DailyRevenue{Date: day.Format("2006-01-02")}
		for _, o := range active {
			if o.Paid && !o.CreatedAt.Before(day) && o.CreatedAt.Before(next) {
				bucket.Revenue += o.AmountCents
				bucket.Orders++
			}
		}
		s.DailyRevenue = append(s.DailyRevenue, bucket)
	}

	// top 5 products by quantity across all orders, cancelled included
	counts := map[string]int{}
	for _, o := range all {
		for _, it := range o.Items {
			if it.Name != "" && it.Qty > 0 {
				counts[it.Name] += it.Qty
			}
		}
	}
	type kv struct {
		name  string
		count int
	}
	ranked := make([]kv, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, kv{name, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	for _, p := range ranked {
		s.TopProducts = append(s.TopProducts, TopProduct{Name: p.name, Count: p.count})
	}

	return s
}
