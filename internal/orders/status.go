package orders

type Status string

const (
	StatusPlaced         Status = "Order Placed"
	StatusProcessing     Status = "Processing"
	StatusShipped        Status = "Shipped"
	StatusOutForDelivery Status = "Out for delivery"
	StatusDelivered      Status = "Delivered"
	StatusCanceled       Status = "Canceled"
)

var validNext = map[Status]map[Status]bool{
	StatusPlaced:         {StatusProcessing: true, StatusShipped: true, StatusCanceled: true},
	StatusProcessing:     {StatusShipped: true, StatusCanceled: true},
	StatusShipped:        {StatusOutForDelivery: true},
	StatusOutForDelivery: {StatusDelivered: true},
	StatusDelivered:      {},
	StatusCanceled:       {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Cancellable reports whether a shopper may still cancel an order in this
// state. Anything at or past Shipped is locked in.
func Cancellable(s Status) bool {
	switch s {
	case StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCanceled:
		return false
	}
	return true
}

// DefaultStatuses are the buckets the admin dashboard always shows, even at
// zero count.
var DefaultStatuses = []Status{
	StatusPlaced, StatusProcessing, StatusShipped, StatusOutForDelivery, StatusDelivered,
}
