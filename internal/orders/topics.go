package orders

const (
	TopicOrderCreated       = "order.created"
	TopicOrderCanceled      = "order.canceled"
	TopicOrderStatusUpdated = "order.status.updated"
	TopicPaymentAuthorized  = "order.payment.authorized"
	TopicPaymentFailed      = "order.payment.failed"
)

// Partition key = order id, so every event for one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
