package orders

const (
	TopicOrderCreated       = "order.created"
	TopicOrderItemAdded     = "order.item.added"
	TopicOrderItemRemoved   = "order.item.removed"
	TopicOrderCancelled     = "order.cancelled"
	TopicOrderDeleted       = "order.deleted"
	TopicOrderStatusChanged = "order.status.changed"
)

// Topics lists every order topic, for consumers that want the full stream.
var Topics = []string{
	TopicOrderCreated,
	TopicOrderItemAdded,
	TopicOrderItemRemoved,
	TopicOrderCancelled,
	TopicOrderDeleted,
	TopicOrderStatusChanged,
}

// Partition key = order_id so all events of one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
