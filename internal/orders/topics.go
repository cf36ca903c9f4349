package orders

import "strconv"

const (
	TopicReceiptRequested = "bookport.receipt.requested"
	TopicOrderStatus      = "bookport.order.status"
)

// Partition key = pesanan_id, supaya semua event 1 pesanan maintain urutan.
func PartitionKey(pesananID int64) []byte {
	return []byte(strconv.FormatInt(pesananID, 10))
}
