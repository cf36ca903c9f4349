package redisx

import "time"

const (
	// Dedup event processing: dedup:{service}:{id} (id = event_id)
	KeyDedup = "dedup:%s:%s"

	// Cache ringkasan status pesanan: order_status:{pesanan_id}
	KeyOrderStatus = "order_status:%d"

	// Posisi driver aktif: tracking:order:{pesanan_id}
	KeyTracking = "tracking:order:%d"

	// Channel pub/sub posisi driver (one-way push ke subscriber).
	ChannelDriverPosition = "tracking.driver_position"

	// Channel pub/sub saat tracking berakhir (completed/cancelled).
	ChannelTrackingEnded = "tracking.ended"
)

var (
	TTLDedup       = 48 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLTracking    = 24 * time.Hour
)
