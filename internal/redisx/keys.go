package redisx

import "time"

const (
	// Cached report payloads: report:{name}
	KeyReport = "report:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLReportCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
