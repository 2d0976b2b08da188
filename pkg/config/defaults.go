package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "visitdesk"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultStartOfDay         = "08:00"
	DefaultEndOfDay           = "18:00"
	DefaultSlotGranularityMin = 30
	DefaultLockTTL            = 10 * time.Second

	DefaultPaginationLimit = 100
)

var DefaultWorkingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
