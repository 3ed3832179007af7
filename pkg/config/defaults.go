package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "gatherly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxRequestSize  = 1 * 1024 * 1024 // 1MB

	DefaultDraftsEnabled          = true
	DefaultDefaultQuestionVersion = "2026-02-v1"

	DefaultEmailFromName = "Gatherly"

	DefaultKafkaTopic = "lead-events"

	DefaultGeocodeEndpoint = "https://api.bigdatacloud.net/data/reverse-geocode-client"
	DefaultGeocodeTimeout  = 5 * time.Second

	DefaultPaginationLimit = 100
)
