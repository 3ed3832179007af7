package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvMaxRequestSize  = "MAX_REQUEST_SIZE"

	EnvDraftsEnabled          = "DRAFTS_ENABLED"
	EnvDefaultQuestionVersion = "DEFAULT_QUESTION_VERSION"

	EnvAdminPassword = "ADMIN_PASSWORD"

	EnvSendGridAPIKey = "SENDGRID_API_KEY"
	EnvEmailFrom      = "EMAIL_FROM"
	EnvEmailFromName  = "EMAIL_FROM_NAME"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvGeocodeEndpoint = "GEOCODE_ENDPOINT"
	EnvGeocodeTimeout  = "GEOCODE_TIMEOUT"
)
