package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiryDays     int

	// SweepInterval is how often the publish sweep promotes due pending
	// notifications. Policy lives in the sweeper; only the period is
	// configurable.
	SweepInterval time.Duration

	// StreamMaxLifetime force-closes a live stream after this duration even
	// without errors. StreamBufferSize is the per-stream send buffer; a full
	// buffer drops the subscriber rather than blocking dispatch.
	StreamMaxLifetime time.Duration
	StreamBufferSize  int

	// SNSTopicARN, when set, enables best-effort offline push of dispatched
	// notifications to an SNS topic.
	SNSTopicARN string
	SNSRegion   string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Notifications string
	ReadMarks     string
	HiddenMarks   string
	Users         string
	Products      string
	Wishlists     string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			ReadMarks:     getEnv("DYNAMO_TABLE_READ_MARKS", "read_marks"),
			HiddenMarks:   getEnv("DYNAMO_TABLE_HIDDEN_MARKS", "hidden_marks"),
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Products:      getEnv("DYNAMO_TABLE_PRODUCTS", "products"),
			Wishlists:     getEnv("DYNAMO_TABLE_WISHLISTS", "wishlists"),
		},

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiryDays:     getEnvInt("JWT_EXPIRY_DAYS", 7),

		SweepInterval:     time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
		StreamMaxLifetime: time.Duration(getEnvInt("STREAM_MAX_LIFETIME_SECONDS", 3600)) * time.Second,
		StreamBufferSize:  getEnvInt("STREAM_BUFFER_SIZE", 16),

		SNSTopicARN: getEnv("SNS_TOPIC_ARN", ""),
		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
