package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the verification service reads from the
// environment. FromEnv applies defaults so main stays lean; unset optional
// collaborators (Redis, Kafka) degrade rather than fail startup.
type Config struct {
	Addr string

	DatabaseURL string
	RedisURL    string

	KafkaBrokers     []string
	UploadTopic      string
	AlertTopic       string
	ConsumerGroup    string
	AlertSubject     string
	AlertDedupTTL    time.Duration
	ConsumerDisabled bool

	ImageBucket string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	JWTSigningKey string

	SimilarityThreshold float64
	PresignTTL          time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:                envOr("MEDICONNECT_ADDR", ":8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		UploadTopic:         envOr("KAFKA_UPLOAD_TOPIC", "mediconnect.storage.uploads"),
		AlertTopic:          envOr("KAFKA_ALERT_TOPIC", "mediconnect.review.alerts"),
		ConsumerGroup:       envOr("KAFKA_CONSUMER_GROUP", "verification-pipeline"),
		AlertSubject:        "New Doctor Credential Review",
		AlertDedupTTL:       durationOr("ALERT_DEDUP_TTL", 24*time.Hour),
		ImageBucket:         envOr("IMAGE_BUCKET", "mediconnect-identity-verification"),
		S3Region:            envOr("S3_REGION", "us-east-1"),
		S3Endpoint:          os.Getenv("S3_ENDPOINT"),
		S3AccessKey:         os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:         os.Getenv("S3_SECRET_KEY"),
		JWTSigningKey:       os.Getenv("JWT_SIGNING_KEY"),
		SimilarityThreshold: floatOr("SIMILARITY_THRESHOLD", 80.0),
		PresignTTL:          durationOr("PRESIGN_TTL", time.Hour),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.ConsumerDisabled = os.Getenv("KAFKA_CONSUMER_DISABLED") == "true"

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func floatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
