package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	strutil "lifeline/pkg/platform/strings"
)

// Config is the full runtime configuration, grouped by concern.
type Config struct {
	Server   Server
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Engine   EngineConfig
	LogLevel string
}

// Server captures ops HTTP server configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// PostgresConfig selects PostgreSQL-backed stores when DSN is set.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MigrateOnStart bool
}

// RedisConfig enables the distributed fulfillment lock when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LockTTL      time.Duration
}

// KafkaConfig enables the Kafka notification sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	Partitions        int32
	ReplicationFactor int16
}

// EngineConfig holds domain tunables.
type EngineConfig struct {
	// AverageSpeedKMH is the assumed donor travel speed used for ETAs.
	AverageSpeedKMH float64
	// AsyncBadges moves badge checks onto the reputation worker.
	AsyncBadges       bool
	BadgeQueueSize    int
	AuditBufferSize   int
	LockTimeout       time.Duration
	SeedDefaultBadges bool
}

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr:            getString("LIFELINE_ADDR", ":8080"),
			ShutdownTimeout: getDuration("LIFELINE_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("DATABASE_URL"),
			MaxConns:       int32(getInt("DATABASE_MAX_CONNS", 10)),
			MigrateOnStart: getBool("DATABASE_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			LockTTL:      getDuration("REDIS_LOCK_TTL", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			NotificationTopic: getString("KAFKA_NOTIFICATION_TOPIC", "lifeline.notifications"),
			Partitions:        int32(getInt("KAFKA_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(getInt("KAFKA_TOPIC_REPLICATION", 1)),
		},
		Engine: EngineConfig{
			AverageSpeedKMH:   getFloat("ENGINE_AVERAGE_SPEED_KMH", 30),
			AsyncBadges:       getBool("ENGINE_ASYNC_BADGES", false),
			BadgeQueueSize:    getInt("ENGINE_BADGE_QUEUE_SIZE", 256),
			AuditBufferSize:   getInt("ENGINE_AUDIT_BUFFER", 1024),
			LockTimeout:       getDuration("ENGINE_LOCK_TIMEOUT", 5*time.Second),
			SeedDefaultBadges: getBool("ENGINE_SEED_BADGES", true),
		},
		LogLevel: getString("LOG_LEVEL", "INFO"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strutil.DedupeAndTrim(strings.Split(s, ","))
}
