package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-level config
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

// MongoDB connection config
type MongoConfig struct {
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	URI             string        `yaml:"uri"`
	DBName          string        `yaml:"db_name"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

// Redis connection config
type RedisConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	EnableTLS      bool          `yaml:"enable_tls"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	CertContent    string        `yaml:"cert_content"`
}

// Kafka producer config
type KafkaConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Server           string `yaml:"server"`
	PaymentTopic     string `yaml:"payment_topic"`
	SecurityProtocol string `yaml:"security_protocol"`
	SASLMechanism    string `yaml:"sasl_mechanism"`
	SASLUsername     string `yaml:"sasl_username"`
	SASLPassword     string `yaml:"sasl_password"`
	ClientID         string `yaml:"client_id"`
}

type PubSubConfig struct {
	Enabled           bool   `yaml:"enabled"`
	ProjectID         string `yaml:"project_id"`
	NotificationTopic string `yaml:"notification_topic"`
}

type GCSConfig struct {
	BucketName string `yaml:"bucket_name"`
}

type SFTPConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	RemoteDir string `yaml:"remote_dir"`
	HostKey   string `yaml:"host_key"`
}

type OtelConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ServiceName  string `yaml:"service_name"`
	CollectorURL string `yaml:"collector_url"`
}

type AuthConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	PasswordHash string        `yaml:"password_hash"`
	JWTSecret    string        `yaml:"jwt_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
}

type RolloverConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Schedule       string        `yaml:"schedule"`
	WorkerCount    int           `yaml:"worker_count"`
	BufferSize     int           `yaml:"buffer_size"`
	MongoBatchSize int32         `yaml:"mongo_batch_size"`
	Timeout        time.Duration `yaml:"timeout"`
}

type PaymentConfig struct {
	MaxRetries int `yaml:"max_retries"`
}

type EventRetryConfig struct {
	RetryStartDate string        `yaml:"retry_start_date"`
	WorkerCount    int           `yaml:"worker_count"`
	BufferSize     int           `yaml:"buffer_size"`
	MaxBatchSize   int           `yaml:"max_batch_size"`
	MongoBatchSize int32         `yaml:"mongo_batch_size"`
	FlushInterval  time.Duration `yaml:"flush_interval"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LogConfig        `yaml:"logging"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	PubSub     PubSubConfig     `yaml:"pubsub"`
	GCS        GCSConfig        `yaml:"gcs"`
	SFTP       SFTPConfig       `yaml:"sftp"`
	Otel       OtelConfig       `yaml:"otel"`
	Auth       AuthConfig       `yaml:"auth"`
	Rollover   RolloverConfig   `yaml:"rollover"`
	Payment    PaymentConfig    `yaml:"payment"`
	EventRetry EventRetryConfig `yaml:"event_retry"`
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// nolint: funlen
func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {

	// server config defaults
	cfg.Server.Port = GetEnvOrDefaultAsInt("PORT", orDefault(cfg.Server.Port, 5000))
	cfg.Server.ShutdownTimeout = GetEnvOrDefaultAsDuration("SERVER_SHUTDOWN_TIMEOUT",
		orDefault(cfg.Server.ShutdownTimeout, 10*time.Second))

	// log config defaults
	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", orDefault(cfg.Logging.LogLevel, "info"))

	// MongoDB config defaults
	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGODB_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("MONGO_DB_NAME", orDefault(cfg.Mongo.DBName, "busfee"))
	cfg.Mongo.Username = GetEnvOrDefaultAsString("MONGO_USERNAME", cfg.Mongo.Username)
	cfg.Mongo.Password = GetEnvOrDefaultAsString("MONGO_PASSWORD", cfg.Mongo.Password)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", orDefault(cfg.Mongo.MaxPoolSize, uint64(20)))
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", orDefault(cfg.Mongo.MinPoolSize, uint64(5)))
	cfg.Mongo.MaxConnIdleTime = GetEnvOrDefaultAsDuration("MONGO_MAX_CONN_IDLE_TIME",
		orDefault(cfg.Mongo.MaxConnIdleTime, 30*time.Minute))
	cfg.Mongo.ConnectTimeout = GetEnvOrDefaultAsDuration("MONGO_CONNECT_TIMEOUT",
		orDefault(cfg.Mongo.ConnectTimeout, 10*time.Second))

	// Redis config defaults
	cfg.Redis.Enabled = GetEnvOrDefaultAsBool("REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EnableTLS = GetEnvOrDefaultAsBool("REDIS_ENABLE_TLS", cfg.Redis.EnableTLS)
	cfg.Redis.ConnectTimeout = GetEnvOrDefaultAsDuration("REDIS_CONNECT_TIMEOUT",
		orDefault(cfg.Redis.ConnectTimeout, 10*time.Second))
	cfg.Redis.CertContent = GetEnvOrDefaultAsString("REDIS_TLS_CERT", cfg.Redis.CertContent)

	// Kafka config defaults
	cfg.Kafka.Enabled = GetEnvOrDefaultAsBool("KAFKA_ENABLED", cfg.Kafka.Enabled)
	cfg.Kafka.Server = GetEnvOrDefaultAsString("KAFKA_SERVER", cfg.Kafka.Server)
	cfg.Kafka.PaymentTopic = GetEnvOrDefaultAsString("KAFKA_PAYMENT_TOPIC", orDefault(cfg.Kafka.PaymentTopic, "busfee-payments"))
	cfg.Kafka.SecurityProtocol = GetEnvOrDefaultAsString("KAFKA_SECURITY_PROTOCOL", cfg.Kafka.SecurityProtocol)
	cfg.Kafka.SASLMechanism = GetEnvOrDefaultAsString("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = GetEnvOrDefaultAsString("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = GetEnvOrDefaultAsString("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)
	cfg.Kafka.ClientID = GetEnvOrDefaultAsString("KAFKA_CLIENT_ID", orDefault(cfg.Kafka.ClientID, "busfee"))

	// PubSub config defaults
	cfg.PubSub.Enabled = GetEnvOrDefaultAsBool("PUBSUB_ENABLED", cfg.PubSub.Enabled)
	cfg.PubSub.ProjectID = GetEnvOrDefaultAsString("PROJECT_ID", cfg.PubSub.ProjectID)
	cfg.PubSub.NotificationTopic = GetEnvOrDefaultAsString("PUBSUB_NOTIFICATION_TOPIC",
		cfg.PubSub.NotificationTopic)

	cfg.GCS.BucketName = GetEnvOrDefaultAsString("GCS_BUCKET_NAME", cfg.GCS.BucketName)

	// SFTP config defaults
	cfg.SFTP.Enabled = GetEnvOrDefaultAsBool("SFTP_ENABLED", cfg.SFTP.Enabled)
	cfg.SFTP.Host = GetEnvOrDefaultAsString("SFTP_HOST", cfg.SFTP.Host)
	cfg.SFTP.Port = GetEnvOrDefaultAsInt("SFTP_PORT", orDefault(cfg.SFTP.Port, 22))
	cfg.SFTP.User = GetEnvOrDefaultAsString("SFTP_USER", cfg.SFTP.User)
	cfg.SFTP.Password = GetEnvOrDefaultAsString("SFTP_PASSWORD", cfg.SFTP.Password)
	cfg.SFTP.RemoteDir = GetEnvOrDefaultAsString("SFTP_REMOTE_DIR", orDefault(cfg.SFTP.RemoteDir, "/upload"))
	cfg.SFTP.HostKey = GetEnvOrDefaultAsString("SFTP_HOST_KEY", cfg.SFTP.HostKey)

	// Tracing
	cfg.Otel.Enabled = GetEnvOrDefaultAsBool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = GetEnvOrDefaultAsString("OTEL_SERVICE_NAME", orDefault(cfg.Otel.ServiceName, "busfee"))
	cfg.Otel.CollectorURL = GetEnvOrDefaultAsString("OTEL_COLLECTOR_URL", cfg.Otel.CollectorURL)

	// Auth
	cfg.Auth.Enabled = GetEnvOrDefaultAsBool("AUTH_ENABLED", cfg.Auth.Enabled)
	cfg.Auth.Username = GetEnvOrDefaultAsString("ADMIN_USERNAME", orDefault(cfg.Auth.Username, "admin"))
	cfg.Auth.Password = GetEnvOrDefaultAsString("ADMIN_PASSWORD", cfg.Auth.Password)
	cfg.Auth.PasswordHash = GetEnvOrDefaultAsString("ADMIN_PASSWORD_HASH", cfg.Auth.PasswordHash)
	cfg.Auth.JWTSecret = GetEnvOrDefaultAsString("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.SessionTTL = GetEnvOrDefaultAsDuration("SESSION_TTL", orDefault(cfg.Auth.SessionTTL, 7*24*time.Hour))

	// Rollover
	cfg.Rollover.Enabled = GetEnvOrDefaultAsBool("ROLLOVER_ENABLED", cfg.Rollover.Enabled)
	cfg.Rollover.Schedule = GetEnvOrDefaultAsString("ROLLOVER_SCHEDULE", orDefault(cfg.Rollover.Schedule, "0 0 1 * *"))
	cfg.Rollover.WorkerCount = GetEnvOrDefaultAsInt("ROLLOVER_WORKER_COUNT", orDefault(cfg.Rollover.WorkerCount, 4))
	cfg.Rollover.BufferSize = GetEnvOrDefaultAsInt("ROLLOVER_BUFFER_SIZE", orDefault(cfg.Rollover.BufferSize, 100))
	cfg.Rollover.MongoBatchSize = GetEnvOrDefaultAsInt32("ROLLOVER_MONGO_BATCH_SIZE",
		orDefault(cfg.Rollover.MongoBatchSize, int32(200)))
	cfg.Rollover.Timeout = GetEnvOrDefaultAsDuration("ROLLOVER_TIMEOUT", orDefault(cfg.Rollover.Timeout, 10*time.Minute))

	cfg.Payment.MaxRetries = GetEnvOrDefaultAsInt("PAYMENT_MAX_RETRIES", orDefault(cfg.Payment.MaxRetries, 3))

	// Payment event retry
	cfg.EventRetry.RetryStartDate = GetEnvOrDefaultAsString("RETRY_START_DATE",
		orDefault(cfg.EventRetry.RetryStartDate, "24h"))
	cfg.EventRetry.WorkerCount = GetEnvOrDefaultAsInt("WORKER_COUNT", orDefault(cfg.EventRetry.WorkerCount, 4))
	cfg.EventRetry.BufferSize = GetEnvOrDefaultAsInt("BUFFER_SIZE", orDefault(cfg.EventRetry.BufferSize, 100))
	cfg.EventRetry.MaxBatchSize = GetEnvOrDefaultAsInt("MAX_BATCH_SIZE", orDefault(cfg.EventRetry.MaxBatchSize, 50))
	cfg.EventRetry.MongoBatchSize = GetEnvOrDefaultAsInt32("MONGO_BATCH_SIZE",
		orDefault(cfg.EventRetry.MongoBatchSize, int32(200)))
	cfg.EventRetry.FlushInterval = GetEnvOrDefaultAsDuration("FLUSH_INTERVAL",
		orDefault(cfg.EventRetry.FlushInterval, 500*time.Millisecond))
	return cfg
}

// LoadFromConfigFilePath loads and parses config file into AppConfig
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {

	// #nosec G304: path comes from the operator, not from requests
	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", err, slog.String("path", configPath))
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("Failed to unmarshal config", err)
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		logger.Error("Config validation failed", err)
		return nil, err
	}

	logger.Info(log_messages.ConfigLoadedSuccessfully, slog.String("path", configPath))

	return defaultCfg, nil
}

func validateConfig(cfg *AppConfig) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if err := validateMongoConfig(cfg.Mongo); err != nil {
		return err
	}
	if cfg.Kafka.Enabled && (cfg.Kafka.Server == "" || cfg.Kafka.PaymentTopic == "") {
		return errors.New("kafka.server and kafka.payment_topic are required when kafka is enabled")
	}
	if cfg.PubSub.Enabled && (cfg.PubSub.ProjectID == "" || cfg.PubSub.NotificationTopic == "") {
		return errors.New("pubsub.project_id and pubsub.notification_topic are required when pubsub is enabled")
	}
	if cfg.SFTP.Enabled && (cfg.SFTP.Host == "" || cfg.SFTP.User == "") {
		return errors.New("sftp.host and sftp.user are required when sftp is enabled")
	}
	if cfg.Auth.Enabled {
		if cfg.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required when auth is enabled")
		}
		if cfg.Auth.Password == "" && cfg.Auth.PasswordHash == "" {
			return errors.New("auth.password or auth.password_hash is required when auth is enabled")
		}
	}
	if err := validateRolloverConfig(cfg.Rollover); err != nil {
		return err
	}
	if cfg.Payment.MaxRetries < 1 || cfg.Payment.MaxRetries > 10 {
		return fmt.Errorf("payment.max_retries must be between 1 and 10, got %d", cfg.Payment.MaxRetries)
	}
	if cfg.EventRetry.WorkerCount < 1 || cfg.EventRetry.WorkerCount > 64 {
		return fmt.Errorf("event_retry.worker_count must be between 1 and 64, got %d", cfg.EventRetry.WorkerCount)
	}
	return nil
}

func validateMongoConfig(mongo MongoConfig) error {
	if mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}
	if mongo.MinPoolSize < 1 || mongo.MinPoolSize > 10 {
		return fmt.Errorf(
			"mongo.min_pool_size must be between 1 and 10, got %d",
			mongo.MinPoolSize,
		)
	}

	if mongo.MaxPoolSize < 10 || mongo.MaxPoolSize > 100 {
		return fmt.Errorf(
			"mongo.max_pool_size must be between 10 and 100, got %d",
			mongo.MaxPoolSize,
		)
	}

	minIdle := 5 * time.Minute
	maxIdle := 60 * time.Minute
	if mongo.MaxConnIdleTime < minIdle || mongo.MaxConnIdleTime > maxIdle {
		return fmt.Errorf(
			"mongo.max_conn_idle_time must be between %v and %v, got %v",
			minIdle,
			maxIdle,
			mongo.MaxConnIdleTime,
		)
	}

	return nil
}

func validateRolloverConfig(r RolloverConfig) error {
	if r.WorkerCount < 1 || r.WorkerCount > 64 {
		return fmt.Errorf("rollover.worker_count must be between 1 and 64, got %d", r.WorkerCount)
	}
	if r.BufferSize < 1 {
		return fmt.Errorf("rollover.buffer_size must be positive, got %d", r.BufferSize)
	}
	if r.Timeout < time.Minute {
		return fmt.Errorf("rollover.timeout must be at least 1m, got %v", r.Timeout)
	}
	return nil
}

// GetEnvOrDefaultAsInt returns the value of the given env variable
// as an int or the default value if not set or invalid.
func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

// GetEnvOrDefaultAsString returns the value of the given env variable or the default value if not set.
func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		if val != "" {
			return val
		}
	}
	return defaultVal
}

func GetEnvOrDefaultAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvOrDefaultAsDuration parses values like "30s" or "10m".
func GetEnvOrDefaultAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsInt32(key string, defaultValue int32) int32 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 32)
	if err != nil {
		return defaultValue
	}
	return int32(value)
}

// LoadFromConfig loads an optional .env file and then the config file named by CONFIG_PATH.
func LoadFromConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug(log_messages.EnvFileNotLoaded)
	}

	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")

	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	return cfg, nil
}
