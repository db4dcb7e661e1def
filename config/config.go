package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config содержит все настройки storefront сервиса.
type Config struct {
	AppName  string `validate:"required"`
	Version  string
	LogLevel string `validate:"oneof=debug info warn error fatal panic"`
	ENV      string

	Server struct {
		Host            string
		Port            int `validate:"min=1,max=65535"`
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		BodyLimit       int // request body limit in MB
	}

	Postgres struct {
		Host     string `validate:"required"`
		Port     int    `validate:"min=1,max=65535"`
		User     string `validate:"required"`
		Password string
		DBName   string `validate:"required"`
		SSLMode  string
		Timeout  time.Duration
		PoolSize int `validate:"min=0"`
	}

	Redis struct {
		Enabled           bool
		Host              string
		Port              int
		Password          string
		DB                int
		PoolSize          int
		MinIdleConns      int
		ConnectTimeout    time.Duration
		ReadTimeout       time.Duration
		WriteTimeout      time.Duration
		PoolTimeout       time.Duration
		IdleTimeout       time.Duration
		IdleCheckFreq     time.Duration
		MaxRetries        int
		MinRetryBackoff   time.Duration
		MaxRetryBackoff   time.Duration
		DefaultExpiration time.Duration
	}

	Kafka struct {
		Enabled           bool          `mapstructure:"enabled"`
		Brokers           []string      `mapstructure:"brokers"`
		GroupID           string        `mapstructure:"group_id"`
		CatalogTopic      string        `mapstructure:"catalog_topic"`
		DeadLetterTopic   string        `mapstructure:"dead_letter_topic"`
		AutoOffsetReset   string        `mapstructure:"auto_offset_reset"`
		SessionTimeout    time.Duration `mapstructure:"session_timeout"`
		HeartbeatTimeout  time.Duration `mapstructure:"heartbeat_timeout"`
		PollTimeout       time.Duration `mapstructure:"poll_timeout"`
		WriteTimeout      time.Duration `mapstructure:"write_timeout"`
		MaxRetries        int           `mapstructure:"max_retries"`
		LingerMs          int           `mapstructure:"linger_ms"`
		EnableIdempotence bool          `mapstructure:"enable_idempotence"`
		CompressionType   string        `mapstructure:"compression_type"`
	}

	Metrics struct {
		Enabled     bool
		ServiceName string
		Endpoint    string
		Port        int `mapstructure:"port"`
	}

	Security struct {
		JWTSecret        string
		JWTExpirationMin time.Duration
		CORSAllowOrigins []string
		AdminRole        string
		Keycloak         KeycloakConfig
	}

	Shop struct {
		ID                                    int    `validate:"min=1"`
		Host                                  string `validate:"required"`
		Path                                  string
		Secure                                bool
		BaseFile                              string `validate:"required"`
		Currency                              string `validate:"len=3"`
		RootCategoryID                        int    `validate:"min=1"`
		DefaultCustomerGroup                  string `validate:"required"`
		FallbackCustomerGroup                 string `validate:"required"`
		MaxPurchase                           int    `validate:"min=1"`
		CalculateCheapestPriceWithMinPurchase bool
		MarkAsNewDays                         int `validate:"min=0"`
		TopSellerSales                        int `validate:"min=0"`
	}

	Media struct {
		Adapter string `validate:"oneof=local memory"`
		Root    string
		BaseURL string `validate:"required"`
	}

	Cache struct {
		ListProductTTL time.Duration
		ContextTTL     time.Duration
		LocalTTL       time.Duration // bounds staleness of the per-process tier
		LocalSize      int           `validate:"min=1"`
	}
}

// Load читает конфигурацию из файла и переменных окружения и валидирует ее.
func Load(configPath string) (*Config, error) {
	configFile := "config"
	if configPath != "" {
		configFile = configPath
	}

	var cfg Config

	viper.SetConfigName(configFile)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("../config")
	viper.AddConfigPath("../../config")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// файла нет: только значения по умолчанию и окружение
	}

	setDefaults()

	bindEnvVariables()

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ENV = viper.GetString("env")
	if cfg.ENV == "" {
		cfg.ENV = "development"
		if envVar := os.Getenv("APP_ENV"); envVar != "" {
			cfg.ENV = envVar
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет теги структуры загруженной конфигурации.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Security.Keycloak.Enabled && (c.Security.Keycloak.ServerURL == "" || c.Security.Keycloak.Realm == "") {
		return fmt.Errorf("invalid config: keycloak enabled without server url or realm")
	}
	return nil
}

// IsProduction сообщает, используются ли production настройки.
func (c *Config) IsProduction() bool {
	return c.ENV == "production"
}

func setDefaults() {
	viper.SetDefault("appName", "storefront-service")
	viper.SetDefault("version", "1.0.0")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("env", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", "10s")
	viper.SetDefault("server.writeTimeout", "10s")
	viper.SetDefault("server.shutdownTimeout", "5s")
	viper.SetDefault("server.bodyLimit", 10)

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.dbname", "storefront")
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.timeout", "5s")
	viper.SetDefault("postgres.poolSize", 10)

	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.poolSize", 10)
	viper.SetDefault("redis.minIdleConns", 2)
	viper.SetDefault("redis.connectTimeout", "1s")
	viper.SetDefault("redis.readTimeout", "1s")
	viper.SetDefault("redis.writeTimeout", "1s")
	viper.SetDefault("redis.poolTimeout", "4s")
	viper.SetDefault("redis.idleTimeout", "300s")
	viper.SetDefault("redis.idleCheckFreq", "60s")
	viper.SetDefault("redis.maxRetries", 3)
	viper.SetDefault("redis.minRetryBackoff", "8ms")
	viper.SetDefault("redis.maxRetryBackoff", "512ms")
	viper.SetDefault("redis.defaultExpiration", "10m")

	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.group_id", "storefront-service")
	viper.SetDefault("kafka.catalog_topic", "storefront.catalog")
	viper.SetDefault("kafka.dead_letter_topic", "storefront.catalog.dlq")
	viper.SetDefault("kafka.auto_offset_reset", "latest")
	viper.SetDefault("kafka.session_timeout", "10s")
	viper.SetDefault("kafka.heartbeat_timeout", "3s")
	viper.SetDefault("kafka.poll_timeout", "100ms")
	viper.SetDefault("kafka.write_timeout", "10s")
	viper.SetDefault("kafka.max_retries", 3)
	viper.SetDefault("kafka.linger_ms", 5)
	viper.SetDefault("kafka.enable_idempotence", true)
	viper.SetDefault("kafka.compression_type", "snappy")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.serviceName", "storefront-service")
	viper.SetDefault("metrics.endpoint", "/metrics")

	viper.SetDefault("security.jwtSecret", "your-secret-key")
	viper.SetDefault("security.jwtExpirationMin", "60m")
	viper.SetDefault("security.corsAllowOrigins", []string{"*"})
	viper.SetDefault("security.adminRole", "shop_admin")
	viper.SetDefault("security.keycloak.enabled", false)

	viper.SetDefault("shop.id", 1)
	viper.SetDefault("shop.host", "localhost")
	viper.SetDefault("shop.path", "")
	viper.SetDefault("shop.secure", false)
	viper.SetDefault("shop.baseFile", "shopware.php")
	viper.SetDefault("shop.currency", "EUR")
	viper.SetDefault("shop.rootCategoryID", 1)
	viper.SetDefault("shop.defaultCustomerGroup", "EK")
	viper.SetDefault("shop.fallbackCustomerGroup", "EK")
	viper.SetDefault("shop.maxPurchase", 100)
	viper.SetDefault("shop.markAsNewDays", 30)
	viper.SetDefault("shop.topSellerSales", 100)
	viper.SetDefault("shop.calculateCheapestPriceWithMinPurchase", false)

	viper.SetDefault("media.adapter", "local")
	viper.SetDefault("media.root", "./var/media")
	viper.SetDefault("media.baseURL", "http://localhost:8080/")

	viper.SetDefault("cache.listProductTTL", "1h")
	viper.SetDefault("cache.contextTTL", "5m")
	viper.SetDefault("cache.localTTL", "30s")
	viper.SetDefault("cache.localSize", 1024)
}

func bindEnvVariables() {
	viper.BindEnv("appName", "APP_NAME")
	viper.BindEnv("version", "APP_VERSION")
	viper.BindEnv("logLevel", "LOG_LEVEL")
	viper.BindEnv("env", "APP_ENV")

	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.readTimeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.writeTimeout", "SERVER_WRITE_TIMEOUT")
	viper.BindEnv("server.shutdownTimeout", "SERVER_SHUTDOWN_TIMEOUT")
	viper.BindEnv("server.bodyLimit", "SERVER_BODY_LIMIT")

	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.dbname", "POSTGRES_DBNAME")
	viper.BindEnv("postgres.sslmode", "POSTGRES_SSLMODE")
	viper.BindEnv("postgres.timeout", "POSTGRES_TIMEOUT")
	viper.BindEnv("postgres.poolSize", "POSTGRES_POOL_SIZE")

	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")
	viper.BindEnv("redis.poolSize", "REDIS_POOL_SIZE")
	viper.BindEnv("redis.minIdleConns", "REDIS_MIN_IDLE_CONNS")
	viper.BindEnv("redis.connectTimeout", "REDIS_CONNECT_TIMEOUT")
	viper.BindEnv("redis.readTimeout", "REDIS_READ_TIMEOUT")
	viper.BindEnv("redis.writeTimeout", "REDIS_WRITE_TIMEOUT")
	viper.BindEnv("redis.poolTimeout", "REDIS_POOL_TIMEOUT")
	viper.BindEnv("redis.idleTimeout", "REDIS_IDLE_TIMEOUT")
	viper.BindEnv("redis.idleCheckFreq", "REDIS_IDLE_CHECK_FREQ")
	viper.BindEnv("redis.maxRetries", "REDIS_MAX_RETRIES")
	viper.BindEnv("redis.minRetryBackoff", "REDIS_MIN_RETRY_BACKOFF")
	viper.BindEnv("redis.maxRetryBackoff", "REDIS_MAX_RETRY_BACKOFF")
	viper.BindEnv("redis.defaultExpiration", "REDIS_DEFAULT_EXPIRATION")

	viper.BindEnv("kafka.enabled", "KAFKA_ENABLED")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	viper.BindEnv("kafka.catalog_topic", "KAFKA_CATALOG_TOPIC")
	viper.BindEnv("kafka.dead_letter_topic", "KAFKA_DEAD_LETTER_TOPIC")
	viper.BindEnv("kafka.auto_offset_reset", "KAFKA_AUTO_OFFSET_RESET")
	viper.BindEnv("kafka.session_timeout", "KAFKA_SESSION_TIMEOUT")
	viper.BindEnv("kafka.heartbeat_timeout", "KAFKA_HEARTBEAT_TIMEOUT")
	viper.BindEnv("kafka.poll_timeout", "KAFKA_POLL_TIMEOUT")
	viper.BindEnv("kafka.write_timeout", "KAFKA_WRITE_TIMEOUT")

	viper.BindEnv("metrics.enabled", "METRICS_ENABLED")
	viper.BindEnv("metrics.serviceName", "METRICS_SERVICE_NAME")
	viper.BindEnv("metrics.endpoint", "METRICS_ENDPOINT")

	viper.BindEnv("security.jwtSecret", "JWT_SECRET")
	viper.BindEnv("security.jwtExpirationMin", "JWT_EXPIRATION_MIN")
	viper.BindEnv("security.corsAllowOrigins", "CORS_ALLOW_ORIGINS")
	viper.BindEnv("security.adminRole", "ADMIN_ROLE")
	viper.BindEnv("security.keycloak.enabled", "KEYCLOAK_ENABLED")
	viper.BindEnv("security.keycloak.server_url", "KEYCLOAK_SERVER_URL")
	viper.BindEnv("security.keycloak.realm", "KEYCLOAK_REALM")
	viper.BindEnv("security.keycloak.client_id", "KEYCLOAK_CLIENT_ID")
	viper.BindEnv("security.keycloak.client_secret", "KEYCLOAK_CLIENT_SECRET")

	viper.BindEnv("shop.id", "SHOP_ID")
	viper.BindEnv("shop.host", "SHOP_HOST")
	viper.BindEnv("shop.baseFile", "SHOP_BASE_FILE")
	viper.BindEnv("shop.currency", "SHOP_CURRENCY")
	viper.BindEnv("shop.rootCategoryID", "SHOP_ROOT_CATEGORY_ID")
	viper.BindEnv("shop.defaultCustomerGroup", "SHOP_DEFAULT_CUSTOMER_GROUP")
	viper.BindEnv("shop.fallbackCustomerGroup", "SHOP_FALLBACK_CUSTOMER_GROUP")
	viper.BindEnv("shop.maxPurchase", "SHOP_MAX_PURCHASE")
	viper.BindEnv("shop.calculateCheapestPriceWithMinPurchase", "SHOP_CHEAPEST_PRICE_WITH_MIN_PURCHASE")

	viper.BindEnv("media.adapter", "MEDIA_ADAPTER")
	viper.BindEnv("media.root", "MEDIA_ROOT")
	viper.BindEnv("media.baseURL", "MEDIA_BASE_URL")

	viper.BindEnv("cache.listProductTTL", "CACHE_LIST_PRODUCT_TTL")
	viper.BindEnv("cache.contextTTL", "CACHE_CONTEXT_TTL")
	viper.BindEnv("cache.localTTL", "CACHE_LOCAL_TTL")
	viper.BindEnv("cache.localSize", "CACHE_LOCAL_SIZE")
}
