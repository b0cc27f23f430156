package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"etsy_source/internal/store"
)

// Config 进程配置，全部来自环境变量 (.env 可选)
type Config struct {
	// Etsy
	ShopID    string
	Token     string
	TypeName  string
	LQIP      bool
	ProxyURL  string
	HTTPDebug bool

	// 存储
	StoreDriver string // memory | db | s3 | kafka
	DBDriver    string // postgres | sqlite
	DatabaseURL string
	S3          store.S3Config
	Kafka       store.KafkaConfig

	// 运行
	RunMode      string // once | server
	ServerPort   string
	SyncCron     string // 为空时不定时同步
	SyncCooldown time.Duration
	LQIPCacheTTL time.Duration

	// 日志
	Env       string
	LogLevel  string
	LogFormat string
}

// Load 读取 .env (不存在时忽略) 和环境变量
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	return &Config{
		ShopID:    getEnv("ETSY_SHOP_ID", ""),
		Token:     getEnv("ETSY_TOKEN", ""),
		TypeName:  getEnv("ETSY_TYPE_NAME", "Etsy"),
		LQIP:      getEnvAsBool("ETSY_LQIP", false),
		ProxyURL:  getEnv("ETSY_PROXY_URL", ""),
		HTTPDebug: getEnvAsBool("HTTP_DEBUG", false),

		StoreDriver: getEnv("STORE_DRIVER", "db"),
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		S3: store.S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			BasePath:  getEnv("S3_BASE_PATH", "etsy"),
		},
		Kafka: store.KafkaConfig{
			Brokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getEnv("KAFKA_TOPIC", "etsy-products"),
		},

		RunMode:      getEnv("RUN_MODE", "once"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		SyncCron:     getEnv("SYNC_CRON", ""),
		SyncCooldown: getEnvAsDuration("SYNC_COOLDOWN", 5*time.Minute),
		LQIPCacheTTL: getEnvAsDuration("LQIP_CACHE_TTL", 0),

		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsDuration 支持 "90s" 这类写法，也支持纯数字 (秒)
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
