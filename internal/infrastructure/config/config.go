package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 工作狀態儲存種類
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config 應用配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	LogLevel  string          `mapstructure:"log_level"`
	LogDir    string          `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// DataConfig 菜名與範本資料來源
type DataConfig struct {
	DishesPath    string        `mapstructure:"dishes_path"`
	TemplatesPath string        `mapstructure:"templates_path"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
}

// ResolverConfig 菜名解析設定
type ResolverConfig struct {
	VariationChance float64       `mapstructure:"variation_chance"`
	TickWindow      time.Duration `mapstructure:"tick_window"`
}

// TrackerConfig 批次一致性追蹤設定
type TrackerConfig struct {
	Store              string        `mapstructure:"store"`
	JobTTL             time.Duration `mapstructure:"job_ttl"`
	MaxJobs            int           `mapstructure:"max_jobs"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
	DefaultIngredients []string      `mapstructure:"default_ingredients"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定：預設值、.env 檔案，最後是 APP_ 前綴的環境變數
func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("data.dishes_path", "DISHES_PATH")
	_ = v.BindEnv("data.templates_path", "TEMPLATES_PATH")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Tracker.DefaultIngredients = splitList(config.Tracker.DefaultIngredients)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// 環境變數給的清單是單一字串，以逗號分隔
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "dish-namer")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 資料來源
	v.SetDefault("data.dishes_path", "data/dishes.yaml")
	v.SetDefault("data.templates_path", "data/templates.yaml")
	v.SetDefault("data.watch", true)
	v.SetDefault("data.watch_debounce", "500ms")
	v.SetDefault("data.fetch_timeout", "10s")

	// 解析器
	v.SetDefault("resolver.variation_chance", 0.8)
	v.SetDefault("resolver.tick_window", "1s")

	// 追蹤器
	v.SetDefault("tracker.store", StoreMemory)
	v.SetDefault("tracker.job_ttl", "6h")
	v.SetDefault("tracker.max_jobs", 10000)
	v.SetDefault("tracker.cleanup_interval", "10m")
	v.SetDefault("tracker.default_ingredients", []string{"RawPotatoes", "RawRice"})

	// Redis
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "dishnamer:")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Resolver.VariationChance < 0 || config.Resolver.VariationChance > 1 {
		return fmt.Errorf("resolver variation chance must be within [0, 1]")
	}
	if config.Resolver.TickWindow <= 0 {
		return fmt.Errorf("invalid resolver tick window")
	}

	switch config.Tracker.Store {
	case StoreMemory:
		if config.Tracker.MaxJobs <= 0 {
			return fmt.Errorf("invalid tracker max jobs")
		}
		if config.Tracker.CleanupInterval <= 0 {
			return fmt.Errorf("invalid tracker cleanup interval")
		}
	case StoreRedis:
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for the redis tracker store")
		}
	default:
		return fmt.Errorf("unknown tracker store %q", config.Tracker.Store)
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}
	return nil
}
