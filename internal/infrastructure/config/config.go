package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultCollectionFile 預設的食譜集合檔名
const DefaultCollectionFile = "recipes.json"

// Config 應用配置
type Config struct {
	App          AppConfig           `mapstructure:"app"`
	Collection   CollectionConfig    `mapstructure:"collection"`
	Log          LogConfig           `mapstructure:"log"`
	Replacements []ReplacementConfig `mapstructure:"replacements"`
	Server       ServerConfig        `mapstructure:"server"`
	Cache        CacheConfig         `mapstructure:"cache"`
	RateLimit    RateLimitConfig     `mapstructure:"rate_limit"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// CollectionConfig 食譜集合檔案設定
type CollectionConfig struct {
	Path        string `mapstructure:"path"`
	AtomicWrite bool   `mapstructure:"atomic_write"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ReplacementConfig 替換規則
type ReplacementConfig struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// 快取後端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// LoadConfig 載入設定。沒有任何設定檔或環境變數時使用預設值
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(viper.New(), configDirs()...)
}

// Load 使用指定的 viper 實例載入設定，dirs 為設定檔搜尋路徑
func Load(v *viper.Viper, dirs ...string) (*Config, error) {
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("collection.path", "RECIPES_PATH")
	v.BindEnv("cache.redis_addr", "REDIS_ADDR")

	// 設定檔為選用
	v.SetConfigName("normalizer")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Collection.Path == "" {
		config.Collection.Path = DefaultCollectionPath()
	}
	config.Cache.Backend = strings.ToLower(strings.TrimSpace(config.Cache.Backend))

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// DefaultCollectionPath 執行檔旁的 recipes.json
func DefaultCollectionPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultCollectionFile
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultCollectionFile)
}

// configDirs 設定檔搜尋路徑：目前目錄與執行檔目錄
func configDirs() []string {
	dirs := []string{"."}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-normalizer")

	// 集合檔案
	v.SetDefault("collection.path", "")
	v.SetDefault("collection.atomic_write", false)

	// 日誌
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.max_size", 64)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")
}

// validateConfig 驗證所有程式共用的設定
func validateConfig(config *Config) error {
	for i, r := range config.Replacements {
		if r.From == "" {
			return fmt.Errorf("replacement %d: from is required", i)
		}
	}
	return nil
}

// ValidateServer 驗證伺服器才會用到的設定（server、cache、rate_limit）
func (c *Config) ValidateServer() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case CacheBackendMemory:
			if c.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if c.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case CacheBackendRedis:
			if c.Cache.RedisAddr == "" {
				return fmt.Errorf("cache redis_addr is required")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
