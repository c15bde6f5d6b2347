package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Config アプリケーション全体の設定
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	ML      MLConfig      `yaml:"ml"`
	Redis   RedisConfig   `yaml:"redis"`
	MySQL   MySQLConfig   `yaml:"mysql"`
	Queue   QueueConfig   `yaml:"queue"`
	Twitter TwitterConfig `yaml:"twitter"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig HTTPサーバーの設定
type ServerConfig struct {
	Port string `yaml:"port"`
}

// MLConfig 推論サービスの設定（秒単位）
type MLConfig struct {
	ServerURL       string `yaml:"server_url"`
	TimeoutSeconds  int    `yaml:"timeout"`
	CacheTTLSeconds int    `yaml:"cache_ttl"`
}

// RedisConfig Redisの設定
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MySQLConfig MySQLの設定
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// QueueConfig ジョブキューの設定
type QueueConfig struct {
	Name             string `yaml:"name"`
	Workers          int    `yaml:"workers"`
	StatusTTLSeconds int    `yaml:"status_ttl"`
}

// TwitterConfig ハンドル取得用のAPI設定
type TwitterConfig struct {
	BearerToken string `yaml:"bearer_token"`
	BaseURL     string `yaml:"base_url"`
}

// LogConfig ログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Timeout 推論サービスのタイムアウト
func (c MLConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL 推論結果キャッシュの有効期限
func (c MLConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// StatusTTL 非同期ジョブステータスの有効期限
func (c QueueConfig) StatusTTL() time.Duration {
	return time.Duration(c.StatusTTLSeconds) * time.Second
}

// LoadEnvFile .envファイルを環境変数として読み込む（存在しない場合は何もしない）
func LoadEnvFile(path string) error {
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load 設定ファイルを読み込む
func Load(configPath string) (*Config, error) {
	// 設定ファイルが存在しない場合はデフォルト設定を返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 環境変数の展開
	dataStr := os.ExpandEnv(string(data))

	// 未指定の項目はデフォルト値のまま
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(dataStr), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// DefaultConfig デフォルト設定を返す
func DefaultConfig() *Config {
	// Redis/MySQLのホストはテスト環境では localhost を使用
	redisHost := "redis"
	mysqlHost := "mysql"
	if os.Getenv("GO_ENV") == "test" {
		redisHost = "localhost"
		mysqlHost = "localhost"
	}

	return &Config{
		Server: ServerConfig{
			Port: envOrDefault("PORT", "8080"),
		},
		ML: MLConfig{
			ServerURL:       envOrDefault("ML_SERVER_URL", "http://localhost:8000"),
			TimeoutSeconds:  envIntOrDefault("ML_SERVER_TIMEOUT", 10),
			CacheTTLSeconds: envIntOrDefault("ML_CACHE_TTL", 86400),
		},
		Redis: RedisConfig{
			Host:     redisHost,
			Port:     6379,
			Password: "",
			DB:       0,
		},
		MySQL: MySQLConfig{
			Host:     mysqlHost,
			Port:     3306,
			User:     "root",
			Password: os.Getenv("MYSQL_ROOT_PASSWORD"),
			Database: "sentiment",
		},
		Queue: QueueConfig{
			Name:             "sentiment:jobs",
			Workers:          2,
			StatusTTLSeconds: 86400,
		},
		Twitter: TwitterConfig{
			BearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
			BaseURL:     "https://api.twitter.com",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Save 設定をファイルに保存する
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
