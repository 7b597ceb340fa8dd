package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"GannForce/internal/domain/models"
)

// Sentiment sources.
const (
	SentimentClickHouse = "clickhouse"
	SentimentFile       = "file"
	SentimentHTTP       = "http"
)

type Config struct {
	Environment string `yaml:"environment" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" validate:"gte=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		RateLimit       struct {
			Enabled bool    `yaml:"enabled"`
			RPS     float64 `yaml:"rps"`
			Burst   int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		Output     string `yaml:"output"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Host             string        `yaml:"host" validate:"required"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		InitSchema       bool          `yaml:"init_schema"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Cache struct {
		TTL       time.Duration `yaml:"ttl"`
		MemoryTTL time.Duration `yaml:"memory_ttl"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled     bool     `yaml:"enabled"`
		Brokers     []string `yaml:"brokers"`
		Compression string   `yaml:"compression"`
		Topics      struct {
			Cot       string `yaml:"cot"`
			Sentiment string `yaml:"sentiment"`
			OrderBook string `yaml:"orderbook"`
		} `yaml:"topics"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Sentiment struct {
		Source  string        `yaml:"source" validate:"oneof=clickhouse file http"`
		Path    string        `yaml:"path"`
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"sentiment"`
	FastBull struct {
		Enabled   bool          `yaml:"enabled"`
		PairsURL  string        `yaml:"pairs_url"`
		BookURL   string        `yaml:"book_url"`
		Schedule  string        `yaml:"schedule"`
		RPS       float64       `yaml:"rps"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
		Symbols   []string      `yaml:"symbols"`
	} `yaml:"fastbull"`
	Instruments []models.InstrumentConfig `yaml:"instruments" validate:"dive"`
}

// Load reads, defaults and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, fills defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads an optional .env file, then the YAML config, then
// applies environment overrides and re-validates.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyEnv()
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("SENTIMENT_SOURCE"); v != "" {
		c.Sentiment.Source = v
	}
	if v := os.Getenv("SENTIMENT_PATH"); v != "" {
		c.Sentiment.Path = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.ClickHouse.Port == 0 {
		c.ClickHouse.Port = 9000
	}
	if c.ClickHouse.Database == "" {
		c.ClickHouse.Database = "gannforce"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.MemoryTTL == 0 {
		c.Cache.MemoryTTL = 30 * time.Second
	}
	if c.Kafka.Topics.Cot == "" {
		c.Kafka.Topics.Cot = "gannforce.cot"
	}
	if c.Kafka.Topics.Sentiment == "" {
		c.Kafka.Topics.Sentiment = "gannforce.sentiment"
	}
	if c.Kafka.Topics.OrderBook == "" {
		c.Kafka.Topics.OrderBook = "gannforce.orderbook"
	}
	if c.Sentiment.Source == "" {
		c.Sentiment.Source = SentimentClickHouse
	}
	if c.Sentiment.Timeout == 0 {
		c.Sentiment.Timeout = 10 * time.Second
	}
	if c.FastBull.Schedule == "" {
		c.FastBull.Schedule = "*/15 * * * *"
	}
	if c.FastBull.RPS == 0 {
		c.FastBull.RPS = 2
	}
	if c.FastBull.Timeout == 0 {
		c.FastBull.Timeout = 15 * time.Second
	}
	if len(c.Instruments) == 0 {
		c.Instruments = models.DefaultInstruments()
	}
}

// Validate checks struct tags, instrument ids and the source-specific fields.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Instruments))
	for _, in := range c.Instruments {
		if seen[in.ID] {
			return fmt.Errorf("instruments: duplicate id %q", in.ID)
		}
		seen[in.ID] = true
	}

	switch c.Sentiment.Source {
	case SentimentFile:
		if c.Sentiment.Path == "" {
			return fmt.Errorf("sentiment.path is required for the file source")
		}
	case SentimentHTTP:
		if c.Sentiment.URL == "" {
			return fmt.Errorf("sentiment.url is required for the http source")
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.FastBull.Enabled && (c.FastBull.PairsURL == "" || c.FastBull.BookURL == "") {
		return fmt.Errorf("fastbull.pairs_url and fastbull.book_url are required when fastbull is enabled")
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cot_category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(models.Category(fl.Field().String()))
	})
	return v
}
