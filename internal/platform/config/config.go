package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix は設定を上書きする環境変数の接頭辞です。
const EnvPrefix = "EMPLOYEES_"

// ストレージドライバ
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// イベントドライバ
const (
	EventsNone     = "none"
	EventsKafka    = "kafka"
	EventsRabbitMQ = "rabbitmq"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	HTTP     HTTPConfig     `yaml:"http" envPrefix:"HTTP_"`
	Storage  StorageConfig  `yaml:"storage" envPrefix:"STORAGE_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Redis    RedisConfig    `yaml:"redis" envPrefix:"REDIS_"`
	Events   EventsConfig   `yaml:"events" envPrefix:"EVENTS_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"LISTEN_ADDR"`
}

// HTTPConfig は HTTP ゲートウェイの設定です。ListenAddr が空の場合は起動しません。
type HTTPConfig struct {
	ListenAddr         string        `yaml:"listen_addr" env:"LISTEN_ADDR"`
	ReadTimeout        time.Duration `yaml:"-"`
	WriteTimeout       time.Duration `yaml:"-"`
	ShutdownTimeout    time.Duration `yaml:"-"`
	ReadTimeoutRaw     string        `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeoutRaw    string        `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// StorageConfig は社員ストアのバックエンド選択です。
type StorageConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host" env:"HOST"`
	Port               int           `yaml:"port" env:"PORT"`
	User               string        `yaml:"user" env:"USER"`
	Password           string        `yaml:"password" env:"PASSWORD"`
	Name               string        `yaml:"name" env:"NAME"`
	SSLMode            string        `yaml:"ssl_mode" env:"SSL_MODE"`
	MaxOpenConns       int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns       int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME"`
}

// RedisConfig は Redis ストアの設定です。
type RedisConfig struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	Password  string `yaml:"password" env:"PASSWORD"`
	DB        int    `yaml:"db" env:"DB"`
	KeyPrefix string `yaml:"key_prefix" env:"KEY_PREFIX"`
}

// EventsConfig はライフサイクルイベントの発行先です。
type EventsConfig struct {
	Driver   string         `yaml:"driver" env:"DRIVER"`
	Kafka    KafkaConfig    `yaml:"kafka" envPrefix:"KAFKA_"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq" envPrefix:"RABBITMQ_"`
}

// KafkaConfig は Kafka への発行設定です。
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"BROKERS" envSeparator:","`
	Topic   string   `yaml:"topic" env:"TOPIC"`
}

// RabbitMQConfig は RabbitMQ への発行設定です。
type RabbitMQConfig struct {
	URL               string        `yaml:"url" env:"URL"`
	Exchange          string        `yaml:"exchange" env:"EXCHANGE"`
	RoutingKey        string        `yaml:"routing_key" env:"ROUTING_KEY"`
	PublishTimeout    time.Duration `yaml:"-"`
	PublishTimeoutRaw string        `yaml:"publish_timeout" env:"PUBLISH_TIMEOUT"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.HTTP.validateAndNormalize(); err != nil {
		return err
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = StorageMemory
	case StorageMemory:
	case StoragePostgres:
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	case StorageRedis:
		if err := c.Redis.validateAndNormalize(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("config: unsupported storage.driver %q", c.Storage.Driver)
	}

	if err := c.Events.validateAndNormalize(); err != nil {
		return err
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	return nil
}

func (h *HTTPConfig) validateAndNormalize() error {
	var err error
	if h.ReadTimeout, err = parseDurationOrDefault(h.ReadTimeoutRaw, 10*time.Second); err != nil {
		return fmt.Errorf("config: http.read_timeout: %w", err)
	}
	if h.WriteTimeout, err = parseDurationOrDefault(h.WriteTimeoutRaw, 15*time.Second); err != nil {
		return fmt.Errorf("config: http.write_timeout: %w", err)
	}
	if h.ShutdownTimeout, err = parseDurationOrDefault(h.ShutdownTimeoutRaw, 10*time.Second); err != nil {
		return fmt.Errorf("config: http.shutdown_timeout: %w", err)
	}
	return nil
}

// Validate は PostgreSQL 設定を検証します。マイグレーション CLI からも利用します。
func (d *DatabaseConfig) Validate() error {
	return d.validateAndNormalize()
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationOrDefault(d.ConnMaxLifetimeRaw, 0)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationOrDefault(d.ConnMaxIdleTimeRaw, 0)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (r *RedisConfig) validateAndNormalize() error {
	if r.Addr == "" {
		return fmt.Errorf("config: redis.addr must be set")
	}
	if r.KeyPrefix == "" {
		r.KeyPrefix = "hr"
	}
	return nil
}

func (e *EventsConfig) validateAndNormalize() error {
	e.Driver = strings.ToLower(strings.TrimSpace(e.Driver))
	switch e.Driver {
	case "":
		e.Driver = EventsNone
	case EventsNone:
	case EventsKafka:
		if len(e.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: events.kafka.brokers must be set")
		}
		if e.Kafka.Topic == "" {
			e.Kafka.Topic = "hr.employee.lifecycle.v1"
		}
	case EventsRabbitMQ:
		if e.RabbitMQ.URL == "" {
			return fmt.Errorf("config: events.rabbitmq.url must be set")
		}
		if e.RabbitMQ.RoutingKey == "" {
			e.RabbitMQ.RoutingKey = "employee.lifecycle"
		}
		timeout, err := parseDurationOrDefault(e.RabbitMQ.PublishTimeoutRaw, 10*time.Second)
		if err != nil {
			return fmt.Errorf("config: events.rabbitmq.publish_timeout: %w", err)
		}
		e.RabbitMQ.PublishTimeout = timeout
	default:
		return fmt.Errorf("config: unsupported events.driver %q", e.Driver)
	}
	return nil
}

func parseDurationOrDefault(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報はエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
