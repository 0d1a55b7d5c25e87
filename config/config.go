package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"goflare.io/ticketpal/driver"
)

const (
	ServerStartPort = ":8080"

	configPathEnv     = "TICKETPAL_CONFIG"
	defaultConfigPath = "./config.yaml"
	envPrefix         = "TICKETPAL"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	RevenueCat RevenueCatConfig `mapstructure:"revenuecat"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Reminders  RemindersConfig  `mapstructure:"reminders"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StripeConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type RevenueCatConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// WorkerConfig points at the automation service that files challenges.
type WorkerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Secret  string        `mapstructure:"secret"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PostgresConfig struct {
	URL     string `mapstructure:"url"`
	Migrate bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RemindersConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	Workers   int           `mapstructure:"workers"`
	QueueSize int           `mapstructure:"queue_size"`
	BatchSize uint64        `mapstructure:"batch_size"`
	// MetricsAddr is where the standalone sweeper serves /metrics.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ServerStartPort)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("revenuecat.webhook_secret", "")
	v.SetDefault("worker.base_url", "")
	v.SetDefault("worker.secret", "")
	v.SetDefault("worker.timeout", 30*time.Second)
	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.migrate", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("reminders.interval", time.Minute)
	v.SetDefault("reminders.workers", 4)
	v.SetDefault("reminders.queue_size", 100)
	v.SetDefault("reminders.batch_size", 200)
	v.SetDefault("reminders.metrics_addr", ":9091")
}

func ProvideApplicationConfig() (*Config, error) {
	path := os.Getenv(configPathEnv)
	if path == "" {
		path = defaultConfigPath
	}
	return Load(path)
}

// Load reads the YAML file at path, then applies TICKETPAL_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func ProvidePostgresConn(appConfig *Config) (driver.PostgresPool, error) {

	conn, err := driver.ConnectSQL(appConfig.Postgres.URL)
	if err != nil {
		return nil, err
	}

	if appConfig.Postgres.Migrate {
		if err = driver.Migrate(context.Background(), conn.Pool); err != nil {
			conn.Pool.Close()
			return nil, err
		}
	}

	return conn.Pool, nil
}

func ProvideRedis(appConfig *Config) (*redis.Client, error) {
	return driver.ConnectRedis(appConfig.Redis.Addr, appConfig.Redis.Password, appConfig.Redis.DB)
}

func NewLogger() *zap.Logger {

	logger, _ := zap.NewProduction()
	return logger
}
