package config

import (
	"time"

	"gogetmarket/pkg/db/postgres"
	"gogetmarket/pkg/db/redis"
)

// Backend - где хранятся снимки состояния.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// Valid сообщает, поддерживается ли хранилище.
func (b Backend) Valid() bool {
	switch b {
	case BackendMemory, BackendRedis, BackendPostgres:
		return true
	default:
		return false
	}
}

// StorageConfig - выбор хранилища снимков.
type StorageConfig struct {
	Backend   Backend       `yaml:"backend" env:"STOREFRONT_STORAGE_BACKEND" env-default:"memory"`
	KeyPrefix string        `yaml:"key_prefix" env:"STOREFRONT_STORAGE_KEY_PREFIX" env-default:"storefront"`
	TTL       time.Duration `yaml:"ttl" env:"STOREFRONT_STORAGE_TTL" env-default:"720h"`
}

// RedisConfig - подключение к Redis.
type RedisConfig struct {
	Host            string        `yaml:"host" env:"STOREFRONT_REDIS_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"STOREFRONT_REDIS_PORT" env-default:"6379"`
	Password        string        `yaml:"password" env:"STOREFRONT_REDIS_PASSWORD" env-default:""`
	DB              int           `yaml:"db" env:"STOREFRONT_REDIS_DB" env-default:"0"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"STOREFRONT_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"STOREFRONT_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"STOREFRONT_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize        int           `yaml:"pool_size" env:"STOREFRONT_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle         int           `yaml:"min_idle" env:"STOREFRONT_REDIS_MIN_IDLE" env-default:"2"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"STOREFRONT_REDIS_IDLE_TIMEOUT" env-default:"5m"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"STOREFRONT_REDIS_MAX_CONN_LIFETIME" env-default:"1h"`
}

// Client переводит конфигурацию в параметры клиента Redis.
func (c *RedisConfig) Client() redis.Config {
	return redis.Config{
		Host:            c.Host,
		Port:            c.Port,
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.PoolSize,
		MinIdle:         c.MinIdle,
		ConnectTimeout:  c.ConnectTimeout,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		IdleTimeout:     c.IdleTimeout,
		MaxConnLifetime: c.MaxConnLifetime,
	}
}

// PostgresConfig - подключение к Postgres.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"STOREFRONT_POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"STOREFRONT_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"STOREFRONT_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"STOREFRONT_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"STOREFRONT_POSTGRES_DB" env-default:"storefront"`
	SSLMode  string `yaml:"sslmode" env:"STOREFRONT_POSTGRES_SSLMODE" env-default:"disable"`
	MinConn  int    `yaml:"min_conn" env:"STOREFRONT_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn  int    `yaml:"max_conn" env:"STOREFRONT_POSTGRES_MAX_CONN" env-default:"10"`
}

// Pool переводит конфигурацию в параметры пула.
func (c *PostgresConfig) Pool() postgres.Config {
	return postgres.Config{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		SSLMode:  c.SSLMode,
		MinConn:  c.MinConn,
		MaxConn:  c.MaxConn,
	}
}
