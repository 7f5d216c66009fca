package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	StylistService StylistServiceConfig `toml:"stylist_service"`
	Pricing        PricingConfig        `toml:"pricing"`
	AutoCheckout   AutoCheckoutConfig   `toml:"autocheckout"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// StylistServiceConfig настройки интеграции с StylistService
type StylistServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// PricingConfig ставки налога и комиссии за карту
// Значения в процентах, строками, чтобы не терять точность
type PricingConfig struct {
	TaxRatePercent string `toml:"tax_rate_percent"`
	CardFeePercent string `toml:"card_fee_percent"`
}

// TaxRate возвращает ставку налога как decimal
func (c *PricingConfig) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.TaxRatePercent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tax_rate_percent %q: %w", c.TaxRatePercent, err)
	}
	return rate, nil
}

// CardFee возвращает комиссию за карту как decimal
func (c *PricingConfig) CardFee() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(c.CardFeePercent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid card_fee_percent %q: %w", c.CardFeePercent, err)
	}
	return fee, nil
}

// AutoCheckoutConfig настройки фонового авто-закрытия записей
type AutoCheckoutConfig struct {
	Enabled           bool  `toml:"enabled"`
	IntervalMinutes   int   `toml:"interval_minutes"`
	CheckoutAfterHour int   `toml:"checkout_after_hours"`
	SystemUserID      int64 `toml:"system_user_id"`
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.StylistService.URL == "" {
		return fmt.Errorf("stylist_service.url is required")
	}
	if _, err := c.Pricing.TaxRate(); err != nil {
		return err
	}
	if _, err := c.Pricing.CardFee(); err != nil {
		return err
	}
	if c.AutoCheckout.Enabled {
		if c.AutoCheckout.IntervalMinutes <= 0 {
			return fmt.Errorf("autocheckout.interval_minutes must be positive")
		}
		if c.AutoCheckout.CheckoutAfterHour <= 0 {
			return fmt.Errorf("autocheckout.checkout_after_hours must be positive")
		}
		if c.AutoCheckout.SystemUserID <= 0 {
			return fmt.Errorf("autocheckout.system_user_id must be positive")
		}
	}
	return nil
}
