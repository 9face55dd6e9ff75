package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"weeklog/entries"
)

const (
	KeyStorageDriver        = "storage.driver"
	KeyStoragePath          = "storage.path"
	KeyStorageDSN           = "storage.dsn"
	KeyMinHours             = "validation.min_hours"
	KeyMaxHours             = "validation.max_hours"
	KeyMaxDescriptionLength = "validation.max_description_length"
	KeyAllowDuplicates      = "validation.allow_duplicates"
	KeyServerPort           = "server.port"
	KeyServerJWTSecret      = "server.jwt_secret"
	KeyServerTokenTTL       = "server.token_ttl"
	KeyLogMode              = "log.mode"
	DriverSQLite            = "sqlite"
	DriverPostgres          = "postgres"
	DefaultStoragePath      = "./weeklog.db"
	DefaultServerPort       = 8080
	DefaultTokenTTL         = 24 * time.Hour
	DefaultLogMode          = "development"
)

type Config struct {
	Storage    StorageConfig    `mapstructure:"storage"`
	Validation ValidationConfig `mapstructure:"validation"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required_if=Driver postgres"`
}

// ValidationConfig keeps hours as strings so bounds like 0.01 stay exact.
type ValidationConfig struct {
	MinHours             string `mapstructure:"min_hours" validate:"required,numeric"`
	MaxHours             string `mapstructure:"max_hours" validate:"required,numeric"`
	MaxDescriptionLength int    `mapstructure:"max_description_length" validate:"gt=0"`
	AllowDuplicates      bool   `mapstructure:"allow_duplicates"`
}

type ServerConfig struct {
	Port      int           `mapstructure:"port" validate:"min=1,max=65535"`
	JWTSecret string        `mapstructure:"jwt_secret" validate:"omitempty,min=8"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode" validate:"oneof=development production"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# weeklog configuration
storage:
  driver: sqlite            # sqlite | postgres
  path: ./weeklog.db
  dsn: ""                   # required when driver is postgres

validation:
  min_hours: "0.01"
  max_hours: "24"
  max_description_length: 255
  allow_duplicates: true

server:
  port: 8080
  jwt_secret: ""            # required for serve and token
  token_ttl: 24h

log:
  mode: development         # development | production
`
}

// Rules converts the validation section into entry rules.
func (c *Config) Rules() (entries.Rules, error) {
	minHours, err := decimal.NewFromString(strings.TrimSpace(c.Validation.MinHours))
	if err != nil {
		return entries.Rules{}, fmt.Errorf("parse %s: %w", KeyMinHours, err)
	}
	maxHours, err := decimal.NewFromString(strings.TrimSpace(c.Validation.MaxHours))
	if err != nil {
		return entries.Rules{}, fmt.Errorf("parse %s: %w", KeyMaxHours, err)
	}
	rules := entries.Rules{
		MinHours:             minHours,
		MaxHours:             maxHours,
		MaxDescriptionLength: c.Validation.MaxDescriptionLength,
		AllowDuplicates:      c.Validation.AllowDuplicates,
	}
	if err := rules.Validate(); err != nil {
		return entries.Rules{}, fmt.Errorf("validation failed: %w", err)
	}
	return rules, nil
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Log.Mode = strings.ToLower(strings.TrimSpace(cfg.Log.Mode))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := cfg.Rules(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageDriver, DriverSQLite)
	v.SetDefault(KeyStoragePath, DefaultStoragePath)
	v.SetDefault(KeyStorageDSN, "")
	v.SetDefault(KeyMinHours, entries.DefaultMinHours.String())
	v.SetDefault(KeyMaxHours, entries.DefaultMaxHours.String())
	v.SetDefault(KeyMaxDescriptionLength, entries.DefaultMaxDescriptionLength)
	v.SetDefault(KeyAllowDuplicates, true)
	v.SetDefault(KeyServerPort, DefaultServerPort)
	v.SetDefault(KeyServerJWTSecret, "")
	v.SetDefault(KeyServerTokenTTL, DefaultTokenTTL)
	v.SetDefault(KeyLogMode, DefaultLogMode)
}
