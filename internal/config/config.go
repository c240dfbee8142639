// Package config loads and validates the service configuration.
package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Icd      IcdConfig      `mapstructure:"icd"`
	Namaste  NamasteConfig  `mapstructure:"namaste"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gt=0"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host" validate:"required"`
	Port            int               `mapstructure:"port" validate:"gt=0"`
	Database        string            `mapstructure:"database" validate:"required"`
	Username        string            `mapstructure:"username" validate:"required"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

// IcdConfig configures access to the WHO ICD-11 API.
type IcdConfig struct {
	BaseURL       string `mapstructure:"base_url" validate:"required,url"`
	APIVersion    string `mapstructure:"api_version" validate:"required"`
	TokenURL      string `mapstructure:"token_url" validate:"required,url"`
	SearchRelease string `mapstructure:"search_release" validate:"required"`
	SystemURI     string `mapstructure:"system_uri" validate:"required,url"`
	ClientID      string `mapstructure:"client_id"`
	ClientSecret  string `mapstructure:"client_secret"`
}

// NamasteConfig identifies the locally hosted code system.
type NamasteConfig struct {
	SystemURI string `mapstructure:"system_uri" validate:"required,url"`
	Version   string `mapstructure:"version" validate:"required"`
}

// CacheConfig bounds the in-memory caches for ICD entities and searches.
type CacheConfig struct {
	EntityCapacity int `mapstructure:"entity_capacity" validate:"gt=0"`
	SearchCapacity int `mapstructure:"search_capacity" validate:"gt=0"`
	TTLSeconds     int `mapstructure:"ttl_seconds" validate:"gt=0"`
}

type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/fhirterm")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "fhirterm")
	v.SetDefault("database.username", "fhirterm")
	v.SetDefault("icd.base_url", "https://id.who.int/icd")
	v.SetDefault("icd.api_version", "v2")
	v.SetDefault("icd.token_url", "https://icdaccessmanagement.who.int/connect/token")
	v.SetDefault("icd.search_release", "release/11/2023-01/mms")
	v.SetDefault("icd.system_uri", "http://id.who.int/icd/release/11/mms")
	v.SetDefault("namaste.system_uri", "http://namaste.gov.in/codes")
	v.SetDefault("namaste.version", "1.0")
	v.SetDefault("cache.entity_capacity", 1024)
	v.SetDefault("cache.search_capacity", 256)
	v.SetDefault("cache.ttl_seconds", 43200)
	v.SetDefault("audit.enabled", false)

	// Credentials come from the environment only, never from the config file
	if err := v.BindEnv("icd.client_id", "ICD_CLIENT_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind ICD_CLIENT_ID environment variable: %w", err)
	}
	if err := v.BindEnv("icd.client_secret", "ICD_CLIENT_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind ICD_CLIENT_SECRET environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
