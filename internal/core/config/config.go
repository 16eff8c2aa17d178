package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// BaseCurrency is the currency all tariffs and extracted costs are expressed in.
	BaseCurrency string `mapstructure:"BASE_CURRENCY" default:"EUR"`
	// MarginPercent is the default margin applied when deriving a selling price.
	MarginPercent float64 `mapstructure:"MARGIN_PERCENT" default:"15"`

	// Database holds the Postgres configuration for tariff and shipment tables.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Kafka holds the event publishing configuration.
	Kafka KafkaConfig `mapstructure:",squash"`

	// CRM holds the connection details for the office CRM backend that owns
	// the partner and customer master data.
	CRM CRMConfig `mapstructure:",squash"`

	// FX holds the exchange rate provider configuration.
	FX FXConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// Host is the database server hostname.
	Host string `mapstructure:"DB_HOST" default:"localhost"`
	// Port is the database connection port.
	Port int `mapstructure:"DB_PORT" default:"5432"`
	// User is the database user.
	User string `mapstructure:"DB_USER" default:"freightdesk"`
	// Password is the database password.
	Password string `mapstructure:"DB_PASSWORD"`
	// Name is the database name.
	Name string `mapstructure:"DB_NAME" default:"freightdesk"`
	// SSLMode controls TLS for the connection (disable, require, verify-full).
	SSLMode string `mapstructure:"DB_SSLMODE" default:"disable"`
}

// ConnString builds a lib/pq connection string from the configured fields.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig holds the Redis cache configuration.
type RedisConfig struct {
	// URL is the Redis connection URL. Empty disables caching.
	URL string `mapstructure:"REDIS_URL"`
	// ZoneCacheTTLSeconds is how long resolved zone rules stay cached.
	ZoneCacheTTLSeconds int `mapstructure:"ZONE_CACHE_TTL_SECONDS" default:"300"`
}

// KafkaConfig holds the Kafka event publishing configuration.
type KafkaConfig struct {
	// Broker is the Kafka broker address. Empty disables event publishing.
	Broker string `mapstructure:"KAFKA_BROKER"`
	// StatusTopic is the topic milestone status changes are published to.
	StatusTopic string `mapstructure:"KAFKA_STATUS_TOPIC" default:"shipment.status"`
}

// CRMConfig holds the credentials for the office CRM backend.
type CRMConfig struct {
	// URL is the base URL of the CRM REST API. Empty falls back to the
	// built-in static partner catalog.
	URL string `mapstructure:"CRM_URL"`
	// APIKey is the key for API access.
	APIKey string `mapstructure:"CRM_API_KEY"`
	// APISecret is the secret for API access.
	APISecret string `mapstructure:"CRM_API_SECRET"`
}

// FXConfig holds the exchange rate provider configuration.
type FXConfig struct {
	// URL is the base URL of the rate API. Empty disables rate lookups;
	// extraction then relies on rates passed in the request.
	URL string `mapstructure:"FX_API_URL"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
