// Package config manages environment variables.
//
// It reads variable from the `.env` file,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused accross the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: triggers godotenv's autoload feature.
	// If a `.env` file exists, it gets loaded into process env
	// *before* your code reads env vars. No explicit call needed.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

/*
	`koanf` reads config sources (defaults map, env) and unmarshals
	them into the Config struct.

	Key idea in this file:
	- Env vars are read using a prefix: MAILER_
	- Keys are normalized (lowercased, prefix removed)
	- Nested struct fields use a double underscore
	  e.g. MAILER_SERVER__PORT -> server.port -> Config.Server.Port
	- The two variables the legacy Directus extension read
	  (MAILCHIMP_API_KEY, MAILCHIMP_FROM_EMAIL) are still honoured,
	  but anything under MAILER_ wins.
*/

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "MAILER_"

// ConfigFileEnv names an optional JSON config file. Values in it sit
// between the defaults and the environment.
const ConfigFileEnv = EnvPrefix + "CONFIG_FILE"

// Email providers understood by the email package.
const (
	ProviderMandrill = "mandrill"
	ProviderResend   = "resend"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are used by go-playground/validator
// to enforce that the config is present and populated.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Email         EmailConfig          `koanf:"email" validate:"required"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// BasePath is where the email endpoints are mounted (e.g. "/email").
	BasePath string `koanf:"base_path" validate:"required,startswith=/"`

	// BodyLimit caps request bodies, audio uploads included (echo format, e.g. "25M").
	BodyLimit string `koanf:"body_limit" validate:"required"`
}

// AuthConfig stores the Clerk secret used to verify session tokens.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// EmailConfig selects and configures the transactional email provider.
type EmailConfig struct {
	Provider string `koanf:"provider" validate:"required,oneof=mandrill resend"`

	// FromEmail/FromName are the fixed sender identity of every message.
	FromEmail string `koanf:"from_email" validate:"required,email"`
	FromName  string `koanf:"from_name" validate:"required"`

	MandrillAPIKey  string `koanf:"mandrill_api_key" validate:"required_if=Provider mandrill"`
	MandrillBaseURL string `koanf:"mandrill_base_url" validate:"omitempty,url"`

	ResendAPIKey string `koanf:"resend_api_key" validate:"required_if=Provider resend"`

	// Timeout bounds one provider call, in seconds.
	Timeout int `koanf:"timeout" validate:"min=1"`
}

// RateLimitConfig configures the per-IP limiter in front of the email routes.
type RateLimitConfig struct {
	Enabled           bool          `koanf:"enabled"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=0"`
	ExpiresIn         time.Duration `koanf:"expires_in"`
}

// defaults are loaded first, every other source overrides them.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env": "development",

		"server.port":                 "8080",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.base_path":            "/email",
		"server.body_limit":           "25M",

		"email.provider":          ProviderMandrill,
		"email.from_name":         "York County History Center",
		"email.mandrill_base_url": "https://mandrillapp.com/api/1.0",
		"email.timeout":           30,

		"rate_limit.enabled":             false,
		"rate_limit.requests_per_second": 5,
		"rate_limit.burst":               10,
		"rate_limit.expires_in":          "3m",

		"observability.logging.level":                         "info",
		"observability.logging.format":                        "json",
		"observability.logging.max_size_mb":                   100,
		"observability.logging.max_backups":                   20,
		"observability.logging.max_age_days":                  30,
		"observability.metrics.enabled":                       true,
		"observability.metrics.path":                          "/metrics",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.health_checks.enabled":                 true,
		"observability.health_checks.timeout":                 "5s",
		"observability.health_checks.checks":                  []string{"email"},
	}
}

// legacyKeys maps the variables of the legacy Directus extension onto koanf keys.
var legacyKeys = map[string]string{
	"MAILCHIMP_API_KEY":    "email.mandrill_api_key",
	"MAILCHIMP_FROM_EMAIL": "email.from_email",
}

// Load loads configuration from defaults and environment variables, unmarshals it into
// Config structs, validates it, applies defaults, and returns the resulting config.
//
// Behavior summary:
//   - Loads built-in defaults
//   - Loads the JSON file named by MAILER_CONFIG_FILE, if set
//   - Loads MAILCHIMP_API_KEY / MAILCHIMP_FROM_EMAIL if present
//   - Loads env vars with prefix MAILER_ ("__" separates nested keys)
//   - Unmarshals into Config
//   - Sets default observability if missing
//   - Overrides observability service name + environment
//   - Validates required config blocks/fields
//   - Validates observability config as well
func Load() (*Config, error) {
	// The "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load default config: %w", err)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("could not load config file %s: %w", path, err)
		}
	}

	// A callback returning "" tells the env provider to skip the variable.
	err := k.Load(env.Provider("MAILCHIMP_", ".", func(s string) string {
		return legacyKeys[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	// MAILER_EMAIL__FROM_EMAIL -> email.from_email
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}

	// Using "" means "unmarshal everything from the root".
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// Observability is a pointer field, so nil means "missing".
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Force service name and environment values regardless of what user set,
	// so logs and traces see consistent service naming. This runs before
	// validation because both fields are required.
	mainConfig.Observability.ServiceName = "museum-mailer"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	// Validate the entire config struct recursively.
	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
