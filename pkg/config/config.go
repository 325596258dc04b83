package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gokubot/goku/pkg/app/pipeline"
	"github.com/gokubot/goku/pkg/app/routing"
	"github.com/gokubot/goku/pkg/common"
	"github.com/gokubot/goku/pkg/infra/jwt"
	"github.com/gokubot/goku/pkg/infra/logger"
	oracleinfra "github.com/gokubot/goku/pkg/infra/oracle"
	"github.com/gokubot/goku/pkg/infra/prometheus"
	"github.com/gokubot/goku/pkg/infra/providers/factory"
	"github.com/gokubot/goku/pkg/ratelimit"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig             `mapstructure:"server"`
	Metrics     prometheus.MetricsConfig `mapstructure:"metrics"`
	Logging     logger.Config            `mapstructure:"logging"`
	Auth        jwt.Config               `mapstructure:"auth"`
	Redis       RedisConfig              `mapstructure:"redis"`
	Bot         routing.Config           `mapstructure:"bot"`
	RateLimit   ratelimit.Config         `mapstructure:"rate_limit"`
	Oracle      oracleinfra.Config       `mapstructure:"oracle"`
	Credentials CredentialsConfig        `mapstructure:"credentials"`
	Replies     pipeline.Replies         `mapstructure:"replies"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	MetricsPort     int           `mapstructure:"metrics_port"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// CredentialsConfig holds one API key per oracle provider.
type CredentialsConfig struct {
	Google    string `mapstructure:"google"`
	OpenAI    string `mapstructure:"openai"`
	Anthropic string `mapstructure:"anthropic"`
}

var globalConfig Config

// envBindings maps config keys to the flat environment names the bot has
// always been deployed with. Nested keys are also reachable as SECTION_KEY.
var envBindings = map[string][]string{
	"bot.name":              {"BOT_NAME"},
	"rate_limit.limit":      {"RATE_LIMIT_COUNT"},
	"rate_limit.window":     {"RATE_LIMIT_WINDOW_SECONDS", "RATE_LIMIT_WINDOW"},
	"server.port":           {"PORT", "SERVER_PORT"},
	"server.metrics_port":   {"METRICS_PORT", "SERVER_METRICS_PORT"},
	"logging.level":         {"LOG_LEVEL"},
	"auth.secret_key":       {"AUTH_SECRET_KEY", "JWT_SECRET"},
	"credentials.google":    {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	"credentials.openai":    {"OPENAI_API_KEY"},
	"credentials.anthropic": {"ANTHROPIC_API_KEY"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 10000)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.janitor_interval", common.DefaultJanitorInterval)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.oracle_latency", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.dir", "logs")
	v.SetDefault("logging.to_file", true)
	v.SetDefault("logging.to_console", true)

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.token_ttl", 0)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)

	v.SetDefault("bot.name", "Goku")
	v.SetDefault("bot.aliases", routing.DefaultAliases)
	v.SetDefault("bot.detector", routing.DetectorScript)
	v.SetDefault("bot.threshold", routing.DefaultScriptThreshold)
	v.SetDefault("bot.fuzzy_names", false)

	v.SetDefault("rate_limit.backend", ratelimit.BackendMemory)
	v.SetDefault("rate_limit.limit", ratelimit.DefaultLimit)
	v.SetDefault("rate_limit.window", ratelimit.DefaultWindow)
	v.SetDefault("rate_limit.key_prefix", common.BotSlug)

	v.SetDefault("oracle.provider", factory.ProviderGoogle)
	v.SetDefault("oracle.model", "")
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("oracle.timeout", common.DefaultOracleTimeout)
	v.SetDefault("oracle.temperature", 0.2)
	v.SetDefault("oracle.max_tokens", 1024)
	v.SetDefault("oracle.breaker_timeout", oracleinfra.DefaultBreakerTimeout)
	v.SetDefault("oracle.breaker_max_failures", oracleinfra.DefaultBreakerMaxFailures)

	v.SetDefault("credentials.google", "")
	v.SetDefault("credentials.openai", "")
	v.SetDefault("credentials.anthropic", "")
}

// Load reads config.yaml from configPath when it exists and layers the
// environment on top. A missing file is not an error.
func Load(configPath string) error {
	cfg, err := Read(configPath)
	if err != nil {
		return err
	}
	globalConfig = *cfg
	return nil
}

func Read(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// secondsToDurationHook reads bare numbers as seconds so that
// RATE_LIMIT_WINDOW_SECONDS=60 and "window: 60" both mean one minute.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch from.Kind() {
		case reflect.String:
			s := strings.TrimSpace(data.(string))
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return time.Duration(n * float64(time.Second)), nil
			}
			return s, nil
		case reflect.Int, reflect.Int32, reflect.Int64:
			if d, ok := data.(time.Duration); ok {
				return d, nil
			}
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		}
		return data, nil
	}
}

func (c *Config) applyDerived() {
	c.Oracle.Provider = strings.ToLower(strings.TrimSpace(c.Oracle.Provider))
	if c.Oracle.APIKey == "" {
		c.Oracle.APIKey = c.Credentials.For(c.Oracle.Provider)
	}
	if c.Oracle.Model == "" {
		c.Oracle.Model = factory.DefaultModel(c.Oracle.Provider)
	}
	if c.RateLimit.KeyPrefix == "" {
		c.RateLimit.KeyPrefix = common.BotSlug
	}
}

func (c CredentialsConfig) For(provider string) string {
	switch provider {
	case factory.ProviderOpenAI:
		return c.OpenAI
	case factory.ProviderAnthropic:
		return c.Anthropic
	case factory.ProviderGoogle, factory.ProviderGemini:
		return c.Google
	}
	return ""
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.BotName) == "" {
		return errors.New("bot name must not be empty")
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("invalid rate limit config: %w", err)
	}
	switch c.Oracle.Provider {
	case factory.ProviderGoogle, factory.ProviderGemini, factory.ProviderOpenAI, factory.ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported oracle provider: %q", c.Oracle.Provider)
	}
	if c.Oracle.APIKey == "" {
		return fmt.Errorf("missing API key for oracle provider %s", c.Oracle.Provider)
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle timeout must be positive, got %s", c.Oracle.Timeout)
	}
	if c.Auth.Enabled && c.Auth.SecretKey == "" {
		return errors.New("auth is enabled but no secret key is set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Metrics.Enabled && (c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535) {
		return fmt.Errorf("invalid metrics port %d", c.Server.MetricsPort)
	}
	return nil
}

func GetConfig() *Config {
	return &globalConfig
}
