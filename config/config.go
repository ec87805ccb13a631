package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/escrow-tf/steamtrade"
	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/api/inventory"
)

type Config struct {
	Session   SessionConfig   `mapstructure:"session"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type SessionConfig struct {
	SessionId string `mapstructure:"session_id"`
	// Cookies is a Cookie header value, name=value pairs separated by "; ". A header string keeps cookie
	// names case sensitive, which viper map keys are not.
	Cookies        string `mapstructure:"cookies"`
	ApiKey         string `mapstructure:"api_key"`
	IdentitySecret string `mapstructure:"identity_secret"`
	SteamId        string `mapstructure:"steam_id"`
}

type InventoryConfig struct {
	Language            string `mapstructure:"language"`
	MissingDescriptions string `mapstructure:"missing_descriptions"`
}

type HTTPConfig struct {
	RetryMax int           `mapstructure:"retry_max"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// CachePath persists cached responses to a bolt database. Empty keeps them in memory.
	CachePath string `mapstructure:"cache_path"`
	UserAgent string `mapstructure:"user_agent"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		logrus.Fatalf("error unmarshaling default config: %v", err)
	}

	return &config
}

// Load loads the configuration from the .env file, the config file and the environment
func Load(configFile string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setupViperConfig(v, configFile)
	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := setupLogging(config, v); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Error loading .env file")
	}
}

func setupViperConfig(v *viper.Viper, configFile string) {
	v.SetConfigName("steamtrade")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "steamtrade"))
	}

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	setDefaults(v)

	v.SetEnvPrefix("STEAMTRADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func bindEnvironmentVariables(v *viper.Viper) {
	_ = v.BindEnv("session.session_id", "STEAMTRADE_SESSION_ID")
	_ = v.BindEnv("session.cookies", "STEAMTRADE_COOKIES")
	_ = v.BindEnv("session.api_key", "STEAMTRADE_API_KEY", "STEAM_API_KEY")
	_ = v.BindEnv("session.identity_secret", "STEAMTRADE_IDENTITY_SECRET")
	_ = v.BindEnv("session.steam_id", "STEAMTRADE_STEAM_ID")

	_ = v.BindEnv("inventory.language", "STEAMTRADE_INVENTORY_LANGUAGE")
	_ = v.BindEnv("inventory.missing_descriptions", "STEAMTRADE_INVENTORY_MISSING_DESCRIPTIONS")

	_ = v.BindEnv("http.retry_max", "STEAMTRADE_HTTP_RETRY_MAX")
	_ = v.BindEnv("http.cache_ttl", "STEAMTRADE_HTTP_CACHE_TTL")
	_ = v.BindEnv("http.cache_path", "STEAMTRADE_HTTP_CACHE_PATH")
	_ = v.BindEnv("http.user_agent", "STEAMTRADE_HTTP_USER_AGENT")

	_ = v.BindEnv("logging.level", "STEAMTRADE_LOGGING_LEVEL")
	_ = v.BindEnv("logging.format", "STEAMTRADE_LOGGING_FORMAT")
}

func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no config file, defaults and environment only
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if _, err := config.Session.CookieMap(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("inventory.language", "english")
	v.SetDefault("inventory.missing_descriptions", "fail")

	// retries are opt in
	v.SetDefault("http.retry_max", 0)
	v.SetDefault("http.cache_ttl", "0s")
	v.SetDefault("http.cache_path", "")
	v.SetDefault("http.user_agent", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func setupLogging(config *Config, v *viper.Viper) error {
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	if logrusLevel >= logrus.DebugLevel {
		for _, key := range v.AllKeys() {
			if strings.HasPrefix(key, "session.") {
				continue
			}
			logrus.Debugf("Config '%s': %v", key, v.Get(key))
		}
	}

	return nil
}

func (s SessionConfig) CookieMap() (map[string]string, error) {
	cookies := make(map[string]string)
	if strings.TrimSpace(s.Cookies) == "" {
		return cookies, nil
	}

	parsed, err := http.ParseCookie(s.Cookies)
	if err != nil {
		return nil, fmt.Errorf("error parsing session cookies: %w", err)
	}

	for _, cookie := range parsed {
		cookies[cookie.Name] = cookie.Value
	}
	return cookies, nil
}

func (c *Config) Credentials() (steamtrade.Credentials, error) {
	cookies, err := c.Session.CookieMap()
	if err != nil {
		return steamtrade.Credentials{}, err
	}

	return steamtrade.Credentials{
		SessionId:      c.Session.SessionId,
		Cookies:        cookies,
		ApiKey:         c.Session.ApiKey,
		IdentitySecret: c.Session.IdentitySecret,
		SteamId:        c.Session.SteamId,
	}, nil
}

// TransportOptions builds the http transport settings. closeCache releases the response cache.
func (c *Config) TransportOptions() (options api.HttpTransportOptions, closeCache func() error, err error) {
	options = api.HttpTransportOptions{
		RetryMax:  c.HTTP.RetryMax,
		UserAgent: c.HTTP.UserAgent,
	}
	closeCache = func() error { return nil }

	switch {
	case c.HTTP.CacheTTL <= 0:
	case c.HTTP.CachePath != "":
		cache, err := api.OpenBoltCache(c.HTTP.CachePath)
		if err != nil {
			return api.HttpTransportOptions{}, nil, err
		}
		if err := cache.Prune(); err != nil {
			logrus.WithError(err).Warn("Failed to prune response cache")
		}
		options.ResponseCache = cache
		closeCache = cache.Close
	default:
		options.ResponseCache = api.NewMemoryCache(c.HTTP.CacheTTL)
	}

	return options, closeCache, nil
}

// TradeClientOptions maps the inventory and http settings onto a steamtrade.TradeClient.
func (c *Config) TradeClientOptions() ([]steamtrade.Option, error) {
	policy, err := inventory.ParseMissingDescriptionPolicy(c.Inventory.MissingDescriptions)
	if err != nil {
		return nil, err
	}

	return []steamtrade.Option{
		steamtrade.WithMissingDescriptionPolicy(policy),
		steamtrade.WithInventoryCacheTTL(c.HTTP.CacheTTL),
		steamtrade.WithLanguage(c.Inventory.Language),
	}, nil
}
