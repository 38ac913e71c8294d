package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvcrn/cronofy-go"
	"github.com/dvcrn/cronofy-go/internal/credentials"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when read from the environment, so
// webhook.addr becomes CRONOFY_WEBHOOK_ADDR.
const EnvPrefix = "CRONOFY"

type Config struct {
	ClientID        string        `mapstructure:"client_id"`
	ClientSecret    string        `mapstructure:"client_secret"`
	DataCenter      string        `mapstructure:"data_center"`
	APIRoot         string        `mapstructure:"api_root"`
	AppRoot         string        `mapstructure:"app_root"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CredentialsPath string        `mapstructure:"credentials_path"`
	LogLevel        string        `mapstructure:"log_level"`
	AdminAPIKey     string        `mapstructure:"admin_api_key"`
	Webhook         WebhookConfig `mapstructure:"webhook"`
}

type WebhookConfig struct {
	Addr string `mapstructure:"addr"`
	Path string `mapstructure:"path"`
}

var defaultConfig = Config{
	Timeout:  cronofy.DefaultTimeout,
	LogLevel: "info",
	Webhook: WebhookConfig{
		Addr: ":8080",
		Path: "/notifications",
	},
}

// Load reads configFile, or config.toml from the cronofy config directory
// when configFile is empty. A missing default file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		if dir := credentials.ConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = credentials.DefaultCredsPath()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client_id", "")
	v.SetDefault("client_secret", "")
	v.SetDefault("data_center", "")
	v.SetDefault("api_root", "")
	v.SetDefault("app_root", "")
	v.SetDefault("timeout", defaultConfig.Timeout)
	v.SetDefault("credentials_path", "")
	v.SetDefault("log_level", defaultConfig.LogLevel)
	v.SetDefault("admin_api_key", "")

	v.SetDefault("webhook.addr", defaultConfig.Webhook.Addr)
	v.SetDefault("webhook.path", defaultConfig.Webhook.Path)
}

// ClientOptions translates the config into cronofy.Client options.
func (c *Config) ClientOptions() []cronofy.Option {
	opts := []cronofy.Option{cronofy.WithTimeout(c.Timeout)}
	if c.DataCenter != "" {
		opts = append(opts, cronofy.WithDataCenter(c.DataCenter))
	}
	// Explicit roots override the data center hosts.
	if c.APIRoot != "" {
		opts = append(opts, cronofy.WithAPIRoot(c.APIRoot))
	}
	if c.AppRoot != "" {
		opts = append(opts, cronofy.WithAppRoot(c.AppRoot))
	}
	return opts
}
