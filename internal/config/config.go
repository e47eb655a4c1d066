package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Makepad-fr/boken/internal/api"
	"github.com/Makepad-fr/boken/internal/model"
)

const (
	DefaultAPIURL     = "http://127.0.0.1:8000"
	DefaultSkin       = "classic"
	DefaultServerAddr = "127.0.0.1:8000"
	DefaultAccessTTL  = 5 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
	defaultConfigDir  = "boken"
	defaultConfigFile = "config.yml"
	envPrefix         = "BOKEN"
)

// Config is the whole runtime configuration, client and demo server.
type Config struct {
	APIURL      string        `mapstructure:"api-url"`
	LoginPath   string        `mapstructure:"login-path"`
	ItemsPath   string        `mapstructure:"items-path"`
	Email       string        `mapstructure:"email"`
	Password    string        `mapstructure:"password"`
	ShowToken   bool          `mapstructure:"show-token"`
	Skin        string        `mapstructure:"skin"`
	LogFile     string        `mapstructure:"log-file"`
	HTTPTimeout time.Duration `mapstructure:"http-timeout"`
	Server      ServerConfig  `mapstructure:"server"`
	ConfigPath  string        `mapstructure:"-"` // not from config file
}

// ServerConfig drives the `serve` demo backend.
type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	Catalog    string        `mapstructure:"catalog"`
	Secret     string        `mapstructure:"secret"`
	Paginate   bool          `mapstructure:"paginate"`
	AccessTTL  time.Duration `mapstructure:"access-ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh-ttl"`
}

// Credentials returns the immutable login pair.
func (c Config) Credentials() model.Credentials {
	return model.Credentials{Email: c.Email, Password: c.Password}
}

// ClientOptions maps the config onto the API client.
func (c Config) ClientOptions() api.Options {
	return api.Options{
		BaseURL:   c.APIURL,
		LoginPath: c.LoginPath,
		ItemsPath: c.ItemsPath,
		Timeout:   c.HTTPTimeout,
	}
}

// ValidateClient reports what is missing before the client can log in.
func (c Config) ValidateClient() error {
	var errs []error
	if strings.TrimSpace(c.APIURL) == "" {
		errs = append(errs, errors.New("api-url is empty"))
	}
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, fmt.Errorf("email not configured (set %s_EMAIL or email in the config file)", envPrefix))
	}
	if c.Password == "" {
		errs = append(errs, fmt.Errorf("password not configured (set %s_PASSWORD or password in the config file)", envPrefix))
	}
	return errors.Join(errs...)
}

// Load layers defaults, the config file, BOKEN_* env vars and finally the
// overrides (flag name -> value) the caller explicitly set.
func Load(configPath string, overrides map[string]any) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api-url", DefaultAPIURL)
	v.SetDefault("login-path", api.DefaultLoginPath)
	v.SetDefault("items-path", api.DefaultItemsPath)
	v.SetDefault("email", "")
	v.SetDefault("password", "")
	v.SetDefault("show-token", true)
	v.SetDefault("skin", DefaultSkin)
	v.SetDefault("log-file", "")
	v.SetDefault("http-timeout", time.Duration(0))
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.catalog", "")
	v.SetDefault("server.secret", "")
	v.SetDefault("server.paginate", false)
	v.SetDefault("server.access-ttl", DefaultAccessTTL)
	v.SetDefault("server.refresh-ttl", DefaultRefreshTTL)

	explicit := configPath != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", defaultConfigDir, defaultConfigFile)
	}
	v.SetConfigFile(configPath)

	// only the implicit default file may be absent
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &configFileNotFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return cfg, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigPath = configPath
	return cfg, nil
}
