package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "TIMELINE"

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ErrorReportConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
}

type EmailConfig struct {
	From            string   `mapstructure:"from"`
	SMTPHost        string   `mapstructure:"smtp_host"`
	SMTPPort        int      `mapstructure:"smtp_port"`
	Username        string   `mapstructure:"username"`
	Password        string   `mapstructure:"password"`
	AlertRecipients []string `mapstructure:"alert_recipients"`
}

type NotificationPluginConfig struct {
	AppsFile       string        `mapstructure:"apps_file"`
	AppIconFiles   string        `mapstructure:"app_icon_files"`
	BundledIconDir string        `mapstructure:"bundled_icon_dir"`
	DefaultIcon    string        `mapstructure:"default_icon"`
	IconExtension  string        `mapstructure:"icon_extension"`
	IconCacheSize  int           `mapstructure:"icon_cache_size"`
	IconCacheTTL   time.Duration `mapstructure:"icon_cache_ttl"`
}

type PluginsConfig struct {
	Notification *NotificationPluginConfig `mapstructure:"timeline_plugin_notification"`
}

type Config struct {
	DatabaseURL    string            `mapstructure:"database_url"`
	ServerPort     string            `mapstructure:"server_port"`
	Password       string            `mapstructure:"password"`
	JWTSecret      string            `mapstructure:"jwt_secret"`
	ErrorReportURL string            `mapstructure:"error_report_url"`
	ReadTimeout    time.Duration     `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration     `mapstructure:"write_timeout"`
	LogLevel       string            `mapstructure:"log_level"`
	CORS           CORSConfig        `mapstructure:"cors"`
	ErrorReport    ErrorReportConfig `mapstructure:"error_report"`
	Email          EmailConfig       `mapstructure:"email"`
	Plugins        PluginsConfig     `mapstructure:"plugins"`
}

// Load reads configuration from a YAML file, .env files and TIMELINE_*
// environment variables. An empty path searches ./config.yaml and
// ./config/config.yaml.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Look for config in the current directory and ./config
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	return decode(v)
}

// bindEnv registers top-level keys so env vars apply even when the file
// omits them.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"database_url", "server_port", "password", "jwt_secret",
		"error_report_url", "log_level", "email.password",
	} {
		_ = v.BindEnv(key)
	}
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	// Fallback defaults
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.ErrorReport.Timeout == 0 {
		c.ErrorReport.Timeout = 10 * time.Second
	}
	if c.ErrorReport.BreakerMaxFailures == 0 {
		c.ErrorReport.BreakerMaxFailures = 5
	}
	if c.ErrorReport.BreakerTimeout == 0 {
		c.ErrorReport.BreakerTimeout = time.Minute
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if n := c.Plugins.Notification; n != nil {
		if n.BundledIconDir == "" {
			n.BundledIconDir = "../plugins/timeline_plugin_notification/icons"
		}
		if n.DefaultIcon == "" {
			n.DefaultIcon = "default.svg"
		}
		if n.IconExtension == "" {
			n.IconExtension = ".png"
		}
		if n.IconCacheTTL == 0 {
			n.IconCacheTTL = 5 * time.Minute
		}
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Password == "" {
		return errors.New("password must be set in the config file")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT secret must be set in the config file")
	}
	if n := c.Plugins.Notification; n != nil && n.AppsFile == "" {
		return errors.New("plugins.timeline_plugin_notification.apps_file must be set")
	}
	return nil
}
