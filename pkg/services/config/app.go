package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "REPORT_ATLAS"

type Poll struct {
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	Multiplier   float64       `mapstructure:"multiplier"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type App struct {
	APIURL      string `mapstructure:"api_url"`
	MediaURL    string `mapstructure:"media_url"`
	Profile     string `mapstructure:"profile"`
	SessionFile string `mapstructure:"session_file"`
	DraftsDB    string `mapstructure:"drafts_db"`
	LogLevel    string `mapstructure:"log_level"`
	Poll        Poll   `mapstructure:"poll"`
	Server      Server `mapstructure:"server"`
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("api_url", "http://127.0.0.1:8000/api")
	v.SetDefault("media_url", "http://127.0.0.1:8000")
	v.SetDefault("profile", "DEFAULT")
	v.SetDefault("session_file", filepath.Join(home, ".report-atlas", "session.ini"))
	v.SetDefault("drafts_db", filepath.Join(home, ".report-atlas", "drafts.db"))
	v.SetDefault("log_level", "info")
	v.SetDefault("poll.initial_delay", time.Second)
	v.SetDefault("poll.max_delay", 8*time.Second)
	v.SetDefault("poll.multiplier", 2.0)
	v.SetDefault("poll.max_attempts", 20)
	v.SetDefault("poll.timeout", 2*time.Minute)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
}

// LoadApp reads the application config. An empty path looks for
// $HOME/.report-atlas.yaml and tolerates its absence; environment variables
// prefixed with REPORT_ATLAS_ override file values.
func LoadApp(path string) (*App, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".report-atlas")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	app.APIURL = strings.TrimRight(app.APIURL, "/")
	app.MediaURL = strings.TrimRight(app.MediaURL, "/")
	return &app, nil
}
