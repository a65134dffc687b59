package schema

import (
	"fmt"

	"github.com/snowflakedb/gosnowflake"
	"github.com/spf13/viper"
)

// Profile describes a connection to a postgresql, mysql or duckdb database.
type Profile struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Schema   string `mapstructure:"schema"`
	SSLMode  string `mapstructure:"sslmode"`
	// Path is the database file for duckdb; empty means in-memory.
	Path string `mapstructure:"path"`
}

// DatabricksProfile holds SQL warehouse connection settings.
type DatabricksProfile struct {
	Host     string `mapstructure:"host" validate:"required"`
	Token    string `mapstructure:"token" validate:"required"`
	HTTPPath string `mapstructure:"http_path" validate:"required"`
	Catalog  string `mapstructure:"catalog"`
	Schema   string `mapstructure:"schema"`
}

func readProfile(profilePath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return v, nil
}

func LoadProfile(profilePath string) (*Profile, error) {
	v, err := readProfile(profilePath)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &p, nil
}

func LoadDatabricksProfile(profilePath string) (*DatabricksProfile, error) {
	v, err := readProfile(profilePath)
	if err != nil {
		return nil, err
	}

	var p DatabricksProfile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("failed to parse databricks profile: %w", err)
	}
	return &p, nil
}

func LoadSnowflakeConfig(profilePath string) (*gosnowflake.Config, error) {
	v, err := readProfile(profilePath)
	if err != nil {
		return nil, err
	}

	var cfg gosnowflake.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse snowflake profile: %w", err)
	}
	return &cfg, nil
}
