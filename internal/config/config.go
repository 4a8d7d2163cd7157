// Package config resolves runtime settings from an optional YAML file and
// CALDR_* environment overrides, in that order.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	StoragePath      string
	CalendarTitle    string
	AllowConflicts   bool
	AlertLeadMinutes int
	AlertBuffer      int
}

func Default() Config {
	return Config{
		StoragePath:      "caldr.db",
		CalendarTitle:    "personal",
		AllowConflicts:   false,
		AlertLeadMinutes: 15,
		AlertBuffer:      64,
	}
}

// Load reads the YAML file at path when given, otherwise looks for
// caldr.yaml in the working directory. A missing discovered file is fine;
// an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("storage_path", cfg.StoragePath)
	v.SetDefault("calendar_title", cfg.CalendarTitle)
	v.SetDefault("allow_conflicts", cfg.AllowConflicts)
	v.SetDefault("alert_lead_minutes", cfg.AlertLeadMinutes)
	v.SetDefault("alert_buffer", cfg.AlertBuffer)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName("caldr")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, err
			}
		}
	}

	cfg.StoragePath = v.GetString("storage_path")
	cfg.CalendarTitle = v.GetString("calendar_title")
	cfg.AllowConflicts = v.GetBool("allow_conflicts")
	cfg.AlertLeadMinutes = v.GetInt("alert_lead_minutes")
	cfg.AlertBuffer = v.GetInt("alert_buffer")

	return FromEnv(cfg), nil
}

// FromEnv applies CALDR_* overrides on top of the base config. Unparsable
// values are ignored.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("CALDR_STORAGE_PATH")); v != "" {
		cfg.StoragePath = v
	}
	if v := strings.TrimSpace(os.Getenv("CALDR_CALENDAR_TITLE")); v != "" {
		cfg.CalendarTitle = v
	}
	if v, ok := getEnvBool("CALDR_ALLOW_CONFLICTS"); ok {
		cfg.AllowConflicts = v
	}
	if v, ok := getEnvInt("CALDR_ALERT_LEAD_MINUTES"); ok && v >= 0 {
		cfg.AlertLeadMinutes = v
	}
	if v, ok := getEnvInt("CALDR_ALERT_BUFFER"); ok && v > 0 {
		cfg.AlertBuffer = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
