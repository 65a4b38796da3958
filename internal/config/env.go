package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file before Load reads the environment.
// NO_DOTENV=1 disables it, ENV_FILE picks another file and
// DOTENV_OVERLOAD=1 lets the file win over variables already set.
// A missing file is not an error.
func LoadDotenv() error {
	if truthy(os.Getenv("NO_DOTENV")) {
		return nil
	}
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if truthy(os.Getenv("DOTENV_OVERLOAD")) {
		return godotenv.Overload(path)
	}
	return godotenv.Load(path)
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Location resolves the configured timezone; empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Path returns the config file path from CONFIG_PATH or the default.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}
