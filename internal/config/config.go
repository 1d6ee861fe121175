package config

import (
	"errors"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	LogLevel       string
	HTTPAddr       string
	DBType         string
	DBDSN          string
	SQLitePath     string
	DataDir        string
	ExercisesFile  string
	PushEndpoint   string
	PushServerKey  string
	APIToken       string
	AuthServiceURL string
	DefaultTitle   string
	DefaultBody    string
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the process configuration once. An optional .env file in the
// working directory is applied first; real environment variables win.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = FromEnv()
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	return &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8088"),
		DBType:         getEnv("STORAGE_BACKEND", "file"),
		DBDSN:          getEnv("POSTGRES_DSN", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/hiit.db"),
		DataDir:        getEnv("DATA_DIR", "data"),
		ExercisesFile:  getEnv("EXERCISES_FILE", ""),
		PushEndpoint:   getEnv("PUSH_ENDPOINT", ""),
		PushServerKey:  getEnv("PUSH_SERVER_KEY", ""),
		APIToken:       getEnv("API_TOKEN", "MOCK-TOKEN"),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),
		DefaultTitle:   getEnv("NOTIFY_DEFAULT_TITLE", "Sukima Fit"),
		DefaultBody:    getEnv("NOTIFY_DEFAULT_BODY", "Time to exercise! Move your body and refresh 🏃‍♀️"),
	}
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "file":
		if c.DataDir == "" {
			return errors.New("File storage requires DATA_DIR to be set")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, postgres, sqlite")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
