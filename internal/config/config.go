package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	env_utils "journal-backend/internal/util/env"
	"journal-backend/internal/util/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

type EnvVariables struct {
	IsTesting   bool
	DatabaseDsn string            `env:"DATABASE_DSN" required:"true"`
	EnvMode     env_utils.EnvMode `env:"ENV_MODE"     required:"true"`

	HTTPPort string `env:"HTTP_PORT" env-default:"4005"`

	// Reports encryption. The key itself wins over the key file.
	ReportsEncryptionKey     string `env:"REPORTS_ENCRYPTION_KEY"`
	ReportsEncryptionKeyPath string `env:"REPORTS_ENCRYPTION_KEY_PATH"`

	// 0 disables write throttling during migrations
	MigrationRowsPerSecond float64 `env:"MIGRATION_ROWS_PER_SECOND" env-default:"0"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		log.Info("Trying to load .env", "path", path)
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			loaded = true
			break
		}
	}

	// variables may come from the process environment alone (containers)
	if !loaded {
		log.Warn("No .env file found, reading process environment only")
	}

	err = cleanenv.ReadEnv(&env)
	if err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if env.EnvMode == "" {
		log.Error("ENV_MODE is empty")
		os.Exit(1)
	}
	if env.EnvMode != env_utils.EnvModeDevelopment && env.EnvMode != env_utils.EnvModeProduction {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	if env.MigrationRowsPerSecond < 0 {
		log.Error("MIGRATION_ROWS_PER_SECOND must not be negative")
		os.Exit(1)
	}

	if env.ReportsEncryptionKey == "" && env.ReportsEncryptionKeyPath == "" {
		// not fatal here: the key is only needed by encrypt/decrypt paths,
		// which fail with a configuration error before touching any row
		log.Warn("Neither REPORTS_ENCRYPTION_KEY nor REPORTS_ENCRYPTION_KEY_PATH is set")
	}

	log.Info("Environment variables loaded successfully!")
}
