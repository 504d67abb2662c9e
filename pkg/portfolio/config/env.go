package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// envSpec is the flat environment mapping read with cleanenv.
type envSpec struct {
	Port        string `env:"PORT"`
	Environment string `env:"ENVIRONMENT"`

	// DATABASE_URL selects the repository:
	//   "" or "memory"      - in-memory repository
	//   "postgresql://..."  - PostgreSQL repository
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate string `env:"AUTO_MIGRATE"`

	// STORAGE_URL selects the photo store:
	//   "memory://"              - in-memory store (default)
	//   "file:///path/to/photos" - filesystem store
	//   "s3://bucket"            - S3 store (credentials from AWS_* vars)
	StorageURL string `env:"STORAGE_URL"`

	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `env:"AWS_REGION"`
	S3Endpoint         string `env:"S3_ENDPOINT"`
}

// WithEnv applies environment variable overrides on top of the defaults.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envSpec
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}

		if env.Port != "" {
			c.Port = env.Port
		}
		if env.Environment != "" {
			c.Environment = env.Environment
		}
		if env.AutoMigrate != "" {
			v, err := strconv.ParseBool(env.AutoMigrate)
			if err != nil {
				return fmt.Errorf("invalid boolean for AUTO_MIGRATE: %w", err)
			}
			c.AutoMigrate = v
		}

		if err := applyDatabaseEnv(env, c); err != nil {
			return err
		}

		return applyStorageEnv(env, c)
	}
}

func applyDatabaseEnv(env envSpec, c *ServerConfig) error {
	switch {
	case env.DatabaseURL == "" || env.DatabaseURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(env.DatabaseURL, "postgresql://"),
		strings.HasPrefix(env.DatabaseURL, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = env.DatabaseURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", env.DatabaseURL)
	}
	return nil
}

func applyStorageEnv(env envSpec, c *ServerConfig) error {
	url := env.StorageURL

	switch {
	case url == "" || url == "memory" || url == "memory://":
		c.DefaultPhotoStore = "memory"
		c.PhotoStores = upsertPhotoStore(c.PhotoStores, PhotoStoreConfig{
			Name:   "memory",
			Type:   "memory",
			Config: map[string]interface{}{},
		})
		return nil

	case strings.HasPrefix(url, "file://"):
		path := strings.TrimPrefix(url, "file://")
		if path == "" {
			return fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		c.DefaultPhotoStore = "fs"
		c.PhotoStores = upsertPhotoStore(c.PhotoStores, PhotoStoreConfig{
			Name: "fs",
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir": path,
			},
		})
		return nil

	case strings.HasPrefix(url, "s3://"):
		bucket := strings.TrimPrefix(url, "s3://")
		if idx := strings.IndexByte(bucket, '?'); idx >= 0 {
			bucket = bucket[:idx]
		}
		if bucket == "" {
			return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
		}

		cfg := map[string]interface{}{
			"bucket": bucket,
			"region": "us-east-1",
		}
		if env.AWSAccessKeyID != "" {
			cfg["access_key_id"] = env.AWSAccessKeyID
		}
		if env.AWSSecretAccessKey != "" {
			cfg["secret_access_key"] = env.AWSSecretAccessKey
		}
		if env.AWSRegion != "" {
			cfg["region"] = env.AWSRegion
		}
		if env.S3Endpoint != "" {
			cfg["endpoint"] = env.S3Endpoint
			cfg["use_path_style"] = true
		}

		c.DefaultPhotoStore = "s3"
		c.PhotoStores = upsertPhotoStore(c.PhotoStores, PhotoStoreConfig{
			Name:   "s3",
			Type:   "s3",
			Config: cfg,
		})
		return nil
	}

	return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", url)
}

func upsertPhotoStore(stores []PhotoStoreConfig, store PhotoStoreConfig) []PhotoStoreConfig {
	if store.Config == nil {
		store.Config = map[string]interface{}{}
	}
	for i := range stores {
		if stores[i].Name == store.Name {
			stores[i] = store
			return stores
		}
	}
	return append(stores, store)
}
