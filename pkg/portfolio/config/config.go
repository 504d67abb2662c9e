package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/knearme/portfolio-service/pkg/portfolio"
	"github.com/knearme/portfolio-service/pkg/portfolio/repo/memory"
	repopg "github.com/knearme/portfolio-service/pkg/portfolio/repo/postgres"
	fsstorage "github.com/knearme/portfolio-service/pkg/portfolio/storage/fs"
	memorystorage "github.com/knearme/portfolio-service/pkg/portfolio/storage/memory"
	s3storage "github.com/knearme/portfolio-service/pkg/portfolio/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:              "8080",
		Environment:       "development",
		DatabaseType:      "memory",
		AutoMigrate:       true,
		DefaultPhotoStore: "memory",
		PhotoStores: []PhotoStoreConfig{
			{
				Name:   "memory",
				Type:   "memory",
				Config: map[string]interface{}{},
			},
		},
	}
}

// ServerConfig represents server configuration for the portfolio service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	AutoMigrate  bool   // apply schema migrations on startup (postgres only)

	// Photo storage configuration
	DefaultPhotoStore string
	PhotoStores       []PhotoStoreConfig
}

// PhotoStoreConfig represents configuration for a photo storage backend
type PhotoStoreConfig struct {
	Name   string
	Type   string // "memory", "fs", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	found := false
	for _, store := range c.PhotoStores {
		if store.Name == c.DefaultPhotoStore {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("default photo store '%s' not found in configured stores", c.DefaultPhotoStore)
	}

	return nil
}

// BuildService creates a Service instance from the server configuration.
// The returned cleanup function releases the database pool when set.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (portfolio.Service, func(), error) {
	var options []portfolio.Option

	repo, cleanup, err := c.buildRepository(ctx, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}
	options = append(options, portfolio.WithRepository(repo))

	for _, storeConfig := range c.PhotoStores {
		store, err := c.buildPhotoStore(storeConfig)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to build photo store %s: %w", storeConfig.Name, err)
		}
		options = append(options, portfolio.WithPhotoStore(storeConfig.Name, store))
	}
	options = append(options, portfolio.WithDefaultPhotoStore(c.DefaultPhotoStore))

	svc, err := portfolio.New(options...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return svc, cleanup, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context, logger *slog.Logger) (portfolio.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		pool, err := repopg.Connect(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if c.AutoMigrate {
			if err := repopg.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		return repopg.NewWithPool(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildPhotoStore creates a PhotoStore based on the backend configuration
func (c *ServerConfig) buildPhotoStore(config PhotoStoreConfig) (portfolio.PhotoStore, error) {
	switch config.Type {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		fsConfig := fsstorage.Config{
			BaseDir:   getString(config.Config, "base_dir", "./data/photos"),
			URLPrefix: getString(config.Config, "url_prefix", ""),
		}
		return fsstorage.New(fsConfig)

	case "s3":
		s3Config := s3storage.Config{
			Region:                 getString(config.Config, "region", "us-east-1"),
			Bucket:                 getString(config.Config, "bucket", ""),
			AccessKeyID:            getString(config.Config, "access_key_id", ""),
			SecretAccessKey:        getString(config.Config, "secret_access_key", ""),
			Endpoint:               getString(config.Config, "endpoint", ""),
			UsePathStyle:           getBool(config.Config, "use_path_style", false),
			PresignDuration:        getInt(config.Config, "presign_duration", 3600),
			EnableSSE:              getBool(config.Config, "enable_sse", false),
			SSEAlgorithm:           getString(config.Config, "sse_algorithm", "AES256"),
			SSEKMSKeyID:            getString(config.Config, "sse_kms_key_id", ""),
			CreateBucketIfNotExist: getBool(config.Config, "create_bucket_if_not_exist", false),
		}
		return s3storage.New(s3Config)

	default:
		return nil, fmt.Errorf("unsupported photo store type: %s", config.Type)
	}
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
		if str, ok := value.(string); ok {
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		}
	}
	return defaultValue
}

func getInt(config map[string]interface{}, key string, defaultValue int) int {
	if value, exists := config[key]; exists {
		if i, ok := value.(int); ok {
			return i
		}
		if str, ok := value.(string); ok {
			if i, err := strconv.Atoi(str); err == nil {
				return i
			}
		}
		if f, ok := value.(float64); ok {
			return int(f)
		}
	}
	return defaultValue
}
