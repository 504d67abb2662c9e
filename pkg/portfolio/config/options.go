package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the repository backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithAutoMigrate toggles schema migration on startup (postgres only)
func WithAutoMigrate(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.AutoMigrate = enabled
		return nil
	}
}

// WithDefaultPhotoStore sets the default photo store name
func WithDefaultPhotoStore(name string) Option {
	return func(c *ServerConfig) error {
		if name == "" {
			return fmt.Errorf("default photo store name cannot be empty")
		}
		c.DefaultPhotoStore = name
		return nil
	}
}

// WithMemoryPhotoStore adds an in-memory photo store (for testing)
// If name is empty, defaults to "memory"
func WithMemoryPhotoStore(name string) Option {
	return func(c *ServerConfig) error {
		if name == "" {
			name = "memory"
		}

		store := PhotoStoreConfig{
			Name:   name,
			Type:   "memory",
			Config: map[string]interface{}{},
		}

		c.PhotoStores = upsertPhotoStore(c.PhotoStores, store)
		return nil
	}
}

// WithFilesystemPhotoStore adds a filesystem photo store
// If name is empty, defaults to "fs"
func WithFilesystemPhotoStore(name, baseDir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		if name == "" {
			name = "fs"
		}
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}

		store := PhotoStoreConfig{
			Name: name,
			Type: "fs",
			Config: map[string]interface{}{
				"base_dir": baseDir,
			},
		}

		if urlPrefix != "" {
			store.Config["url_prefix"] = urlPrefix
		}

		c.PhotoStores = upsertPhotoStore(c.PhotoStores, store)
		return nil
	}
}

// WithS3PhotoStore adds an S3 photo store
// If name is empty, defaults to "s3"
func WithS3PhotoStore(name, bucket, region string) Option {
	return func(c *ServerConfig) error {
		if name == "" {
			name = "s3"
		}
		if bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
		if region == "" {
			region = "us-east-1" // Default region
		}

		store := PhotoStoreConfig{
			Name: name,
			Type: "s3",
			Config: map[string]interface{}{
				"bucket": bucket,
				"region": region,
			},
		}

		c.PhotoStores = upsertPhotoStore(c.PhotoStores, store)
		return nil
	}
}

// WithS3Credentials sets AWS credentials for an S3 photo store
func WithS3Credentials(name, accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		if name == "" {
			name = "s3"
		}

		for i := range c.PhotoStores {
			if c.PhotoStores[i].Name == name && c.PhotoStores[i].Type == "s3" {
				c.PhotoStores[i].Config["access_key_id"] = accessKeyID
				c.PhotoStores[i].Config["secret_access_key"] = secretAccessKey
				return nil
			}
		}

		// Store doesn't exist yet, create it with minimal config
		store := PhotoStoreConfig{
			Name: name,
			Type: "s3",
			Config: map[string]interface{}{
				"access_key_id":     accessKeyID,
				"secret_access_key": secretAccessKey,
			},
		}
		c.PhotoStores = append(c.PhotoStores, store)
		return nil
	}
}

// WithS3Endpoint sets a custom S3 endpoint (for MinIO, LocalStack, etc.)
func WithS3Endpoint(name, endpoint string, usePathStyle bool) Option {
	return func(c *ServerConfig) error {
		if name == "" {
			name = "s3"
		}

		for i := range c.PhotoStores {
			if c.PhotoStores[i].Name == name && c.PhotoStores[i].Type == "s3" {
				c.PhotoStores[i].Config["endpoint"] = endpoint
				c.PhotoStores[i].Config["use_path_style"] = usePathStyle
				return nil
			}
		}

		store := PhotoStoreConfig{
			Name: name,
			Type: "s3",
			Config: map[string]interface{}{
				"endpoint":       endpoint,
				"use_path_style": usePathStyle,
			},
		}
		c.PhotoStores = append(c.PhotoStores, store)
		return nil
	}
}
