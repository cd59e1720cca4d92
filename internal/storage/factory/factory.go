// Package factory opens the storage backend selected by configuration.
package factory

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/supplysight/internal/config"
	"github.com/fairyhunter13/supplysight/internal/storage"
	"github.com/fairyhunter13/supplysight/internal/storage/file"
	"github.com/fairyhunter13/supplysight/internal/storage/memory"
	"github.com/fairyhunter13/supplysight/internal/storage/postgres"
	"github.com/fairyhunter13/supplysight/internal/storage/redis"
	"github.com/fairyhunter13/supplysight/internal/storage/s3"
	"github.com/fairyhunter13/supplysight/internal/storage/sqlite"
)

// Open constructs the backend named by cfg.DataDriver.
func Open(ctx context.Context, cfg config.Config) (storage.Backend, error) {
	switch storage.Driver(cfg.DataDriver) {
	case storage.DriverFile, "":
		return file.New(cfg.DataPath)
	case storage.DriverMemory:
		return memory.New(), nil
	case storage.DriverSQLite:
		return sqlite.New(cfg.SQLitePath)
	case storage.DriverPostgres:
		return postgres.New(ctx, cfg.PostgresDSN)
	case storage.DriverRedis:
		return redis.New(ctx, cfg.RedisURL, cfg.RedisKey)
	case storage.DriverS3:
		return s3.New(ctx, s3.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Key:       cfg.S3Key,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,

			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			SessionToken:    cfg.S3SessionToken,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.DataDriver)
	}
}
