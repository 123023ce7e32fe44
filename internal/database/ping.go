package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var errNATSDisconnected = errors.New("nats connection is not connected")

// PingPostgres checks the pool behind db.
func PingPostgres(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql pool: %w", err)
		}
		return sqlDB.PingContext(ctx)
	}
}

// PingRedis returns nil when caching is disabled.
func PingRedis(client *redis.Client) func(context.Context) error {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// PingNATS returns nil when events are disabled.
func PingNATS(conn *nats.Conn) func(context.Context) error {
	if conn == nil {
		return nil
	}
	return func(context.Context) error {
		if !conn.IsConnected() {
			return errNATSDisconnected
		}
		return nil
	}
}
