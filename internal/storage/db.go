package storage

import (
	"context"
	"time"

	"skillswap/backend/internal/models"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens PostgreSQL, retrying while the database container is still starting.
func Connect(dsn string) (*gorm.DB, error) {
	var gdb *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err == nil {
			sqlDB, err2 := gdb.DB()
			if err2 == nil {
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetMaxOpenConns(20)
				sqlDB.SetConnMaxLifetime(time.Hour)
				return gdb, nil
			}
			err = err2
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("postgres not ready")
		time.Sleep(time.Duration(500+i*200) * time.Millisecond)
	}
	return nil, errors.Wrap(err, "storage.Connect")
}

// Migrate creates or updates every table the service owns.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Review{},
		&models.Swap{},
		&models.Message{},
		&models.Notification{},
	)
}

// ConnectRedis returns nil when addr is empty; the unread cache is then disabled.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "storage.ConnectRedis")
	}
	return rdb, nil
}
