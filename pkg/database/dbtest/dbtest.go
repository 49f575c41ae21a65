// Package dbtest 为测试提供独立的 SQLite 库。
package dbtest

import (
	"Lotus/config"
	"Lotus/pkg/database"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 返回带缺省值的配置，数据库重试间隔缩短到测试可接受的范围
func Config(t testing.TB) *config.Config {
	t.Helper()
	conf, err := config.Parse([]byte("economy:\n  timezone: Asia/Shanghai\n"))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	conf.Database.RetryBackoff = 0
	return conf
}

// NewDB 每个测试一个临时目录下的库文件，单连接使事务串行执行。
// 事务超时时 database/sql 会丢弃连接，用文件库保证重连后数据仍在。
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "lotus.db") + "?_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewManager 组合 NewDB 与 Config
func NewManager(t testing.TB) (*database.Manager, *gorm.DB) {
	t.Helper()
	db := NewDB(t)
	return database.NewManager(db, Config(t)), db
}
