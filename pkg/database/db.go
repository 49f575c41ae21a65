package database

import (
	"Lotus/config"
	"Lotus/models"
	"Lotus/pkg/log"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接池，建连失败按配置重试
func NewDB(conf *config.Config) (*gorm.DB, error) {
	dbConf := conf.Database

	var dialector gorm.Dialector
	switch dbConf.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(dbConf.Dsn())
	case config.DriverPostgres:
		dialector = postgres.Open(dbConf.Dsn())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConf.Driver)
	}

	gormConf := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
	if conf.Debug() {
		gormConf.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)
	for attempt := 1; attempt <= dbConf.RetryAttempts; attempt++ {
		db, err = gorm.Open(dialector, gormConf)
		if err == nil {
			break
		}
		log.L.Warn("connect database failed",
			zap.Int("attempt", attempt),
			zap.String("driver", dbConf.Driver),
			zap.Error(err))
		time.Sleep(dbConf.RetryBackoff)
	}
	if err != nil {
		return nil, &ConnectionError{Op: "open", Err: err}
	}

	if err := Configure(db, dbConf); err != nil {
		return nil, err
	}
	log.L.Info("connect database success", zap.String("driver", dbConf.Driver))
	return db, nil
}

// Configure 设置连接池上限与连接寿命
func Configure(db *gorm.DB, dbConf *config.Database) error {
	sqlDB, err := db.DB()
	if err != nil {
		return Classify("pool", err)
	}
	sqlDB.SetMaxOpenConns(dbConf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbConf.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(dbConf.ConnMaxLifetime)
	return nil
}

// Migrate 自动建表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return Classify("migrate", err)
	}
	return nil
}
