package config

import (
	"fmt"
	"time"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Database 关系型数据库配置
type Database struct {
	Driver   string `json:"driver" yaml:"driver"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	Charset  string `json:"charset" yaml:"charset"`
	Timezone string `json:"timezone" yaml:"timezone"`

	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	// ConnectTimeout 建连/取连接超时
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
	// TxTimeout 单个事务（含其中所有语句）的最长执行时间
	TxTimeout     time.Duration `json:"tx_timeout" yaml:"tx_timeout"`
	RetryAttempts int           `json:"retry_attempts" yaml:"retry_attempts"`
	RetryBackoff  time.Duration `json:"retry_backoff" yaml:"retry_backoff"`
}

func (d *Database) applyDefaults() {
	if d.Driver == "" {
		d.Driver = DriverMySQL
	}
	if d.Charset == "" {
		d.Charset = "utf8mb4"
	}
	if d.Timezone == "" {
		d.Timezone = "Asia/Shanghai"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 20
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 5
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
	if d.ConnectTimeout == 0 {
		d.ConnectTimeout = 5 * time.Second
	}
	if d.TxTimeout == 0 {
		d.TxTimeout = 10 * time.Second
	}
	if d.RetryAttempts == 0 {
		d.RetryAttempts = 3
	}
	if d.RetryBackoff == 0 {
		d.RetryBackoff = 200 * time.Millisecond
	}
}

// Dsn 按驱动拼接连接串。MySQL 固定 loc=UTC，与记录日期的 UTC 零点约定一致。
func (d *Database) Dsn() string {
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s connect_timeout=%d",
			d.Host, d.Username, d.Password, d.Database, d.Port, d.Timezone, int(d.ConnectTimeout.Seconds()))
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC&timeout=%s",
			d.Username, d.Password, d.Host, d.Port, d.Database, d.Charset, d.ConnectTimeout)
	}
}
