package database

import (
	"Lotus/config"
	"Lotus/pkg/log"
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var txTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lotus_db_transactions_total",
		Help: "Finished database transactions by outcome",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(txTotal)
}

// Manager 持有连接池，提供单语句执行与事务包装。
// 所有余额/流水的写操作都必须经过 WithTransaction。
type Manager struct {
	db        *gorm.DB
	attempts  int
	backoff   time.Duration
	txTimeout time.Duration
}

func NewManager(db *gorm.DB, conf *config.Config) *Manager {
	m := &Manager{
		db:        db,
		attempts:  conf.Database.RetryAttempts,
		backoff:   conf.Database.RetryBackoff,
		txTimeout: conf.Database.TxTimeout,
	}
	if m.attempts < 1 {
		m.attempts = 1
	}
	return m
}

// DB 返回只读查询使用的连接池句柄
func (m *Manager) DB(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx)
}

// Execute 执行一条语句并返回全部结果行
func (m *Manager) Execute(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, m.txTimeout)
	defer cancel()

	rows := make([]map[string]any, 0)
	if err := m.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, Classify("execute", err)
	}
	return rows, nil
}

// QueryOne 返回第一行，没有结果时返回 nil, nil
func (m *Manager) QueryOne(ctx context.Context, query string, args ...any) (map[string]any, error) {
	rows, err := m.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// WithTransaction 开启事务执行 fn：fn 正常返回则提交，返回错误或 panic 则回滚。
// 每次调用恰好提交一次或回滚一次。fn 返回的错误原样向上传递。
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, m.txTimeout)
	defer cancel()

	tx, err := m.begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			m.rollback(tx)
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		m.rollback(tx)
		return err
	}

	if err = tx.Commit().Error; err != nil {
		txTotal.WithLabelValues("commit_failed").Inc()
		return Classify("commit", err)
	}
	txTotal.WithLabelValues("commit").Inc()
	return nil
}

// InTx 是 WithTransaction 的泛型版本，返回 fn 的结果
func InTx[T any](ctx context.Context, m *Manager, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var result T
	err := m.WithTransaction(ctx, func(tx *gorm.DB) error {
		v, err := fn(tx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (m *Manager) begin(ctx context.Context) (*gorm.DB, error) {
	var lastErr error
	attempt := 1
	for ; attempt <= m.attempts; attempt++ {
		tx := m.db.WithContext(ctx).Begin()
		if tx.Error == nil {
			return tx, nil
		}
		lastErr = tx.Error
		if !IsConnectionErr(lastErr) || ctx.Err() != nil {
			break
		}
		log.L.Warn("begin transaction failed, retrying",
			zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt < m.attempts {
			time.Sleep(m.backoff)
		}
	}
	if !IsConnectionErr(lastErr) && ctx.Err() == nil {
		return nil, Classify("begin", lastErr)
	}
	return nil, &ConnectionError{Op: "begin", Err: fmt.Errorf("after %d attempts: %w", min(attempt, m.attempts), lastErr)}
}

func (m *Manager) rollback(tx *gorm.DB) {
	txTotal.WithLabelValues("rollback").Inc()
	if err := tx.Rollback().Error; err != nil {
		log.L.Warn("rollback transaction failed", zap.Error(err))
	}
}
