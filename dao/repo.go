package dao

import (
	"Lotus/pkg/database"
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repo 通用数据访问，T 为 gorm 模型
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// Conn tx 不为空时在事务内执行，否则使用连接池
func (r *Repo[T]) Conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.Db.WithContext(ctx)
}

// Model 以 T 为模型的查询构造器
func (r *Repo[T]) Model(ctx context.Context) *gorm.DB {
	return r.Db.WithContext(ctx).Model(new(T))
}

// FindById 主键查询，不存在返回 nil, nil
func (r *Repo[T]) FindById(ctx context.Context, tx *gorm.DB, id any) (*T, error) {
	var item T
	err := r.Conn(ctx, tx).Where("id = ?", id).Take(&item).Error
	return found(&item, err)
}

// FindByWhere 条件查询第一条，不存在返回 nil, nil
func (r *Repo[T]) FindByWhere(ctx context.Context, tx *gorm.DB, where string, args ...any) (*T, error) {
	var item T
	err := r.Conn(ctx, tx).Where(where, args...).Take(&item).Error
	return found(&item, err)
}

// FindCount 条件计数
func (r *Repo[T]) FindCount(ctx context.Context, where string, args ...any) (int64, error) {
	var count int64
	err := r.Model(ctx).Where(where, args...).Count(&count).Error
	return count, database.Classify("count", err)
}

// Create 插入一条记录
func (r *Repo[T]) Create(ctx context.Context, tx *gorm.DB, item *T) error {
	return database.Classify("create", r.Conn(ctx, tx).Create(item).Error)
}

func found[T any](item *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Classify("find", err)
	}
	return item, nil
}
