package dao

import (
	"Lotus/models"
	"Lotus/pkg/database"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Item struct {
	Repo[models.Item]
}

func NewItem(db *gorm.DB) *Item {
	return &Item{Repo: NewRepo[models.Item](db)}
}

// FindByName 按唯一名称查询，不存在返回 nil, nil
func (i *Item) FindByName(ctx context.Context, tx *gorm.DB, name string) (*models.Item, error) {
	return i.FindByWhere(ctx, tx, "name = ?", name)
}

// FindOrCreate 依赖 name 唯一索引：冲突时不插入，再按名称读取，并发创建同名物品也只会有一行
func (i *Item) FindOrCreate(ctx context.Context, tx *gorm.DB, item *models.Item) (*models.Item, error) {
	db := i.Conn(ctx, tx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(item).Error
	if err != nil {
		return nil, database.Classify("find or create item", err)
	}

	got, err := i.FindByName(ctx, tx, item.Name)
	if err != nil {
		return nil, err
	}
	if got == nil {
		return nil, database.Classify("find or create item", gorm.ErrRecordNotFound)
	}
	return got, nil
}

// List 全部物品，按名称排序
func (i *Item) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := i.Db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, database.Classify("list items", err)
}
