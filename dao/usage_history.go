package dao

import (
	"Lotus/models"
	"Lotus/pkg/database"
	"context"

	"gorm.io/gorm"
)

// UsageHistory 物品使用流水
type UsageHistory struct {
	Repo[models.UsageHistory]
}

func NewUsageHistory(db *gorm.DB) *UsageHistory {
	return &UsageHistory{Repo: NewRepo[models.UsageHistory](db)}
}

// ListByUser 分页查询，itemID 为 nil 时不过滤物品，按使用时间倒序
func (u *UsageHistory) ListByUser(ctx context.Context, userID string, itemID *uint64, limit, offset int) ([]models.UsageHistory, int64, error) {
	query := u.Db.WithContext(ctx).Model(&models.UsageHistory{}).Where("user_id = ?", userID)
	if itemID != nil {
		query = query.Where("item_id = ?", *itemID)
	}
	// Count 与 Find 复用同一组条件
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, database.Classify("count usage history", err)
	}

	var rows []models.UsageHistory
	err := query.Preload("Item").
		Order("used_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, total, database.Classify("list usage history", err)
}
