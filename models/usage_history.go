package models

import "time"

// UsageHistory 物品使用流水，只追加
type UsageHistory struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	UserID       string    `gorm:"column:user_id;size:64;not null;index:idx_usage_user_time,priority:1"`
	ItemID       uint64    `gorm:"column:item_id;not null;index:idx_usage_item"`
	QuantityUsed int64     `gorm:"column:quantity_used;not null;check:chk_usage_history_quantity,quantity_used > 0"`
	UsedAt       time.Time `gorm:"column:used_at;not null;index:idx_usage_user_time,priority:2"`

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (UsageHistory) TableName() string {
	return "usage_history"
}
