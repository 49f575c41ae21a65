package models

import "time"

// Item 物品定义（莲子、兑换券等）
type Item struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name;size:64;not null;uniqueIndex:uk_items_name" json:"name"`
	Description string    `gorm:"column:description;size:255" json:"description"`
	IconURL     string    `gorm:"column:icon_url;size:255" json:"icon_url"`
	IsUsable    bool      `gorm:"column:is_usable;not null" json:"is_usable"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Item) TableName() string {
	return "items"
}
