package models

import "time"

// UserItem 用户背包中某物品的余额，(user_id, item_id) 唯一
type UserItem struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	UserID    string    `gorm:"column:user_id;size:64;not null;uniqueIndex:uk_user_item,priority:1"`
	ItemID    uint64    `gorm:"column:item_id;not null;uniqueIndex:uk_user_item,priority:2"`
	Quantity  int64     `gorm:"column:quantity;not null;default:0;check:chk_user_items_quantity,quantity >= 0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (UserItem) TableName() string {
	return "user_items"
}
