package models

import "time"

// ExchangeRule 兑换规则：FromQuantity 个 FromItem 换 ToQuantity 个 ToItem
type ExchangeRule struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	FromItemID   uint64    `gorm:"column:from_item_id;not null;uniqueIndex:uk_exchange_pair,priority:1"`
	ToItemID     uint64    `gorm:"column:to_item_id;not null;uniqueIndex:uk_exchange_pair,priority:2"`
	FromQuantity int64     `gorm:"column:from_quantity;not null;check:chk_exchange_rules_from_qty,from_quantity > 0"`
	ToQuantity   int64     `gorm:"column:to_quantity;not null;check:chk_exchange_rules_to_qty,to_quantity > 0"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`

	FromItem *Item `gorm:"foreignKey:FromItemID"`
	ToItem   *Item `gorm:"foreignKey:ToItemID"`
}

func (ExchangeRule) TableName() string {
	return "exchange_rules"
}

// ExchangeRecord 兑换流水，ID 由 snowflake 生成
type ExchangeRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	UserID       string    `gorm:"column:user_id;size:64;not null;index:idx_exchange_user,priority:1"`
	RuleID       uint64    `gorm:"column:rule_id;not null"`
	FromItemID   uint64    `gorm:"column:from_item_id;not null"`
	ToItemID     uint64    `gorm:"column:to_item_id;not null"`
	Repetitions  int64     `gorm:"column:repetitions;not null"`
	FromQuantity int64     `gorm:"column:from_quantity;not null"` // 本次共扣除
	ToQuantity   int64     `gorm:"column:to_quantity;not null"`   // 本次共获得
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index:idx_exchange_user,priority:2"`
}

func (ExchangeRecord) TableName() string {
	return "exchange_records"
}
