package types

import "time"

const TimeLayout = "2006-01-02 15:04:05"

// ItemInfo 物品定义
type ItemInfo struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	IsUsable    bool   `json:"is_usable"`
}

// BackpackItem 背包中的一格
type BackpackItem struct {
	ItemID      uint64 `json:"item_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	IsUsable    bool   `json:"is_usable"`
	Quantity    int64  `json:"quantity"`
	UpdatedAt   string `json:"updated_at"`
}

// BalanceResp 单个物品余额
type BalanceResp struct {
	ItemID   uint64 `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Held     bool   `json:"held"` // 是否曾经持有过该物品
}

// CreditReq 管理端人工补发
type CreditReq struct {
	UserID string `json:"user_id" binding:"required"`
	ItemID uint64 `json:"item_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// UseItemReq 使用背包物品
type UseItemReq struct {
	ItemID   uint64 `json:"item_id" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
}

type UseItemResp struct {
	ItemID    uint64 `json:"item_id"`
	Remaining int64  `json:"remaining"` // 使用后剩余数量
}

// UsageRecord 一条使用流水
type UsageRecord struct {
	ID           uint64 `json:"id"`
	ItemID       uint64 `json:"item_id"`
	ItemName     string `json:"item_name"`
	QuantityUsed int64  `json:"quantity_used"`
	UsedAt       string `json:"used_at"`
}

type ListUsageReq struct {
	ItemID *uint64 `form:"item_id"`
	Limit  int     `form:"limit,default=20"`
	Offset int     `form:"offset,default=0"`
}

type UsageHistoryPage struct {
	Entries []UsageRecord `json:"entries"`
	Total   int64         `json:"total"`
}

// CheckinStatus 今日签到状态
type CheckinStatus struct {
	CanCheckIn  bool       `json:"can_check_in"`
	LastCheckIn *time.Time `json:"last_check_in"`
	TotalDays   int64      `json:"total_days"` // 累计签到天数
}

// CheckinReward 本次签到发放的奖励
type CheckinReward struct {
	ItemID     uint64 `json:"item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int64  `json:"quantity"`
	Balance    int64  `json:"balance"` // 发放后的余额
	RecordDate string `json:"record_date"`
}

// ExchangeRuleInfo 兑换规则
type ExchangeRuleInfo struct {
	ID           uint64 `json:"id"`
	FromItemID   uint64 `json:"from_item_id"`
	FromItemName string `json:"from_item_name"`
	FromQuantity int64  `json:"from_quantity"`
	ToItemID     uint64 `json:"to_item_id"`
	ToItemName   string `json:"to_item_name"`
	ToQuantity   int64  `json:"to_quantity"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

type PerformExchangeReq struct {
	RuleID      uint64 `json:"rule_id" binding:"required"`
	Repetitions int64  `json:"repetitions"` // 兑换份数，缺省 1
}

// ExchangeResult 兑换后两端物品的余额
type ExchangeResult struct {
	RecordID        int64  `json:"record_id,string"`
	RuleID          uint64 `json:"rule_id"`
	FromItemID      uint64 `json:"from_item_id"`
	FromItemBalance int64  `json:"from_item_balance"`
	ToItemID        uint64 `json:"to_item_id"`
	ToItemBalance   int64  `json:"to_item_balance"`
	Spent           int64  `json:"spent"`
	Gained          int64  `json:"gained"`
}

type CreateExchangeRuleReq struct {
	FromItemID   uint64 `json:"from_item_id" binding:"required"`
	ToItemID     uint64 `json:"to_item_id" binding:"required"`
	FromQuantity int64  `json:"from_quantity" binding:"required,gt=0"`
	ToQuantity   int64  `json:"to_quantity" binding:"required,gt=0"`
	IsActive     *bool  `json:"is_active"` // 缺省启用
}

// UpdateExchangeRuleReq 只更新非空字段
type UpdateExchangeRuleReq struct {
	FromItemID   *uint64 `json:"from_item_id"`
	ToItemID     *uint64 `json:"to_item_id"`
	FromQuantity *int64  `json:"from_quantity"`
	ToQuantity   *int64  `json:"to_quantity"`
	IsActive     *bool   `json:"is_active"`
}

type ExchangeRecordInfo struct {
	ID           int64  `json:"id,string"`
	RuleID       uint64 `json:"rule_id"`
	FromItemID   uint64 `json:"from_item_id"`
	ToItemID     uint64 `json:"to_item_id"`
	Repetitions  int64  `json:"repetitions"`
	FromQuantity int64  `json:"from_quantity"`
	ToQuantity   int64  `json:"to_quantity"`
	CreatedAt    string `json:"created_at"`
}

type ListPageReq struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

type ExchangeRecordPage struct {
	Records []ExchangeRecordInfo `json:"records"`
	Total   int64                `json:"total"`
}
