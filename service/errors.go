package service

import (
	"errors"
	"fmt"
)

// 业务错误：属于预期结果，调用方直接转成提示文案，不作为故障记录
var (
	ErrInvalidQuantity  = errors.New("数量必须大于0")
	ErrItemNotFound     = errors.New("物品不存在")
	ErrItemNotUsable    = errors.New("该物品不可使用")
	ErrAlreadyCheckedIn = errors.New("今日已签到，请明天再来")
	ErrCheckinBusy      = errors.New("签到处理中，请勿重复提交")
	ErrRuleNotFound     = errors.New("兑换规则不存在")
	ErrRuleInactive     = errors.New("兑换规则已停用")
	ErrRuleDuplicate    = errors.New("相同兑换方向的规则已存在")
	ErrRuleSameItem     = errors.New("兑换前后物品不能相同")
)

// InsufficientBalanceError 余额不足，携带物品名与缺口，便于提示"需要 X，当前 Y"
type InsufficientBalanceError struct {
	ItemID   uint64
	ItemName string
	Need     int64
	Have     int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s不足：需要 %d，当前 %d", e.ItemName, e.Need, e.Have)
}

// Shortfall 还差多少
func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Need - e.Have
}

// IsBusinessError 是否为业务规则类错误
func IsBusinessError(err error) bool {
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return true
	}
	for _, target := range []error{
		ErrInvalidQuantity, ErrItemNotFound, ErrItemNotUsable,
		ErrAlreadyCheckedIn, ErrCheckinBusy,
		ErrRuleNotFound, ErrRuleInactive, ErrRuleDuplicate, ErrRuleSameItem,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
