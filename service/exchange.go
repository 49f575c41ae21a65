package service

import (
	"Lotus/dao"
	"Lotus/models"
	"Lotus/pkg/database"
	"Lotus/pkg/snowflake"
	"Lotus/types"
	"context"
	"errors"
	"math"

	"gorm.io/gorm"
)

// ExchangeService 兑换规则维护与执行
type ExchangeService struct {
	TxManager         *database.Manager
	ExchangeRuleDAO   *dao.ExchangeRule
	ExchangeRecordDAO *dao.ExchangeRecord
	ItemDAO           *dao.Item
	Balance           *BalanceService
	Notifier          *Notifier
}

var _ IExchangeService = (*ExchangeService)(nil)

type IExchangeService interface {
	ListActive(ctx context.Context) ([]types.ExchangeRuleInfo, error)
	ListAll(ctx context.Context) ([]types.ExchangeRuleInfo, error)
	GetByID(ctx context.Context, id uint64) (*types.ExchangeRuleInfo, error)
	Perform(ctx context.Context, userID string, ruleID uint64, repetitions int64) (*types.ExchangeResult, error)
	Records(ctx context.Context, userID string, limit, offset int) (*types.ExchangeRecordPage, error)

	// 管理端
	Create(ctx context.Context, req *types.CreateExchangeRuleReq) (*types.ExchangeRuleInfo, error)
	Update(ctx context.Context, id uint64, req *types.UpdateExchangeRuleReq) (*types.ExchangeRuleInfo, error)
	Delete(ctx context.Context, id uint64) error
}

func (s *ExchangeService) ListActive(ctx context.Context) ([]types.ExchangeRuleInfo, error) {
	return s.list(ctx, true)
}

func (s *ExchangeService) ListAll(ctx context.Context) ([]types.ExchangeRuleInfo, error) {
	return s.list(ctx, false)
}

func (s *ExchangeService) GetByID(ctx context.Context, id uint64) (*types.ExchangeRuleInfo, error) {
	rule, err := s.ExchangeRuleDAO.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	info := toRuleInfo(rule)
	return &info, nil
}

// Perform 按规则兑换 repetitions 份：同一事务内扣减 from 物品、增加 to 物品并记流水。
// 任一步失败整体回滚，不会出现只扣不加。
func (s *ExchangeService) Perform(ctx context.Context, userID string, ruleID uint64, repetitions int64) (result *types.ExchangeResult, err error) {
	defer func() { observe("exchange", userID, err) }()

	if repetitions < 1 {
		return nil, ErrInvalidQuantity
	}

	result, err = database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (*types.ExchangeResult, error) {
		rule, err := s.ExchangeRuleDAO.Get(ctx, tx, ruleID)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			return nil, ErrRuleNotFound
		}
		if !rule.IsActive {
			return nil, ErrRuleInactive
		}
		if rule.FromItem == nil || rule.ToItem == nil {
			return nil, ErrItemNotFound
		}

		required, ok := mulQuantity(rule.FromQuantity, repetitions)
		if !ok {
			return nil, ErrInvalidQuantity
		}
		reward, ok := mulQuantity(rule.ToQuantity, repetitions)
		if !ok {
			return nil, ErrInvalidQuantity
		}

		fromBalance, err := s.Balance.DebitTx(ctx, tx, userID, rule.FromItem, required)
		if err != nil {
			return nil, err
		}
		toBalance, err := s.Balance.CreditTx(ctx, tx, userID, rule.ToItemID, reward)
		if err != nil {
			return nil, err
		}
		// 同物品规则先扣后加，两端余额都以最后一次写入为准
		if rule.FromItemID == rule.ToItemID {
			fromBalance = toBalance
		}

		record := &models.ExchangeRecord{
			ID:           snowflake.GenID(),
			UserID:       userID,
			RuleID:       rule.ID,
			FromItemID:   rule.FromItemID,
			ToItemID:     rule.ToItemID,
			Repetitions:  repetitions,
			FromQuantity: required,
			ToQuantity:   reward,
		}
		if err := s.ExchangeRecordDAO.Create(ctx, tx, record); err != nil {
			return nil, err
		}

		return &types.ExchangeResult{
			RecordID:        record.ID,
			RuleID:          rule.ID,
			FromItemID:      rule.FromItemID,
			FromItemBalance: fromBalance,
			ToItemID:        rule.ToItemID,
			ToItemBalance:   toBalance,
			Spent:           required,
			Gained:          reward,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Emit(ctx, EventExchange, userID, result)
	return result, nil
}

// Records 用户兑换流水
func (s *ExchangeService) Records(ctx context.Context, userID string, limit, offset int) (*types.ExchangeRecordPage, error) {
	limit, offset = normalizePage(limit, offset)
	rows, total, err := s.ExchangeRecordDAO.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	page := &types.ExchangeRecordPage{
		Records: make([]types.ExchangeRecordInfo, 0, len(rows)),
		Total:   total,
	}
	for _, row := range rows {
		page.Records = append(page.Records, types.ExchangeRecordInfo{
			ID:           row.ID,
			RuleID:       row.RuleID,
			FromItemID:   row.FromItemID,
			ToItemID:     row.ToItemID,
			Repetitions:  row.Repetitions,
			FromQuantity: row.FromQuantity,
			ToQuantity:   row.ToQuantity,
			CreatedAt:    row.CreatedAt.Format(types.TimeLayout),
		})
	}
	return page, nil
}

// Create 新建规则：数量为正、两端物品存在且不同、同方向规则不重复
func (s *ExchangeService) Create(ctx context.Context, req *types.CreateExchangeRuleReq) (*types.ExchangeRuleInfo, error) {
	rule := &models.ExchangeRule{
		FromItemID:   req.FromItemID,
		ToItemID:     req.ToItemID,
		FromQuantity: req.FromQuantity,
		ToQuantity:   req.ToQuantity,
		IsActive:     true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	return database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (*types.ExchangeRuleInfo, error) {
		if err := s.validateRule(ctx, tx, rule, true); err != nil {
			return nil, err
		}
		err := s.ExchangeRuleDAO.Create(ctx, tx, rule)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRuleDuplicate
		}
		if err != nil {
			return nil, err
		}
		return s.reload(ctx, tx, rule.ID)
	})
}

// Update 只修改请求中给出的字段，校验合并后的规则
func (s *ExchangeService) Update(ctx context.Context, id uint64, req *types.UpdateExchangeRuleReq) (*types.ExchangeRuleInfo, error) {
	return database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (*types.ExchangeRuleInfo, error) {
		rule, err := s.ExchangeRuleDAO.Get(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			return nil, ErrRuleNotFound
		}
		fromID, toID := rule.FromItemID, rule.ToItemID

		if req.FromItemID != nil {
			rule.FromItemID = *req.FromItemID
		}
		if req.ToItemID != nil {
			rule.ToItemID = *req.ToItemID
		}
		if req.FromQuantity != nil {
			rule.FromQuantity = *req.FromQuantity
		}
		if req.ToQuantity != nil {
			rule.ToQuantity = *req.ToQuantity
		}
		if req.IsActive != nil {
			rule.IsActive = *req.IsActive
		}
		rule.FromItem, rule.ToItem = nil, nil
		// 物品未变时允许修改历史上的同物品规则，例如停用
		itemsChanged := rule.FromItemID != fromID || rule.ToItemID != toID

		if err := s.validateRule(ctx, tx, rule, itemsChanged); err != nil {
			return nil, err
		}
		err = s.ExchangeRuleDAO.Save(ctx, tx, rule)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRuleDuplicate
		}
		if err != nil {
			return nil, err
		}
		return s.reload(ctx, tx, rule.ID)
	})
}

func (s *ExchangeService) Delete(ctx context.Context, id uint64) error {
	return s.TxManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		affected, err := s.ExchangeRuleDAO.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrRuleNotFound
		}
		return nil
	})
}

func (s *ExchangeService) validateRule(ctx context.Context, tx *gorm.DB, rule *models.ExchangeRule, checkSameItem bool) error {
	if rule.FromQuantity <= 0 || rule.ToQuantity <= 0 {
		return ErrInvalidQuantity
	}
	if checkSameItem && rule.FromItemID == rule.ToItemID {
		return ErrRuleSameItem
	}
	for _, itemID := range []uint64{rule.FromItemID, rule.ToItemID} {
		item, err := s.ItemDAO.FindById(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrItemNotFound
		}
	}

	dup, err := s.ExchangeRuleDAO.FindByPair(ctx, tx, rule.FromItemID, rule.ToItemID)
	if err != nil {
		return err
	}
	if dup != nil && dup.ID != rule.ID {
		return ErrRuleDuplicate
	}
	return nil
}

func (s *ExchangeService) reload(ctx context.Context, tx *gorm.DB, id uint64) (*types.ExchangeRuleInfo, error) {
	rule, err := s.ExchangeRuleDAO.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	info := toRuleInfo(rule)
	return &info, nil
}

func (s *ExchangeService) list(ctx context.Context, activeOnly bool) ([]types.ExchangeRuleInfo, error) {
	rules, err := s.ExchangeRuleDAO.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	resp := make([]types.ExchangeRuleInfo, 0, len(rules))
	for i := range rules {
		resp = append(resp, toRuleInfo(&rules[i]))
	}
	return resp, nil
}

func toRuleInfo(rule *models.ExchangeRule) types.ExchangeRuleInfo {
	info := types.ExchangeRuleInfo{
		ID:           rule.ID,
		FromItemID:   rule.FromItemID,
		FromQuantity: rule.FromQuantity,
		ToItemID:     rule.ToItemID,
		ToQuantity:   rule.ToQuantity,
		IsActive:     rule.IsActive,
		CreatedAt:    rule.CreatedAt.Format(types.TimeLayout),
	}
	if rule.FromItem != nil {
		info.FromItemName = rule.FromItem.Name
	}
	if rule.ToItem != nil {
		info.ToItemName = rule.ToItem.Name
	}
	return info
}

// mulQuantity 单份数量乘以份数，溢出时返回 false
func mulQuantity(per, repetitions int64) (int64, bool) {
	if per <= 0 || repetitions <= 0 {
		return 0, false
	}
	if repetitions > math.MaxInt64/per {
		return 0, false
	}
	return per * repetitions, true
}
