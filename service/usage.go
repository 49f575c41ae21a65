package service

import (
	"Lotus/dao"
	"Lotus/models"
	"Lotus/pkg/database"
	"Lotus/types"
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// UsageService 背包物品使用与使用流水
type UsageService struct {
	TxManager       *database.Manager
	ItemDAO         *dao.Item
	UsageHistoryDAO *dao.UsageHistory
	Balance         *BalanceService
	Notifier        *Notifier
}

var _ IUsageService = (*UsageService)(nil)

type IUsageService interface {
	UseItem(ctx context.Context, userID string, itemID uint64, quantity int64) (*types.UseItemResp, error)
	History(ctx context.Context, userID string, limit, offset int, itemID *uint64) (*types.UsageHistoryPage, error)
}

// UseItem 同一事务内：校验物品可用、扣减余额、写使用流水。返回剩余数量。
func (s *UsageService) UseItem(ctx context.Context, userID string, itemID uint64, quantity int64) (resp *types.UseItemResp, err error) {
	defer func() { observe("use_item", userID, err) }()

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	remaining, err := database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (int64, error) {
		item, err := s.ItemDAO.FindById(ctx, tx, itemID)
		if err != nil {
			return 0, err
		}
		if item == nil {
			return 0, ErrItemNotFound
		}
		if !item.IsUsable {
			return 0, ErrItemNotUsable
		}

		left, err := s.Balance.DebitTx(ctx, tx, userID, item, quantity)
		if err != nil {
			return 0, err
		}

		record := &models.UsageHistory{
			UserID:       userID,
			ItemID:       itemID,
			QuantityUsed: quantity,
			UsedAt:       time.Now(),
		}
		if err := s.UsageHistoryDAO.Create(ctx, tx, record); err != nil {
			return 0, err
		}
		return left, nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Emit(ctx, EventUseItem, userID, map[string]any{"item_id": itemID, "quantity": quantity, "remaining": remaining})
	return &types.UseItemResp{ItemID: itemID, Remaining: remaining}, nil
}

// History 使用流水分页，最近的在前；itemID 为 nil 时返回全部物品
func (s *UsageService) History(ctx context.Context, userID string, limit, offset int, itemID *uint64) (*types.UsageHistoryPage, error) {
	limit, offset = normalizePage(limit, offset)

	rows, total, err := s.UsageHistoryDAO.ListByUser(ctx, userID, itemID, limit, offset)
	if err != nil {
		return nil, err
	}

	page := &types.UsageHistoryPage{
		Entries: make([]types.UsageRecord, 0, len(rows)),
		Total:   total,
	}
	for _, row := range rows {
		rec := types.UsageRecord{
			ID:           row.ID,
			ItemID:       row.ItemID,
			QuantityUsed: row.QuantityUsed,
			UsedAt:       row.UsedAt.Format(types.TimeLayout),
		}
		if row.Item != nil {
			rec.ItemName = row.Item.Name
		}
		page.Entries = append(page.Entries, rec)
	}
	return page, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
