package service

import (
	"Lotus/dao"
	"Lotus/models"
	"Lotus/pkg/database"
	"Lotus/types"
	"context"

	"gorm.io/gorm"
)

// BalanceService 用户物品余额账本。
// 写操作都在事务内完成；*Tx 方法供其他服务在自己的事务中组合调用。
type BalanceService struct {
	TxManager   *database.Manager
	UserItemDAO *dao.UserItem
	ItemDAO     *dao.Item
	Notifier    *Notifier
}

var _ IBalanceService = (*BalanceService)(nil)

type IBalanceService interface {
	Get(ctx context.Context, userID string, itemID uint64) (*models.UserItem, error)
	GetBalance(ctx context.Context, userID string, itemID uint64) (*types.BalanceResp, error)
	List(ctx context.Context, userID string) ([]types.BackpackItem, error)
	Credit(ctx context.Context, userID string, itemID uint64, amount int64) (int64, error)
	Debit(ctx context.Context, userID string, itemID uint64, amount int64) (int64, error)
}

// Get 从未持有过该物品时返回 nil, nil
func (s *BalanceService) Get(ctx context.Context, userID string, itemID uint64) (*models.UserItem, error) {
	return s.UserItemDAO.Get(ctx, nil, userID, itemID)
}

func (s *BalanceService) GetBalance(ctx context.Context, userID string, itemID uint64) (*types.BalanceResp, error) {
	row, err := s.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	resp := &types.BalanceResp{ItemID: itemID}
	if row != nil {
		resp.Quantity = row.Quantity
		resp.Held = true
	}
	return resp, nil
}

// List 背包：数量大于 0 的物品，按名称排序
func (s *BalanceService) List(ctx context.Context, userID string) ([]types.BackpackItem, error) {
	rows, err := s.UserItemDAO.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]types.BackpackItem, 0, len(rows))
	for _, row := range rows {
		bi := types.BackpackItem{
			ItemID:    row.ItemID,
			Quantity:  row.Quantity,
			UpdatedAt: row.UpdatedAt.Format(types.TimeLayout),
		}
		if row.Item != nil {
			bi.Name = row.Item.Name
			bi.Description = row.Item.Description
			bi.IconURL = row.Item.IconURL
			bi.IsUsable = row.Item.IsUsable
		}
		resp = append(resp, bi)
	}
	return resp, nil
}

// Credit 增加余额，返回变动后的数量
func (s *BalanceService) Credit(ctx context.Context, userID string, itemID uint64, amount int64) (qty int64, err error) {
	defer func() { observe("credit", userID, err) }()

	qty, err = database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (int64, error) {
		if _, err := s.requireItem(ctx, tx, itemID); err != nil {
			return 0, err
		}
		return s.CreditTx(ctx, tx, userID, itemID, amount)
	})
	if err != nil {
		return 0, err
	}
	s.Notifier.Emit(ctx, EventCredit, userID, map[string]any{"item_id": itemID, "amount": amount, "balance": qty})
	return qty, nil
}

// Debit 扣减余额，返回变动后的数量
func (s *BalanceService) Debit(ctx context.Context, userID string, itemID uint64, amount int64) (qty int64, err error) {
	defer func() { observe("debit", userID, err) }()

	return database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (int64, error) {
		item, err := s.requireItem(ctx, tx, itemID)
		if err != nil {
			return 0, err
		}
		return s.DebitTx(ctx, tx, userID, item, amount)
	})
}

// CreditTx 在调用方事务内 upsert 增加余额
func (s *BalanceService) CreditTx(ctx context.Context, tx *gorm.DB, userID string, itemID uint64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidQuantity
	}
	return s.UserItemDAO.Increment(ctx, tx, userID, itemID, amount)
}

// DebitTx 在调用方事务内扣减余额。
// 先加行锁读取并校验余额，再带条件扣减；并发扣减同一行时后到的事务会等待前者结束后重新读取。
func (s *BalanceService) DebitTx(ctx context.Context, tx *gorm.DB, userID string, item *models.Item, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidQuantity
	}
	row, err := s.UserItemDAO.GetForUpdate(ctx, tx, userID, item.ID)
	if err != nil {
		return 0, err
	}
	var have int64
	if row != nil {
		have = row.Quantity
	}
	if have < amount {
		return 0, &InsufficientBalanceError{ItemID: item.ID, ItemName: item.Name, Need: amount, Have: have}
	}

	affected, err := s.UserItemDAO.Decrement(ctx, tx, userID, item.ID, amount)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, &InsufficientBalanceError{ItemID: item.ID, ItemName: item.Name, Need: amount, Have: have}
	}
	return have - amount, nil
}

func (s *BalanceService) requireItem(ctx context.Context, tx *gorm.DB, itemID uint64) (*models.Item, error) {
	item, err := s.ItemDAO.FindById(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}
