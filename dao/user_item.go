package dao

import (
	"Lotus/models"
	"Lotus/pkg/database"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserItem 用户物品余额表
type UserItem struct {
	Repo[models.UserItem]
}

func NewUserItem(db *gorm.DB) *UserItem {
	return &UserItem{Repo: NewRepo[models.UserItem](db)}
}

// Get 查询余额行，从未持有过返回 nil, nil
func (u *UserItem) Get(ctx context.Context, tx *gorm.DB, userID string, itemID uint64) (*models.UserItem, error) {
	return u.FindByWhere(ctx, tx, "user_id = ? AND item_id = ?", userID, itemID)
}

// GetForUpdate 在事务中加行锁读取余额（SELECT ... FOR UPDATE）
func (u *UserItem) GetForUpdate(ctx context.Context, tx *gorm.DB, userID string, itemID uint64) (*models.UserItem, error) {
	var row models.UserItem
	err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Take(&row).Error
	return found(&row, err)
}

// Increment upsert：已有行 quantity += amount，没有则插入，返回变动后的数量
func (u *UserItem) Increment(ctx context.Context, tx *gorm.DB, userID string, itemID uint64, amount int64) (int64, error) {
	db := u.Conn(ctx, tx)
	now := time.Now()
	row := &models.UserItem{
		UserID:    userID,
		ItemID:    itemID,
		Quantity:  amount,
		UpdatedAt: now,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			// gorm.Expr 在数据库侧做加法，并发下不会覆盖
			"quantity":   gorm.Expr("user_items.quantity + ?", amount),
			"updated_at": now,
		}),
	}).Create(row).Error
	if err != nil {
		return 0, database.Classify("increment user item", err)
	}
	return u.quantity(ctx, tx, userID, itemID)
}

// Decrement 仅当余额充足时扣减，返回受影响行数；0 表示余额不足或行不存在
func (u *UserItem) Decrement(ctx context.Context, tx *gorm.DB, userID string, itemID uint64, amount int64) (int64, error) {
	result := u.Conn(ctx, tx).Model(&models.UserItem{}).
		Where("user_id = ? AND item_id = ? AND quantity >= ?", userID, itemID, amount).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, database.Classify("decrement user item", result.Error)
}

// List 用户持有数量大于 0 的物品，按物品名称排序
func (u *UserItem) List(ctx context.Context, userID string) ([]models.UserItem, error) {
	var rows []models.UserItem
	err := u.Db.WithContext(ctx).
		Joins("Item").
		Where("user_items.user_id = ? AND user_items.quantity > 0", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "Item", Name: "name"}}).
		Find(&rows).Error
	return rows, database.Classify("list user items", err)
}

func (u *UserItem) quantity(ctx context.Context, tx *gorm.DB, userID string, itemID uint64) (int64, error) {
	var row models.UserItem
	err := u.Conn(ctx, tx).Select("quantity").
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Take(&row).Error
	return row.Quantity, database.Classify("read user item quantity", err)
}
