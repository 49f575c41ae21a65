package dao

import (
	"Lotus/models"
	"Lotus/pkg/database"
	"context"

	"gorm.io/gorm"
)

// ExchangeRule 兑换规则
type ExchangeRule struct {
	Repo[models.ExchangeRule]
}

func NewExchangeRule(db *gorm.DB) *ExchangeRule {
	return &ExchangeRule{Repo: NewRepo[models.ExchangeRule](db)}
}

// Get 带出两端物品信息，不存在返回 nil, nil
func (e *ExchangeRule) Get(ctx context.Context, tx *gorm.DB, id uint64) (*models.ExchangeRule, error) {
	var rule models.ExchangeRule
	err := e.Conn(ctx, tx).
		Preload("FromItem").Preload("ToItem").
		Where("id = ?", id).
		Take(&rule).Error
	return found(&rule, err)
}

// List activeOnly 为 true 时只返回启用的规则
func (e *ExchangeRule) List(ctx context.Context, activeOnly bool) ([]models.ExchangeRule, error) {
	query := e.Db.WithContext(ctx).Preload("FromItem").Preload("ToItem")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rules []models.ExchangeRule
	err := query.Order("id ASC").Find(&rules).Error
	return rules, database.Classify("list exchange rules", err)
}

// FindByPair 按兑换方向查询，没有返回 nil, nil
func (e *ExchangeRule) FindByPair(ctx context.Context, tx *gorm.DB, fromItemID, toItemID uint64) (*models.ExchangeRule, error) {
	return e.FindByWhere(ctx, tx, "from_item_id = ? AND to_item_id = ?", fromItemID, toItemID)
}

// Save 全量更新
func (e *ExchangeRule) Save(ctx context.Context, tx *gorm.DB, rule *models.ExchangeRule) error {
	err := e.Conn(ctx, tx).Omit("FromItem", "ToItem").Save(rule).Error
	return database.Classify("save exchange rule", err)
}

// Delete 返回受影响行数
func (e *ExchangeRule) Delete(ctx context.Context, tx *gorm.DB, id uint64) (int64, error) {
	result := e.Conn(ctx, tx).Where("id = ?", id).Delete(&models.ExchangeRule{})
	return result.RowsAffected, database.Classify("delete exchange rule", result.Error)
}

// ExchangeRecord 兑换流水
type ExchangeRecord struct {
	Repo[models.ExchangeRecord]
}

func NewExchangeRecord(db *gorm.DB) *ExchangeRecord {
	return &ExchangeRecord{Repo: NewRepo[models.ExchangeRecord](db)}
}

// ListByUser 分页查询用户兑换流水，新的在前
func (e *ExchangeRecord) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.ExchangeRecord, int64, error) {
	query := e.Db.WithContext(ctx).Model(&models.ExchangeRecord{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, database.Classify("count exchange records", err)
	}
	var rows []models.ExchangeRecord
	err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, database.Classify("list exchange records", err)
}
