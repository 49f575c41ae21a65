package dao

import (
	"Lotus/models"
	"Lotus/pkg/database"
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Activity struct {
	Repo[models.Activity]
}

func NewActivity(db *gorm.DB) *Activity {
	return &Activity{Repo: NewRepo[models.Activity](db)}
}

// FindActiveByType 取该类型下最早创建的启用活动，没有返回 nil, nil
func (a *Activity) FindActiveByType(ctx context.Context, tx *gorm.DB, typ string) (*models.Activity, error) {
	var act models.Activity
	err := a.Conn(ctx, tx).
		Where("type = ? AND is_active = ?", typ, true).
		Order("id ASC").
		Take(&act).Error
	return found(&act, err)
}

// ActivityRecord 用户活动日记录
type ActivityRecord struct {
	Repo[models.UserActivityRecord]
}

func NewActivityRecord(db *gorm.DB) *ActivityRecord {
	return &ActivityRecord{Repo: NewRepo[models.UserActivityRecord](db)}
}

// FindByDate 查询某天的记录，没有返回 nil, nil
func (a *ActivityRecord) FindByDate(ctx context.Context, tx *gorm.DB, userID string, activityID uint64, date datatypes.Date) (*models.UserActivityRecord, error) {
	return a.FindByWhere(ctx, tx, "user_id = ? AND activity_id = ? AND record_date = ?", userID, activityID, date)
}

// Latest 最近一次记录，没有返回 nil, nil
func (a *ActivityRecord) Latest(ctx context.Context, userID string, activityID uint64) (*models.UserActivityRecord, error) {
	var rec models.UserActivityRecord
	err := a.Db.WithContext(ctx).
		Where("user_id = ? AND activity_id = ?", userID, activityID).
		Order("record_date DESC").
		Take(&rec).Error
	return found(&rec, err)
}

// CountByUser 用户累计参与天数
func (a *ActivityRecord) CountByUser(ctx context.Context, userID string, activityID uint64) (int64, error) {
	return a.FindCount(ctx, "user_id = ? AND activity_id = ?", userID, activityID)
}

// Insert 写入记录，唯一索引冲突时返回的错误可用 errors.Is(err, gorm.ErrDuplicatedKey) 判断
func (a *ActivityRecord) Insert(ctx context.Context, tx *gorm.DB, rec *models.UserActivityRecord) error {
	return database.Classify("insert activity record", a.Conn(ctx, tx).Create(rec).Error)
}
