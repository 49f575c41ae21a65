package models

import (
	"time"

	"gorm.io/datatypes"
)

// RewardSnapshot 记录发放当时的奖励内容，配置后续修改不影响历史
type RewardSnapshot struct {
	ItemID   uint64 `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int64  `json:"quantity"`
}

// UserActivityRecord 用户参与活动的日记录。
// (user_id, activity_id, record_date) 唯一，是每日只能领取一次的幂等键。
type UserActivityRecord struct {
	ID         uint64                             `gorm:"primaryKey;column:id"`
	UserID     string                             `gorm:"column:user_id;size:64;not null;uniqueIndex:uk_user_activity_date,priority:1"`
	ActivityID uint64                             `gorm:"column:activity_id;not null;uniqueIndex:uk_user_activity_date,priority:2"`
	RecordDate datatypes.Date                     `gorm:"column:record_date;not null;uniqueIndex:uk_user_activity_date,priority:3"`
	Data       datatypes.JSONType[RewardSnapshot] `gorm:"column:data"`
	CreatedAt  time.Time                          `gorm:"column:created_at;autoCreateTime"`
}

func (UserActivityRecord) TableName() string {
	return "user_activity_records"
}

// RecordDateOf 取 t 在 loc 时区下的日历日，存成 UTC 零点。
// 驱动按 UTC 传参时就是一个纯日期，不会因进程时区被换算到前一天。
func RecordDateOf(t time.Time, loc *time.Location) datatypes.Date {
	y, m, d := t.In(loc).Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
