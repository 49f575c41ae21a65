package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 活动类型
const (
	ActivityTypeCheckin = "checkin" // 每日签到
)

// Activity 活动配置。Config 的结构由 Type 决定，写库前按类型校验。
type Activity struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	Name      string         `gorm:"column:name;size:64;not null"`
	Type      string         `gorm:"column:type;size:32;not null;index:idx_activity_type"`
	Config    datatypes.JSON `gorm:"column:config"`
	IsActive  bool           `gorm:"column:is_active;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (Activity) TableName() string {
	return "activities"
}

// CheckinConfig 签到活动配置：每次签到奖励的物品与数量
type CheckinConfig struct {
	RewardItemID   uint64 `json:"reward_item_id"`
	RewardQuantity int64  `json:"reward_quantity"`
}

func (c CheckinConfig) Validate() error {
	if c.RewardItemID == 0 {
		return errors.New("checkin config: reward_item_id is required")
	}
	if c.RewardQuantity <= 0 {
		return errors.New("checkin config: reward_quantity must be positive")
	}
	return nil
}

// NewCheckinActivity 构造一个已校验配置的签到活动
func NewCheckinActivity(name string, cfg CheckinConfig) (*Activity, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return &Activity{
		Name:     name,
		Type:     ActivityTypeCheckin,
		Config:   datatypes.JSON(raw),
		IsActive: true,
	}, nil
}

// CheckinConfig 按签到类型解析配置
func (a *Activity) CheckinConfig() (CheckinConfig, error) {
	var cfg CheckinConfig
	if a.Type != ActivityTypeCheckin {
		return cfg, fmt.Errorf("activity %d is %q, not %q", a.ID, a.Type, ActivityTypeCheckin)
	}
	if err := json.Unmarshal(a.Config, &cfg); err != nil {
		return cfg, fmt.Errorf("activity %d: decode checkin config: %w", a.ID, err)
	}
	return cfg, cfg.Validate()
}

func (a *Activity) BeforeSave(*gorm.DB) error {
	switch a.Type {
	case ActivityTypeCheckin:
		_, err := a.CheckinConfig()
		return err
	default:
		return fmt.Errorf("unknown activity type %q", a.Type)
	}
}
