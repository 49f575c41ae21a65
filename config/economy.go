package config

import "time"

// Economy 虚拟经济相关配置
type Economy struct {
	// Timezone 决定"每日"签到的日界线
	Timezone string `json:"timezone" yaml:"timezone"`
	// 首次签到时自动创建的默认签到活动与奖励物品
	CheckinActivityName string `json:"checkin_activity_name" yaml:"checkin_activity_name"`
	RewardItemName      string `json:"reward_item_name" yaml:"reward_item_name"`
	RewardQuantity      int    `json:"reward_quantity" yaml:"reward_quantity"`
	// CheckinLockTTL 签到防重复点击锁的过期时间
	CheckinLockTTL time.Duration `json:"checkin_lock_ttl" yaml:"checkin_lock_ttl"`
}

func (e *Economy) applyDefaults() {
	if e.Timezone == "" {
		e.Timezone = "Asia/Shanghai"
	}
	if e.CheckinActivityName == "" {
		e.CheckinActivityName = "每日签到"
	}
	if e.RewardItemName == "" {
		e.RewardItemName = "莲子"
	}
	if e.RewardQuantity <= 0 {
		e.RewardQuantity = 10
	}
	if e.CheckinLockTTL == 0 {
		e.CheckinLockTTL = 5 * time.Second
	}
}

// Location 解析失败时退回 UTC+8
func (e *Economy) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}
