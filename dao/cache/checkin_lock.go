package cache

import (
	"Lotus/config"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 仅当 value 与持有者一致时才删除，避免误删他人加的锁
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckinLock 同一用户签到请求的短时互斥锁，拦截连点。
// 只做削峰，每日唯一性由数据库唯一索引保证；未配置 redis 时不加锁。
type CheckinLock struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCheckinLock(rds *redis.Client, conf *config.Config) *CheckinLock {
	return &CheckinLock{redis: rds, ttl: conf.Economy.CheckinLockTTL}
}

// TryLock 返回是否拿到锁以及释放时需要的 token
// @params uid 用户ID
func (c *CheckinLock) TryLock(ctx context.Context, uid string) (bool, string, error) {
	if c == nil || c.redis == nil {
		return true, "", nil
	}
	token := uuid.NewString()
	ok, err := c.redis.SetNX(ctx, c.name(uid), token, c.ttl).Result()
	if err != nil {
		return false, "", err
	}
	return ok, token, nil
}

// Unlock 释放 TryLock 拿到的锁
func (c *CheckinLock) Unlock(ctx context.Context, uid, token string) error {
	if c == nil || c.redis == nil || token == "" {
		return nil
	}
	return unlockScript.Run(ctx, c.redis, []string{c.name(uid)}, token).Err()
}

func (c *CheckinLock) name(uid string) string {
	return fmt.Sprintf("lotus:checkin:lock:%s", uid)
}
