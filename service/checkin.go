package service

import (
	"Lotus/config"
	"Lotus/dao"
	"Lotus/dao/cache"
	"Lotus/models"
	"Lotus/pkg/database"
	"Lotus/pkg/log"
	"Lotus/types"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CheckinService 每日签到。
// 每个 (用户, 活动, 自然日) 只能领取一次：事务内先查当天记录，
// 再由 user_activity_records 的唯一索引兜底。
type CheckinService struct {
	Config      *config.Config
	TxManager   *database.Manager
	ActivityDAO *dao.Activity
	RecordDAO   *dao.ActivityRecord
	ItemDAO     *dao.Item
	Balance     *BalanceService
	Lock        *cache.CheckinLock
	Notifier    *Notifier
	Now         func() time.Time
	location    *time.Location
}

var _ ICheckinService = (*CheckinService)(nil)

type ICheckinService interface {
	Status(ctx context.Context, userID string) (*types.CheckinStatus, error)
	CheckIn(ctx context.Context, userID string) (*types.CheckinReward, error)
	EnsureActivity(ctx context.Context) (*models.Activity, error)
}

func NewCheckinService(
	conf *config.Config,
	txManager *database.Manager,
	activityDAO *dao.Activity,
	recordDAO *dao.ActivityRecord,
	itemDAO *dao.Item,
	balance *BalanceService,
	lock *cache.CheckinLock,
	notifier *Notifier,
) *CheckinService {
	return &CheckinService{
		Config:      conf,
		TxManager:   txManager,
		ActivityDAO: activityDAO,
		RecordDAO:   recordDAO,
		ItemDAO:     itemDAO,
		Balance:     balance,
		Lock:        lock,
		Notifier:    notifier,
		Now:         time.Now,
		location:    conf.Economy.Location(),
	}
}

// Today 按配置时区计算的自然日，时区只用于确定是哪一天
func (s *CheckinService) Today() datatypes.Date {
	return models.RecordDateOf(s.Now(), s.location)
}

// Status 今天是否还能签到。尚未配置签到活动时视为可以签到，首次签到会自动创建。
func (s *CheckinService) Status(ctx context.Context, userID string) (*types.CheckinStatus, error) {
	act, err := s.ActivityDAO.FindActiveByType(ctx, nil, models.ActivityTypeCheckin)
	if err != nil {
		return nil, err
	}
	status := &types.CheckinStatus{CanCheckIn: true}
	if act == nil {
		return status, nil
	}

	today, err := s.RecordDAO.FindByDate(ctx, nil, userID, act.ID, s.Today())
	if err != nil {
		return nil, err
	}
	status.CanCheckIn = today == nil

	latest, err := s.RecordDAO.Latest(ctx, userID, act.ID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		at := latest.CreatedAt
		status.LastCheckIn = &at
	}

	status.TotalDays, err = s.RecordDAO.CountByUser(ctx, userID, act.ID)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// CheckIn 领取今日签到奖励
func (s *CheckinService) CheckIn(ctx context.Context, userID string) (reward *types.CheckinReward, err error) {
	defer func() { observe("checkin", userID, err) }()

	locked, token, err := s.Lock.TryLock(ctx, userID)
	if err != nil {
		// redis 不可用时退化为只依赖数据库
		log.L.Warn("checkin lock unavailable", zap.String("user_id", userID), zap.Error(err))
		locked = true
	}
	if !locked {
		return nil, ErrCheckinBusy
	}
	defer func() {
		if err := s.Lock.Unlock(context.WithoutCancel(ctx), userID, token); err != nil {
			log.L.Warn("release checkin lock", zap.String("user_id", userID), zap.Error(err))
		}
	}()

	today := s.Today()
	reward, err = database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (*types.CheckinReward, error) {
		act, err := s.resolveActivity(ctx, tx)
		if err != nil {
			return nil, err
		}

		existing, err := s.RecordDAO.FindByDate(ctx, tx, userID, act.ID, today)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrAlreadyCheckedIn
		}

		item, quantity, err := s.resolveReward(ctx, tx, act)
		if err != nil {
			return nil, err
		}

		balance, err := s.Balance.CreditTx(ctx, tx, userID, item.ID, quantity)
		if err != nil {
			return nil, err
		}

		snapshot := models.RewardSnapshot{ItemID: item.ID, ItemName: item.Name, Quantity: quantity}
		err = s.RecordDAO.Insert(ctx, tx, &models.UserActivityRecord{
			UserID:     userID,
			ActivityID: act.ID,
			RecordDate: today,
			Data:       datatypes.NewJSONType(snapshot),
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCheckedIn
		}
		if err != nil {
			return nil, err
		}

		return &types.CheckinReward{
			ItemID:     item.ID,
			ItemName:   item.Name,
			Quantity:   quantity,
			Balance:    balance,
			RecordDate: time.Time(today).Format("2006-01-02"),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Emit(ctx, EventCheckin, userID, reward)
	return reward, nil
}

// EnsureActivity 确保存在启用的签到活动，供 seed 命令预先初始化
func (s *CheckinService) EnsureActivity(ctx context.Context) (*models.Activity, error) {
	return database.InTx(ctx, s.TxManager, func(tx *gorm.DB) (*models.Activity, error) {
		return s.resolveActivity(ctx, tx)
	})
}

func (s *CheckinService) resolveActivity(ctx context.Context, tx *gorm.DB) (*models.Activity, error) {
	act, err := s.ActivityDAO.FindActiveByType(ctx, tx, models.ActivityTypeCheckin)
	if err != nil || act != nil {
		return act, err
	}

	item, err := s.defaultRewardItem(ctx, tx)
	if err != nil {
		return nil, err
	}
	act, err = models.NewCheckinActivity(s.Config.Economy.CheckinActivityName, models.CheckinConfig{
		RewardItemID:   item.ID,
		RewardQuantity: int64(s.Config.Economy.RewardQuantity),
	})
	if err != nil {
		return nil, err
	}
	if err := s.ActivityDAO.Create(ctx, tx, act); err != nil {
		return nil, err
	}
	log.L.Info("seeded default checkin activity",
		zap.Uint64("activity_id", act.ID),
		zap.String("reward_item", item.Name))
	return act, nil
}

// resolveReward 读取活动配置的奖励；配置的物品已不存在时改发默认奖励物品
func (s *CheckinService) resolveReward(ctx context.Context, tx *gorm.DB, act *models.Activity) (*models.Item, int64, error) {
	cfg, err := act.CheckinConfig()
	if err != nil {
		return nil, 0, err
	}
	item, err := s.ItemDAO.FindById(ctx, tx, cfg.RewardItemID)
	if err != nil {
		return nil, 0, err
	}
	if item == nil {
		log.L.Warn("checkin reward item missing, falling back to default",
			zap.Uint64("activity_id", act.ID),
			zap.Uint64("reward_item_id", cfg.RewardItemID))
		if item, err = s.defaultRewardItem(ctx, tx); err != nil {
			return nil, 0, err
		}
	}
	return item, cfg.RewardQuantity, nil
}

func (s *CheckinService) defaultRewardItem(ctx context.Context, tx *gorm.DB) (*models.Item, error) {
	return s.ItemDAO.FindOrCreate(ctx, tx, &models.Item{
		Name:        s.Config.Economy.RewardItemName,
		Description: "每日签到获得，可用于兑换其他物品",
		IsUsable:    false,
	})
}
