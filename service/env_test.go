package service

import (
	"Lotus/config"
	"Lotus/dao"
	"Lotus/dao/cache"
	"Lotus/models"
	"Lotus/pkg/database"
	"Lotus/pkg/database/dbtest"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, _, _ string, body []byte) error {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db     *gorm.DB
	tm     *database.Manager
	conf   *config.Config
	events *recordingPublisher

	catalog  *CatalogService
	balance  *BalanceService
	usage    *UsageService
	checkin  *CheckinService
	exchange *ExchangeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.NewDB(t)
	conf := dbtest.Config(t)
	tm := database.NewManager(db, conf)
	events := &recordingPublisher{}
	notifier := &Notifier{publisher: events, topic: conf.RocketMQ.Topic}

	itemDAO := dao.NewItem(db)
	balance := &BalanceService{
		TxManager:   tm,
		UserItemDAO: dao.NewUserItem(db),
		ItemDAO:     itemDAO,
		Notifier:    notifier,
	}
	env := &testEnv{
		db:     db,
		tm:     tm,
		conf:   conf,
		events: events,
		catalog: &CatalogService{
			TxManager: tm,
			ItemDAO:   itemDAO,
			ItemCache: cache.NewItemCache(),
		},
		balance: balance,
		usage: &UsageService{
			TxManager:       tm,
			ItemDAO:         itemDAO,
			UsageHistoryDAO: dao.NewUsageHistory(db),
			Balance:         balance,
			Notifier:        notifier,
		},
		checkin: NewCheckinService(conf, tm, dao.NewActivity(db), dao.NewActivityRecord(db), itemDAO, balance, nil, notifier),
		exchange: &ExchangeService{
			TxManager:         tm,
			ExchangeRuleDAO:   dao.NewExchangeRule(db),
			ExchangeRecordDAO: dao.NewExchangeRecord(db),
			ItemDAO:           itemDAO,
			Balance:           balance,
			Notifier:          notifier,
		},
	}
	return env
}

func (e *testEnv) item(t *testing.T, name string, usable bool) *models.Item {
	t.Helper()
	item, err := e.catalog.FindOrCreate(context.Background(), models.Item{Name: name, IsUsable: usable})
	require.NoError(t, err)
	return item
}

func (e *testEnv) give(t *testing.T, userID string, itemID uint64, amount int64) {
	t.Helper()
	_, err := e.balance.Credit(context.Background(), userID, itemID, amount)
	require.NoError(t, err)
}

// qty 未持有时返回 -1，便于区分"从未持有"和"数量为 0"
func (e *testEnv) qty(t *testing.T, userID string, itemID uint64) int64 {
	t.Helper()
	row, err := e.balance.Get(context.Background(), userID, itemID)
	require.NoError(t, err)
	if row == nil {
		return -1
	}
	return row.Quantity
}

func (e *testEnv) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

// fixedClock 可手动推进的时钟
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
