package service

import (
	"Lotus/config"
	"Lotus/pkg/log"
	"Lotus/pkg/rocketmq"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// 领域事件类型
const (
	EventCheckin  = "checkin"
	EventExchange = "exchange"
	EventUseItem  = "use_item"
	EventCredit   = "credit"
)

// EventPublisher 消息发送抽象，rocketmq.Producer 实现了它
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, body []byte) error
}

var _ EventPublisher = (*rocketmq.Producer)(nil)

type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Notifier 在事务提交后发送领域事件。发送失败只记日志，不影响已提交的结果。
type Notifier struct {
	publisher EventPublisher
	topic     string
}

func NewNotifier(p *rocketmq.Producer, conf *config.Config) *Notifier {
	return &Notifier{publisher: p, topic: conf.RocketMQ.Topic}
}

func (n *Notifier) Emit(ctx context.Context, typ, userID string, payload any) {
	if n == nil || n.publisher == nil {
		return
	}
	body, err := json.Marshal(Event{
		Type:       typ,
		UserID:     userID,
		OccurredAt: time.Now(),
		Payload:    payload,
	})
	if err != nil {
		log.L.Warn("marshal event", zap.String("type", typ), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := n.publisher.Publish(ctx, n.topic, userID, body); err != nil {
		log.L.Warn("publish event",
			zap.String("type", typ),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
