package rocketmq

import (
	"Lotus/config"
	"Lotus/pkg/log"
	"context"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// Producer 领域事件发送者。未配置 nameserver 时为空实现，Publish 直接返回。
type Producer struct {
	producer rocketmq.Producer
}

func NewProducer(cfg *config.RocketMQConfig) (*Producer, func(), error) {
	if cfg == nil || len(cfg.NameServer) == 0 {
		log.L.Info("rocketmq nameserver not configured, events disabled")
		return &Producer{}, func() {}, nil
	}

	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(cfg.Producer.Retry),
	)
	if err != nil {
		return nil, nil, err
	}
	if err = p.Start(); err != nil {
		return nil, nil, err
	}
	log.L.Info("init producer success", zap.Strings("nameserver", cfg.NameServer))

	cleanup := func() {
		if err := p.Shutdown(); err != nil {
			log.L.Warn("shutdown producer", zap.Error(err))
		}
	}
	return &Producer{producer: p}, cleanup, nil
}

// Publish 同步发送一条消息
func (p *Producer) Publish(ctx context.Context, topic, key string, body []byte) error {
	if p == nil || p.producer == nil {
		return nil
	}
	msg := primitive.NewMessage(topic, body)
	msg.WithKeys([]string{key})

	res, err := p.producer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("topic", topic), zap.String("msg_id", res.MsgID))
	return nil
}
