package mq

import (
	"context"

	"BookHive/config"
	"BookHive/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// Producer 订单事件生产者。未启用时为 nil，所有方法对 nil 安全，
// 事件发布失败只告警不阻塞主流程。
type Producer struct {
	topic string
	p     rocketmq.Producer
}

func NewProducer(mc *config.RocketMQConfig) *Producer {
	if mc == nil || !mc.Enable {
		return nil
	}

	p, err := rocketmq.NewProducer(
		producer.WithNameServer(mc.NameServer),
		producer.WithGroupName(mc.Group),
		producer.WithRetry(2),
	)
	if err != nil {
		log.L.Error("init rocketmq producer failed", zap.Error(err))
		return nil
	}
	if err := p.Start(); err != nil {
		log.L.Error("start rocketmq producer failed", zap.Error(err))
		return nil
	}
	log.L.Info("init rocketmq producer success")

	return &Producer{topic: mc.Topic, p: p}
}

// Publish 按 tag 投递一条事件，key 用于幂等追踪
func (p *Producer) Publish(ctx context.Context, tag, key string, body []byte) {
	if p == nil || p.p == nil {
		return
	}
	msg := primitive.NewMessage(p.topic, body)
	msg.WithTag(tag)
	msg.WithKeys([]string{key})

	res, err := p.p.SendSync(ctx, msg)
	if err != nil {
		log.L.Warn("publish event failed", zap.String("tag", tag), zap.String("key", key), zap.Error(err))
		return
	}
	log.L.Info("event published", zap.String("tag", tag), zap.String("msg_id", res.MsgID))
}

func (p *Producer) Shutdown() {
	if p == nil || p.p == nil {
		return
	}
	if err := p.p.Shutdown(); err != nil {
		log.L.Warn("shutdown rocketmq producer", zap.Error(err))
	}
}
