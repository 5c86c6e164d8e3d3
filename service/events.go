package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"BookHive/models"
	"BookHive/pkg/log"
	"BookHive/pkg/mq"

	"github.com/google/uuid"
)

const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"
	EventOrderClosed  = "order.closed" // 取消与超时都算关闭
)

// OrderEvent 订单生命周期事件，下游（物流、统计）自行消费
type OrderEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	OccurredAt int64  `json:"occurred_at"`
	OrderID    int64  `json:"order_id"`
	OrderSn    string `json:"order_sn"`
	UserID     int64  `json:"user_id"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason,omitempty"`
}

// publishOrderEvent 状态迁移事件用确定性ID，重复迁移不会产生新事件；
// 创建事件天然只有一次，用随机ID即可。
func publishOrderEvent(ctx context.Context, producer *mq.Producer, eventType string, order *models.Order, reason string) {
	if producer == nil {
		return
	}

	eventID := uuid.NewString()
	if eventType != EventOrderCreated {
		eventID = fmt.Sprintf("%d-%s", order.ID, eventType)
	}

	evt := OrderEvent{
		EventID:    eventID,
		Type:       eventType,
		OccurredAt: time.Now().Unix(),
		OrderID:    order.ID,
		OrderSn:    order.OrderSn,
		UserID:     order.UserID,
		Amount:     order.TotalAmount,
		Reason:     reason,
	}
	body, err := json.Marshal(evt)
	if err != nil {
		log.L.Warn("marshal order event failed")
		return
	}
	producer.Publish(ctx, eventType, eventID, body)
}
