package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"BookHive/dao"
	"BookHive/dao/cache"
	"BookHive/models"
	"BookHive/pkg/log"
	"BookHive/pkg/mq"
	"BookHive/pkg/snowflake"
	"BookHive/types"

	"github.com/redis/go-redis/v9"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentGateway 支付网关口径，核心只认"下单"和"查单"两件事；
// 验签在 handler 边界由网关的 NotifyHandler 完成。
type PaymentGateway interface {
	Prepay(ctx context.Context, orderSn, description string, amount int64, openid string) (*jsapi.PrepayWithRequestPaymentResponse, error)
}

type PayService struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Gateway    PaymentGateway
	OrderDao   *dao.Order
	PaymentDao *dao.Payment
	CartDao    *dao.Cart
	StockDao   *dao.Stockpile
	Producer   *mq.Producer
}

var _ IPayService = (*PayService)(nil)

type IPayService interface {
	InitiatePayment(ctx context.Context, userID int64, openid string, req *types.PrepayRequest) (*types.PrepayResponse, error)
	ProcessPaymentNotify(ctx context.Context, transaction *payments.Transaction) error
}

// InitiatePayment 仅 PENDING 订单可发起支付。
// 流水先落库再调微信预下单，prepay_id 回填到流水，整体一个事务。
func (s *PayService) InitiatePayment(ctx context.Context, userID int64, openid string, req *types.PrepayRequest) (*types.PrepayResponse, error) {
	order, err := s.OrderDao.GetByID(ctx, s.DB, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOwnershipViolation
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrInvalidStateTransition
	}

	description := req.Description
	if description == "" {
		description = "BookHive 图书订单 " + order.OrderSn
	}

	var payParams interface{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := &models.Payment{
			ID:      snowflake.GenPaymentID(),
			OrderID: order.ID,
			Amount:  order.TotalAmount,
			Status:  models.PaymentStatusPending,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		resp, err := s.Gateway.Prepay(ctx, order.OrderSn, description, order.TotalAmount, openid)
		if err != nil {
			return err
		}

		if resp.PrepayId != nil {
			if err := s.PaymentDao.UpdateByID(ctx, tx, payment.ID, map[string]interface{}{
				"prepay_id": *resp.PrepayId,
			}); err != nil {
				return err
			}
		}
		payParams = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &types.PrepayResponse{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		PayMethod:   "wechat_jsapi",
		PayParams:   payParams,
	}, nil
}

// ProcessPaymentNotify 支付结果对账。进入这里的报文已通过验签。
// 平台至少投递一次、可能重复投递：应用与否只由订单状态 CAS 决定，
// 重复通知和超时回收竞争都会在 CAS 上输掉，变成无副作用的重放。
func (s *PayService) ProcessPaymentNotify(ctx context.Context, transaction *payments.Transaction) error {
	if transaction == nil || transaction.OutTradeNo == nil || transaction.TradeState == nil {
		return errors.New("回调报文不完整")
	}

	order, err := s.OrderDao.GetByOrderSn(ctx, s.DB, *transaction.OutTradeNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	success := *transaction.TradeState == "SUCCESS"

	// 金额校验：对不上按异常信号处理，不改任何状态
	if success {
		if transaction.Amount == nil || transaction.Amount.Total == nil ||
			*transaction.Amount.Total != order.TotalAmount {
			return ErrAmountMismatch
		}
	}

	// 幂等快路径：已离开 PENDING 的订单直接按处理过返回
	if order.Status != models.OrderStatusPending {
		return nil
	}

	var bookIDs []int64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先做状态 CAS，输了说明别人已处理，整个事务不再落任何变更
		if success {
			now := time.Now()
			err = s.OrderDao.TransitStatus(ctx, tx, order.ID,
				models.OrderStatusPending, models.OrderStatusPaid,
				map[string]interface{}{"paid_at": &now})
		} else {
			err = s.OrderDao.TransitStatus(ctx, tx, order.ID,
				models.OrderStatusPending, models.OrderStatusCancelled, nil)
		}
		if err != nil {
			return err
		}

		items, err := s.OrderDao.FindItems(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.BookID == nil {
				continue
			}
			if success {
				// 预占转为永久扣减
				if err := s.StockDao.Commit(ctx, tx, *it.BookID, it.Quantity); err != nil {
					return err
				}
			} else {
				if err := s.StockDao.Release(ctx, tx, *it.BookID, it.Quantity); err != nil {
					return err
				}
			}
			bookIDs = append(bookIDs, *it.BookID)
		}

		itemStatus := models.OrderItemStatusPaid
		if !success {
			itemStatus = models.OrderItemStatusCancelled
		}
		if err := s.OrderDao.UpdateItemsStatus(ctx, tx, order.ID, itemStatus); err != nil {
			return err
		}

		if err := s.recordPaymentResult(ctx, tx, order.ID, success, transaction); err != nil {
			return err
		}

		if success {
			return s.CartDao.MarkCompleted(ctx, tx, order.ID)
		}
		return s.CartDao.MarkRestored(ctx, tx, order.ID)
	})
	if err != nil {
		// CAS 输掉等价于重复通知，对支付平台回成功避免无意义重试
		if errors.Is(err, dao.ErrOrderStatusChanged) {
			log.L.Info("payment notify lost the race, skip",
				zap.Int64("order_id", order.ID), zap.String("trade_state", *transaction.TradeState))
			return nil
		}
		return err
	}

	cache.DelStock(ctx, s.Redis, bookIDs...)
	if success {
		publishOrderEvent(ctx, s.Producer, EventOrderPaid, order, "")
	} else {
		publishOrderEvent(ctx, s.Producer, EventOrderClosed, order, "pay_failed")
	}
	return nil
}

// recordPaymentResult 回写最新一笔流水；极端情况下（回调先于发起支付）
// 没有流水就补一条终态流水存档。
func (s *PayService) recordPaymentResult(ctx context.Context, tx *gorm.DB, orderID int64, success bool, transaction *payments.Transaction) error {
	status := models.PaymentStatusSuccess
	if !success {
		status = models.PaymentStatusFailed
	}

	var tradeNo string
	if transaction.TransactionId != nil {
		tradeNo = *transaction.TransactionId
	}
	completedAt := time.Now()
	if transaction.SuccessTime != nil {
		if t, err := time.Parse(time.RFC3339, *transaction.SuccessTime); err == nil {
			completedAt = t
		}
	}
	raw, _ := json.Marshal(transaction)

	payment, err := s.PaymentDao.GetLatestByOrderID(ctx, tx, orderID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		var amount int64
		if transaction.Amount != nil && transaction.Amount.Total != nil {
			amount = *transaction.Amount.Total
		}
		return tx.WithContext(ctx).Create(&models.Payment{
			ID:          snowflake.GenPaymentID(),
			OrderID:     orderID,
			Amount:      amount,
			Status:      status,
			TradeNo:     tradeNo,
			NotifyRaw:   raw,
			CompletedAt: &completedAt,
		}).Error
	}

	return s.PaymentDao.UpdateByID(ctx, tx, payment.ID, map[string]interface{}{
		"status":       status,
		"trade_no":     tradeNo,
		"notify_raw":   raw,
		"completed_at": &completedAt,
	})
}
