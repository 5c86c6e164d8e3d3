package service

import (
	"context"
	"errors"
	"time"

	"BookHive/config"
	"BookHive/dao"
	"BookHive/dao/cache"
	"BookHive/models"
	"BookHive/pkg/log"
	"BookHive/pkg/mq"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExpireSweeper 定时回收超时未支付订单。
// 跟支付回调在同一个状态 CAS 上竞争：谁先把订单迁出 PENDING 谁赢，
// 输的一方本轮对该订单不做任何事。
type ExpireSweeper struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Conf       *config.OrderConfig
	OrderDao   *dao.Order
	PaymentDao *dao.Payment
	CartDao    *dao.Cart
	StockDao   *dao.Stockpile
	Producer   *mq.Producer
}

// Start 进程内常驻，由上层 errgroup 托管，ctx 取消即退出
func (s *ExpireSweeper) Start(ctx context.Context) error {
	interval := s.Conf.SweepInterval()
	log.L.Info("expire sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("reservation_timeout", s.Conf.ReservationTimeout()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.L.Info("expire sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			if n, err := s.SweepOnce(ctx); err != nil {
				log.L.Error("sweep round failed", zap.Error(err))
			} else if n > 0 {
				log.L.Info("sweep round done", zap.Int("reclaimed", n))
			}
		}
	}
}

// SweepOnce 扫一轮：取超过截止时间仍 PENDING 的订单逐个回收。
// 单个订单失败不影响其它订单。
func (s *ExpireSweeper) SweepOnce(ctx context.Context) (int, error) {
	deadline := time.Now().Add(-s.Conf.ReservationTimeout())
	orders, err := s.OrderDao.FindExpiredPending(ctx, deadline, s.Conf.BatchSize())
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, order := range orders {
		if err := s.reclaim(ctx, order); err != nil {
			log.L.Error("reclaim order failed", zap.Int64("order_id", order.ID), zap.Error(err))
			continue
		}
		reclaimed++
	}
	return reclaimed, nil
}

// reclaim 回收单个订单：CAS 到 TIMEOUT 成功才放库存，
// 候选集选出后订单可能已被支付，所以 CAS 必须和放库存在同一个事务里。
func (s *ExpireSweeper) reclaim(ctx context.Context, order *models.Order) error {
	var bookIDs []int64

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.OrderDao.TransitStatus(ctx, tx, order.ID,
			models.OrderStatusPending, models.OrderStatusTimeout, nil); err != nil {
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
			if err := s.StockDao.Release(ctx, tx, *it.BookID, it.Quantity); err != nil {
				return err
			}
			bookIDs = append(bookIDs, *it.BookID)
		}

		if err := s.OrderDao.UpdateItemsStatus(ctx, tx, order.ID, models.OrderItemStatusCancelled); err != nil {
			return err
		}
		// 还挂着的流水一并置超时
		if err := s.PaymentDao.ClosePending(ctx, tx, order.ID, models.PaymentStatusTimeout); err != nil {
			return err
		}
		return s.CartDao.MarkRestored(ctx, tx, order.ID)
	})
	if err != nil {
		// 支付回调先到，放弃本单
		if errors.Is(err, dao.ErrOrderStatusChanged) {
			log.L.Info("order left pending before sweep, skip", zap.Int64("order_id", order.ID))
			return nil
		}
		return err
	}

	cache.DelStock(ctx, s.Redis, bookIDs...)
	publishOrderEvent(ctx, s.Producer, EventOrderClosed, order, "reservation_timeout")
	return nil
}
