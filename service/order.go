package service

import (
	"context"
	"errors"

	"BookHive/dao"
	"BookHive/dao/cache"
	"BookHive/models"
	"BookHive/pkg/mq"
	"BookHive/pkg/snowflake"
	"BookHive/pkg/utils"
	"BookHive/types"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// OrderService 订单状态机的唯一执行者。
// 预占成功订单才可见，出 PENDING 的迁移全部走状态 CAS，
// 所以同一笔预占不可能被归还两次。
type OrderService struct {
	DB         *gorm.DB
	Redis      *redis.Client
	OrderDao   *dao.Order
	CartDao    *dao.Cart
	BookDao    *dao.Book
	StockDao   *dao.Stockpile
	PaymentDao *dao.Payment
	Producer   *mq.Producer
}

var _ IOrderService = (*OrderService)(nil)

type IOrderService interface {
	CreateOrder(ctx context.Context, userID int64, req *types.CreateOrderRequest) (*types.OrderDetail, error)
	CancelOrder(ctx context.Context, userID, orderID int64, reason string) error
	ConfirmReceipt(ctx context.Context, userID, orderID int64) error
	GetOrder(ctx context.Context, userID, orderID int64) (*types.OrderDetail, error)
	ListOrders(ctx context.Context, userID int64, cursor int64, pageSize int) (*types.ListOrdersResponse, error)
}

// CreateOrder 结算：预占、落单、占用购物车条目在同一个事务里，
// 任何一步失败整体回滚，不会出现半个订单或悬挂的预占。
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, req *types.CreateOrderRequest) (*types.OrderDetail, error) {
	if len(req.CartItemIDs) == 0 {
		return nil, ErrCartItemNotFound
	}

	var (
		order   *models.Order
		detail  *types.OrderDetail
		bookIDs []int64
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartItems, err := s.CartDao.FindActiveByIDs(ctx, tx, userID, req.CartItemIDs)
		if err != nil {
			return err
		}
		// 条数对不上说明有条目不存在或不属于该用户
		if len(cartItems) != len(req.CartItemIDs) {
			return ErrCartItemNotFound
		}
		for _, it := range cartItems {
			if it.Status != models.CartItemStatusActive {
				return ErrInvalidStateTransition
			}
		}

		// 同一本书可能出现在多个条目里，预占按书合并
		qtyByBook := make(map[int64]int64, len(cartItems))
		for _, it := range cartItems {
			qtyByBook[it.BookID] += it.Quantity
		}
		bookIDs = bookIDs[:0]
		for id := range qtyByBook {
			bookIDs = append(bookIDs, id)
		}

		books, err := s.BookDao.FindOnShelfByIDs(ctx, tx, bookIDs)
		if err != nil {
			return err
		}
		for _, id := range bookIDs {
			if _, ok := books[id]; !ok {
				return ErrBookNotFound
			}
		}

		// 逐本预占。任何一本不足直接返回错误，
		// 事务回滚会连带撤掉前面已经加上的 frozen。
		for _, id := range bookIDs {
			if err := s.StockDao.Reserve(ctx, tx, id, qtyByBook[id]); err != nil {
				return err
			}
		}

		var total int64
		for _, it := range cartItems {
			total += books[it.BookID].Price * it.Quantity
		}

		order = &models.Order{
			ID:          snowflake.GenOrderID(),
			OrderSn:     utils.GenerateOrderSn(userID),
			UserID:      userID,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			Receiver:    req.Receiver,
			Phone:       req.Phone,
			Address:     req.Address,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		orderItems := make([]*models.OrderItem, 0, len(cartItems))
		for _, it := range cartItems {
			bk := books[it.BookID]
			bookID := bk.ID
			orderItems = append(orderItems, &models.OrderItem{
				OrderID:        order.ID,
				BookID:         &bookID,
				BookTitle:      bk.Title,
				Price:          bk.Price,
				Quantity:       it.Quantity,
				SubtotalAmount: bk.Price * it.Quantity,
				Status:         models.OrderItemStatusPending,
			})
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}

		itemIDs := make([]int64, 0, len(cartItems))
		for _, it := range cartItems {
			itemIDs = append(itemIDs, it.ID)
		}
		if err := s.CartDao.MarkCheckedOut(ctx, tx, itemIDs, order.ID); err != nil {
			return err
		}

		detail = buildOrderDetail(order, orderItems)
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.DelStock(ctx, s.Redis, bookIDs...)
	publishOrderEvent(ctx, s.Producer, EventOrderCreated, order, "")
	return detail, nil
}

// CancelOrder 仅 PENDING 可取消。先做状态 CAS 再放库存，
// CAS 输了说明支付结果或超时回收先到，本次取消整体作废。
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID int64, reason string) error {
	var (
		order   *models.Order
		bookIDs []int64
	)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.OrderDao.GetByID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.UserID != userID {
			return ErrOwnershipViolation
		}

		if err := s.OrderDao.TransitStatus(ctx, tx, orderID,
			models.OrderStatusPending, models.OrderStatusCancelled, nil); err != nil {
			if errors.Is(err, dao.ErrOrderStatusChanged) {
				return ErrInvalidStateTransition
			}
			return err
		}

		items, err := s.OrderDao.FindItems(ctx, tx, orderID)
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
		if err := s.OrderDao.UpdateItemsStatus(ctx, tx, orderID, models.OrderItemStatusCancelled); err != nil {
			return err
		}
		if err := s.PaymentDao.ClosePending(ctx, tx, orderID, models.PaymentStatusFailed); err != nil {
			return err
		}
		// 条目放回购物车，用户可以重新结算
		return s.CartDao.MarkRestored(ctx, tx, orderID)
	})
	if err != nil {
		return err
	}

	cache.DelStock(ctx, s.Redis, bookIDs...)
	publishOrderEvent(ctx, s.Producer, EventOrderClosed, order, reason)
	return nil
}

// ConfirmReceipt 确认收货，PAID → COMPLETED。不涉及库存，只是状态归档。
func (s *OrderService) ConfirmReceipt(ctx context.Context, userID, orderID int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.OrderDao.GetByID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.UserID != userID {
			return ErrOwnershipViolation
		}
		if err := s.OrderDao.TransitStatus(ctx, tx, orderID,
			models.OrderStatusPaid, models.OrderStatusCompleted, nil); err != nil {
			if errors.Is(err, dao.ErrOrderStatusChanged) {
				return ErrInvalidStateTransition
			}
			return err
		}
		return s.OrderDao.UpdateItemsStatus(ctx, tx, orderID, models.OrderItemStatusCompleted)
	})
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*types.OrderDetail, error) {
	order, err := s.OrderDao.GetByID(ctx, s.DB, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOwnershipViolation
	}

	items, err := s.OrderDao.FindItems(ctx, s.DB, orderID)
	if err != nil {
		return nil, err
	}
	return buildOrderDetail(order, items), nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64, cursor int64, pageSize int) (*types.ListOrdersResponse, error) {
	if pageSize <= 0 {
		pageSize = 10 // 默认每页10条
	}

	// 多查一条（pageSize + 1）用来判断是否还有下一页
	orders, err := s.OrderDao.GetUserOrders(ctx, userID, cursor, pageSize+1)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if len(orders) > pageSize {
		hasMore = true
		orders = orders[:pageSize]
	}
	if len(orders) == 0 {
		return &types.ListOrdersResponse{Orders: []*types.OrderSummary{}}, nil
	}

	resp := &types.ListOrdersResponse{
		Orders:     make([]*types.OrderSummary, 0, len(orders)),
		HasMore:    hasMore,
		NextCursor: orders[len(orders)-1].ID,
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, &types.OrderSummary{
			ID:          o.ID,
			OrderSn:     o.OrderSn,
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
			CreatedAt:   o.CreatedAt,
		})
	}
	return resp, nil
}

func buildOrderDetail(order *models.Order, items []*models.OrderItem) *types.OrderDetail {
	detail := &types.OrderDetail{
		ID:          order.ID,
		OrderSn:     order.OrderSn,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		Receiver:    order.Receiver,
		Phone:       order.Phone,
		Address:     order.Address,
		PaidAt:      order.PaidAt,
		CreatedAt:   order.CreatedAt,
		Items:       make([]*types.OrderItemView, 0, len(items)),
	}
	for _, it := range items {
		detail.Items = append(detail.Items, &types.OrderItemView{
			ID:        it.ID,
			BookID:    it.BookID,
			BookTitle: it.BookTitle,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.SubtotalAmount,
			Status:    it.Status,
		})
	}
	return detail
}
