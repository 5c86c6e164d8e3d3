package dao

import (
	"context"
	"errors"
	"time"

	"BookHive/models"

	"gorm.io/gorm"
)

// ErrOrderStatusChanged 状态CAS失败：订单已被并发方迁出原状态
var ErrOrderStatusChanged = errors.New("订单状态已变更")

type Order struct {
	Repo[models.Order]
}

func NewOrder(db *gorm.DB) *Order {
	return &Order{
		Repo: NewRepo[models.Order](db),
	}
}

func (d *Order) GetByID(ctx context.Context, db *gorm.DB, orderID int64) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *Order) GetByOrderSn(ctx context.Context, db *gorm.DB, orderSn string) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).Where("order_sn = ?", orderSn).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitStatus 状态迁移统一走这里：WHERE 带上旧状态，
// RowsAffected = 0 说明别人先迁走了，调用方据此放弃自己的那份副作用。
func (d *Order) TransitStatus(ctx context.Context, db *gorm.DB, orderID int64, from, to int8, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderStatusChanged
	}
	return nil
}

func (d *Order) FindItems(ctx context.Context, db *gorm.DB, orderID int64) ([]*models.OrderItem, error) {
	var items []*models.OrderItem
	err := db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func (d *Order) UpdateItemsStatus(ctx context.Context, db *gorm.DB, orderID int64, status int8) error {
	return db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error
}

// FindExpiredPending 超时回收的候选集：仍在 PENDING 且创建时间早于 deadline
func (d *Order) FindExpiredPending(ctx context.Context, deadline time.Time, limit int) ([]*models.Order, error) {
	var orders []*models.Order
	err := d.Db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.OrderStatusPending, deadline).
		Order("created_at asc").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// GetUserOrders 游标分页取用户订单
func (d *Order) GetUserOrders(ctx context.Context, userID int64, cursor int64, limit int) ([]*models.Order, error) {
	query := d.Db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	var orders []*models.Order
	err := query.Order("id desc").Limit(limit).Find(&orders).Error
	return orders, err
}
