package dao

import (
	"context"

	"BookHive/models"

	"gorm.io/gorm"
)

type Cart struct {
	Repo[models.CartItem]
}

func NewCart(db *gorm.DB) *Cart {
	return &Cart{
		Repo: NewRepo[models.CartItem](db),
	}
}

// FindActiveByIDs 取用户勾选的购物车条目，结算前校验用
func (c *Cart) FindActiveByIDs(ctx context.Context, db *gorm.DB, userID int64, ids []int64) ([]*models.CartItem, error) {
	var items []*models.CartItem
	err := db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&items).Error
	return items, err
}

func (c *Cart) ListActive(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	return c.FindAllByWhere(ctx, "user_id = ? AND status = ?", userID, models.CartItemStatusActive)
}

func (c *Cart) FindActiveByBook(ctx context.Context, userID, bookID int64) (*models.CartItem, error) {
	return c.FindByWhere(ctx, "user_id = ? AND book_id = ? AND status = ?",
		userID, bookID, models.CartItemStatusActive)
}

// MarkCheckedOut 条目转入订单占用态，带上回指的订单ID
func (c *Cart) MarkCheckedOut(ctx context.Context, db *gorm.DB, ids []int64, orderID int64) error {
	return db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":   models.CartItemStatusCheckedOut,
			"order_id": orderID,
		}).Error
}

// MarkCompleted 支付成功后条目归档
func (c *Cart) MarkCompleted(ctx context.Context, db *gorm.DB, orderID int64) error {
	return db.WithContext(ctx).Model(&models.CartItem{}).
		Where("order_id = ? AND status = ?", orderID, models.CartItemStatusCheckedOut).
		Update("status", models.CartItemStatusCompleted).Error
}

// MarkRestored 订单取消/超时后条目放回购物车
func (c *Cart) MarkRestored(ctx context.Context, db *gorm.DB, orderID int64) error {
	return db.WithContext(ctx).Model(&models.CartItem{}).
		Where("order_id = ? AND status = ?", orderID, models.CartItemStatusCheckedOut).
		Updates(map[string]interface{}{
			"status":   models.CartItemStatusActive,
			"order_id": 0,
		}).Error
}

func (c *Cart) AddQuantity(ctx context.Context, itemID, delta int64) error {
	return c.Db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}
