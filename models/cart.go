package models

import "time"

// CartItem 购物车条目，结算/回滚期间只允许订单模块改状态
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_cart_user_id;column:user_id" json:"user_id"`
	BookID    int64     `gorm:"not null;index:idx_cart_book_id;column:book_id" json:"book_id"`
	Quantity  int64     `gorm:"not null;default:1;column:quantity" json:"quantity"`
	Status    int8      `gorm:"not null;default:1;index:idx_cart_status;column:status" json:"status"`
	OrderID   int64     `gorm:"default:0;index:idx_cart_order_id;column:order_id" json:"order_id"` // 被哪个订单占用
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

const (
	CartItemStatusActive     = 1 // 在购物车内可结算
	CartItemStatusCheckedOut = 2 // 已被待支付订单占用
	CartItemStatusCompleted  = 3 // 订单支付完成
	CartItemStatusCancelled  = 4 // 条目作废
)
