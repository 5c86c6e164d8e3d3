package models

import (
	"time"

	"gorm.io/datatypes"
)

// Order 订单主表
type Order struct {
	ID          int64      `gorm:"primaryKey;column:id" json:"id"` // 雪花ID
	OrderSn     string     `gorm:"column:order_sn;type:varchar(64);not null;uniqueIndex:idx_order_sn" json:"order_sn"`
	UserID      int64      `gorm:"column:user_id;not null;index:idx_order_user_id" json:"user_id"`
	TotalAmount int64      `gorm:"column:total_amount;not null" json:"total_amount"` // 单位：分
	Status      int8       `gorm:"column:status;not null;default:10;index:idx_order_status" json:"status"`
	Receiver    string     `gorm:"column:receiver;type:varchar(64)" json:"receiver"` // 收货快照
	Phone       string     `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Address     string     `gorm:"column:address;type:varchar(255)" json:"address"`
	PaidAt      *time.Time `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime;index:idx_order_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// 订单状态机：PENDING 是唯一的起点，出 PENDING 只能走一次
const (
	OrderStatusPending   int8 = 10 // 待支付
	OrderStatusPaid      int8 = 20 // 已支付
	OrderStatusCompleted int8 = 30 // 已完成
	OrderStatusCancelled int8 = 40 // 已取消
	OrderStatusTimeout   int8 = 50 // 超时关闭
)

// OrderItem 订单明细，冗余成交价与书名，BookID 可空以容忍图书下架删除
type OrderItem struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID        int64     `gorm:"not null;index:idx_item_order_id;column:order_id" json:"order_id"`
	BookID         *int64    `gorm:"index:idx_item_book_id;column:book_id" json:"book_id"`
	BookTitle      string    `gorm:"size:255;not null;column:book_title" json:"book_title"`
	Price          int64     `gorm:"not null;column:price" json:"price"` // 下单时单价（分）
	Quantity       int64     `gorm:"not null;default:1;column:quantity" json:"quantity"`
	SubtotalAmount int64     `gorm:"not null;column:subtotal_amount" json:"subtotal_amount"` // 单价 * 数量
	Status         int8      `gorm:"not null;default:10;column:status" json:"status"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

const (
	OrderItemStatusPending   int8 = 10
	OrderItemStatusPaid      int8 = 20
	OrderItemStatusShipped   int8 = 25
	OrderItemStatusCompleted int8 = 30
	OrderItemStatusCancelled int8 = 40
)

// Payment 支付流水，一个订单可能发起多次，对账只看最新一条
type Payment struct {
	ID          int64          `gorm:"primaryKey;column:id" json:"id"` // 雪花ID
	OrderID     int64          `gorm:"column:order_id;not null;index:idx_payment_order_id" json:"order_id"`
	Amount      int64          `gorm:"column:amount;not null" json:"amount"` // 单位：分
	Status      int8           `gorm:"column:status;not null;default:0" json:"status"`
	TradeNo     string         `gorm:"column:trade_no;type:varchar(64);index:idx_payment_trade_no" json:"trade_no"` // 支付平台交易号
	PrepayID    string         `gorm:"column:prepay_id;type:varchar(64)" json:"prepay_id"`
	NotifyRaw   datatypes.JSON `gorm:"column:notify_raw" json:"notify_raw"` // 回调原文存档
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

const (
	PaymentStatusPending int8 = 0 // 待支付
	PaymentStatusSuccess int8 = 1 // 支付成功
	PaymentStatusFailed  int8 = 2 // 支付失败
	PaymentStatusTimeout int8 = 3 // 超时关闭
)
