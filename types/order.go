package types

import "time"

type CreateOrderRequest struct {
	CartItemIDs []int64 `json:"cart_item_ids" binding:"required,min=1"`
	Receiver    string  `json:"receiver" binding:"required"`
	Phone       string  `json:"phone" binding:"required"`
	Address     string  `json:"address" binding:"required"`
}

type OrderItemView struct {
	ID        int64  `json:"id"`
	BookID    *int64 `json:"book_id"`
	BookTitle string `json:"book_title"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
	Status    int8   `json:"status"`
}

type OrderDetail struct {
	ID          int64            `json:"id"`
	OrderSn     string           `json:"order_sn"`
	TotalAmount int64            `json:"total_amount"`
	Status      int8             `json:"status"`
	Receiver    string           `json:"receiver"`
	Phone       string           `json:"phone"`
	Address     string           `json:"address"`
	PaidAt      *time.Time       `json:"paid_at"`
	CreatedAt   time.Time        `json:"created_at"`
	Items       []*OrderItemView `json:"items"`
}

type OrderSummary struct {
	ID          int64     `json:"id"`
	OrderSn     string    `json:"order_sn"`
	TotalAmount int64     `json:"total_amount"`
	Status      int8      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListOrdersResponse struct {
	Orders     []*OrderSummary `json:"orders"`
	HasMore    bool            `json:"has_more"`
	NextCursor int64           `json:"next_cursor"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}
