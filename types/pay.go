package types

type PrepayRequest struct {
	OrderID     int64  `json:"order_id" binding:"required"`
	Description string `json:"description"`
}

type PrepayResponse struct {
	OrderID     int64       `json:"order_id"`
	TotalAmount int64       `json:"total_amount"`
	PayMethod   string      `json:"pay_method"`
	PayParams   interface{} `json:"pay_params"` // 前端唤起支付的不透明参数
}
