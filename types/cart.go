package types

type AddCartItemRequest struct {
	BookID   int64 `json:"book_id" binding:"required"`
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

type CartItemView struct {
	ID        int64  `json:"id"`
	BookID    int64  `json:"book_id"`
	BookTitle string `json:"book_title"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Status    int8   `json:"status"`
}
