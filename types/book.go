package types

type CreateBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Price       int64  `json:"price" binding:"required,min=1"` // 单位：分
	Stock       int64  `json:"stock" binding:"min=0"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

type BookDetail struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	Status      int8   `json:"status"`
	Available   int64  `json:"available"` // 可售库存 = amount - frozen
}

type UpdateStockpileRequest struct {
	Amount int64 `json:"amount" binding:"min=0"`
}

type StockpileView struct {
	BookID    int64 `json:"book_id"`
	Amount    int64 `json:"amount"`
	Frozen    int64 `json:"frozen"`
	Available int64 `json:"available"`
}

type ListBooksResponse struct {
	Books      []*BookDetail `json:"books"`
	HasMore    bool          `json:"has_more"`
	NextCursor int64         `json:"next_cursor"`
}
