package models

import (
	"time"

	"gorm.io/gorm"
)

// Book 对应数据库中的 books 表
type Book struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string         `gorm:"size:255;not null;index:idx_title;column:title" json:"title"`
	Author      string         `gorm:"size:128;column:author" json:"author"`
	ISBN        string         `gorm:"size:32;column:isbn" json:"isbn"`
	Price       int64          `gorm:"not null;column:price" json:"price"` // 单位：分
	Description string         `gorm:"type:text;column:description" json:"description"`
	CoverImage  string         `gorm:"size:512;default:'';column:cover_image" json:"cover_image"`
	Status      int8           `gorm:"default:1;not null;index:idx_status;column:status" json:"status"` // 0-下架, 1-上架
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index:idx_books_deleted_at;column:deleted_at" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

const (
	BookStatusOff = 0 // 下架
	BookStatusOn  = 1 // 上架
)

// Stockpile 库存台账，唯一允许修改 amount/frozen 的是库存模块
// 不变量：0 <= frozen <= amount，可售 = amount - frozen
type Stockpile struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BookID    int64     `gorm:"not null;uniqueIndex:idx_stockpiles_book_id;column:book_id" json:"book_id"`
	Amount    int64     `gorm:"not null;default:0;column:amount" json:"amount"` // 总持有量
	Frozen    int64     `gorm:"not null;default:0;column:frozen" json:"frozen"` // 未确认订单占用量
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Stockpile) TableName() string {
	return "stockpiles"
}

// Available 可售库存，只读推导值，不落库
func (s *Stockpile) Available() int64 {
	return s.Amount - s.Frozen
}
