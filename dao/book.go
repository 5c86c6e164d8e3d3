package dao

import (
	"context"

	"BookHive/models"

	"gorm.io/gorm"
)

type Book struct {
	Repo[models.Book]
}

func NewBook(db *gorm.DB) *Book {
	return &Book{
		Repo: NewRepo[models.Book](db),
	}
}

func (b *Book) CreateBook(ctx context.Context, book *models.Book) error {
	return b.Db.WithContext(ctx).Create(book).Error
}

func (b *Book) DeleteBook(ctx context.Context, bookID int64) error {
	return b.Db.WithContext(ctx).Where("id = ?", bookID).Delete(&models.Book{}).Error
}

// FindOnShelfByIDs 批量取上架图书，下单时做价格快照用
func (b *Book) FindOnShelfByIDs(ctx context.Context, db *gorm.DB, ids []int64) (map[int64]*models.Book, error) {
	var books []*models.Book
	err := db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, models.BookStatusOn).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	m := make(map[int64]*models.Book, len(books))
	for _, bk := range books {
		m[bk.ID] = bk
	}
	return m, nil
}

func (b *Book) GetBooksByCursor(ctx context.Context, limit int, cursor int64) ([]*models.Book, error) {
	query := b.Db.WithContext(ctx).Where("status = ?", models.BookStatusOn)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	var books []*models.Book
	err := query.Order("id desc").Limit(limit).Find(&books).Error
	return books, err
}
