package service

import (
	"context"
	"errors"

	"BookHive/dao"
	"BookHive/dao/cache"
	"BookHive/models"
	"BookHive/types"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type BookService struct {
	DB       *gorm.DB
	Redis    *redis.Client
	BookDao  *dao.Book
	StockDao *dao.Stockpile
}

var _ IBookService = (*BookService)(nil)

type IBookService interface {
	CreateBook(ctx context.Context, req *types.CreateBookRequest) (*models.Book, error)
	GetDetail(ctx context.Context, bookID int64) (*types.BookDetail, error)
	ListBooks(ctx context.Context, cursor int64, limit int) (*types.ListBooksResponse, error)
}

// CreateBook 建书同时建台账行，台账归属库存模块后续只走它改
func (s *BookService) CreateBook(ctx context.Context, req *types.CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Price:       req.Price,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Status:      models.BookStatusOn,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		sp := &models.Stockpile{
			BookID: book.ID,
			Amount: req.Stock,
			Frozen: 0,
		}
		return tx.Create(sp).Error
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) GetDetail(ctx context.Context, bookID int64) (*types.BookDetail, error) {
	book, err := s.BookDao.FindById(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	detail := &types.BookDetail{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		Price:       book.Price,
		Description: book.Description,
		CoverImage:  book.CoverImage,
		Status:      book.Status,
	}

	if n, ok := cache.GetStock(ctx, s.Redis, bookID); ok {
		detail.Available = n
		return detail, nil
	}
	sp, err := s.StockDao.GetByBookID(ctx, s.DB, bookID)
	if err == nil {
		detail.Available = sp.Available()
		cache.SetStock(ctx, s.Redis, bookID, detail.Available)
	}
	return detail, nil
}

func (s *BookService) ListBooks(ctx context.Context, cursor int64, limit int) (*types.ListBooksResponse, error) {
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	// 多查一条判断 hasMore
	books, err := s.BookDao.GetBooksByCursor(ctx, limit+1, cursor)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if len(books) > limit {
		hasMore = true
		books = books[:limit]
	}
	if len(books) == 0 {
		return &types.ListBooksResponse{Books: []*types.BookDetail{}}, nil
	}

	resp := &types.ListBooksResponse{
		Books:      make([]*types.BookDetail, 0, len(books)),
		HasMore:    hasMore,
		NextCursor: books[len(books)-1].ID,
	}
	for _, bk := range books {
		resp.Books = append(resp.Books, &types.BookDetail{
			ID:         bk.ID,
			Title:      bk.Title,
			Author:     bk.Author,
			Price:      bk.Price,
			CoverImage: bk.CoverImage,
			Status:     bk.Status,
		})
	}
	return resp, nil
}
