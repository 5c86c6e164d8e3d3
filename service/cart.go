package service

import (
	"context"
	"errors"

	"BookHive/dao"
	"BookHive/models"
	"BookHive/types"

	"gorm.io/gorm"
)

type CartService struct {
	DB      *gorm.DB
	CartDao *dao.Cart
	BookDao *dao.Book
}

var _ ICartService = (*CartService)(nil)

type ICartService interface {
	AddItem(ctx context.Context, userID int64, req *types.AddCartItemRequest) (*models.CartItem, error)
	ListItems(ctx context.Context, userID int64) ([]*types.CartItemView, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
}

func (s *CartService) AddItem(ctx context.Context, userID int64, req *types.AddCartItemRequest) (*models.CartItem, error) {
	book, err := s.BookDao.FindByWhere(ctx, "id = ? AND status = ?", req.BookID, models.BookStatusOn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	// 同一本书的在购条目做合并，不重复建行
	existing, err := s.CartDao.FindActiveByBook(ctx, userID, book.ID)
	if err == nil {
		if err := s.CartDao.AddQuantity(ctx, existing.ID, req.Quantity); err != nil {
			return nil, err
		}
		existing.Quantity += req.Quantity
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &models.CartItem{
		UserID:   userID,
		BookID:   book.ID,
		Quantity: req.Quantity,
		Status:   models.CartItemStatusActive,
	}
	if err := s.CartDao.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) ListItems(ctx context.Context, userID int64) ([]*types.CartItemView, error) {
	items, err := s.CartDao.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*types.CartItemView{}, nil
	}

	bookIDs := make([]int64, 0, len(items))
	for _, it := range items {
		bookIDs = append(bookIDs, it.BookID)
	}
	books, err := s.BookDao.FindOnShelfByIDs(ctx, s.DB, bookIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*types.CartItemView, 0, len(items))
	for _, it := range items {
		v := &types.CartItemView{
			ID:       it.ID,
			BookID:   it.BookID,
			Quantity: it.Quantity,
			Status:   it.Status,
		}
		if bk, ok := books[it.BookID]; ok {
			v.BookTitle = bk.Title
			v.Price = bk.Price
		}
		views = append(views, v)
	}
	return views, nil
}

// RemoveItem 只允许撤掉自己的在购条目；被待支付订单占用的条目不能动
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.CartDao.FindById(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	if item.UserID != userID {
		return ErrOwnershipViolation
	}
	if item.Status != models.CartItemStatusActive {
		return ErrInvalidStateTransition
	}
	return s.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND status = ?", itemID, models.CartItemStatusActive).
		Update("status", models.CartItemStatusCancelled).Error
}
