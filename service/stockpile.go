package service

import (
	"context"

	"BookHive/dao"
	"BookHive/dao/cache"
	"BookHive/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// StockpileService 库存台账的对外口径。
// Reserve/Release/Commit 不在这里暴露：它们只能出现在订单事务内部。
type StockpileService struct {
	DB       *gorm.DB
	Redis    *redis.Client
	StockDao *dao.Stockpile
}

var _ IStockpileService = (*StockpileService)(nil)

type IStockpileService interface {
	Get(ctx context.Context, bookID int64) (*models.Stockpile, error)
	GetAvailable(ctx context.Context, bookID int64) (int64, error)
	SetAmount(ctx context.Context, bookID, amount int64) error
}

func (s *StockpileService) Get(ctx context.Context, bookID int64) (*models.Stockpile, error) {
	return s.StockDao.GetByBookID(ctx, s.DB, bookID)
}

// GetAvailable 可售库存读口径：缓存命中直接返回，
// 未命中回源权威行并回填。台账每次变动都会失效这份缓存。
func (s *StockpileService) GetAvailable(ctx context.Context, bookID int64) (int64, error) {
	if n, ok := cache.GetStock(ctx, s.Redis, bookID); ok {
		return n, nil
	}

	sp, err := s.StockDao.GetByBookID(ctx, s.DB, bookID)
	if err != nil {
		return 0, err
	}
	available := sp.Available()
	cache.SetStock(ctx, s.Redis, bookID, available)
	return available, nil
}

func (s *StockpileService) SetAmount(ctx context.Context, bookID, amount int64) error {
	if err := s.StockDao.SetAmount(ctx, s.DB, bookID, amount); err != nil {
		return err
	}
	cache.DelStock(ctx, s.Redis, bookID)
	return nil
}
