package dao

import (
	"context"
	"errors"

	"BookHive/models"

	"gorm.io/gorm"
)

var (
	ErrStockpileNotFound  = errors.New("库存记录不存在")
	ErrInsufficientStock  = errors.New("库存不足")
	ErrAmountBelowFrozen  = errors.New("总量不能低于冻结量")
	ErrStockpileCorrupted = errors.New("冻结量与预占不一致")
)

type Stockpile struct {
	Repo[models.Stockpile]
}

func NewStockpile(db *gorm.DB) *Stockpile {
	return &Stockpile{
		Repo: NewRepo[models.Stockpile](db),
	}
}

func (s *Stockpile) GetByBookID(ctx context.Context, db *gorm.DB, bookID int64) (*models.Stockpile, error) {
	var sp models.Stockpile
	err := db.WithContext(ctx).Where("book_id = ?", bookID).First(&sp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockpileNotFound
		}
		return nil, err
	}
	return &sp, nil
}

// Reserve 预占库存。校验与自增在同一条 UPDATE 里完成，
// 行锁保证并发下不会两个请求都用旧数据通过校验。
func (s *Stockpile) Reserve(ctx context.Context, db *gorm.DB, bookID, qty int64) error {
	res := db.WithContext(ctx).Model(&models.Stockpile{}).
		Where("book_id = ? AND amount - frozen >= ?", bookID, qty).
		Update("frozen", gorm.Expr("frozen + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 区分记录缺失和库存不够，必须查同一个事务句柄
		var count int64
		if err := db.WithContext(ctx).Model(&models.Stockpile{}).
			Where("book_id = ?", bookID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrStockpileNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

// Release 归还预占，下限为零。一个订单只会走到这里一次，
// 由订单状态 CAS 保证（离开 PENDING 后不再放库存）。
func (s *Stockpile) Release(ctx context.Context, db *gorm.DB, bookID, qty int64) error {
	return db.WithContext(ctx).Model(&models.Stockpile{}).
		Where("book_id = ?", bookID).
		Update("frozen", gorm.Expr("CASE WHEN frozen >= ? THEN frozen - ? ELSE 0 END", qty, qty)).Error
}

// Commit 支付确认，预占转为实际扣减：amount 与 frozen 同降
func (s *Stockpile) Commit(ctx context.Context, db *gorm.DB, bookID, qty int64) error {
	res := db.WithContext(ctx).Model(&models.Stockpile{}).
		Where("book_id = ? AND frozen >= ?", bookID, qty).
		Updates(map[string]interface{}{
			"amount": gorm.Expr("amount - ?", qty),
			"frozen": gorm.Expr("frozen - ?", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockpileCorrupted
	}
	return nil
}

// SetAmount 管理侧调整总量，低于当前冻结量直接拒绝
func (s *Stockpile) SetAmount(ctx context.Context, db *gorm.DB, bookID, amount int64) error {
	if amount < 0 {
		return ErrAmountBelowFrozen
	}
	res := db.WithContext(ctx).Model(&models.Stockpile{}).
		Where("book_id = ? AND frozen <= ?", bookID, amount).
		Update("amount", amount)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Stockpile{}).
			Where("book_id = ?", bookID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrStockpileNotFound
		}
		return ErrAmountBelowFrozen
	}
	return nil
}
