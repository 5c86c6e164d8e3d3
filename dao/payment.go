package dao

import (
	"context"

	"BookHive/models"

	"gorm.io/gorm"
)

type Payment struct {
	Repo[models.Payment]
}

func NewPayment(db *gorm.DB) *Payment {
	return &Payment{
		Repo: NewRepo[models.Payment](db),
	}
}

// GetLatestByOrderID 同一订单可能有多笔支付流水，对账只认最新一笔
func (p *Payment) GetLatestByOrderID(ctx context.Context, db *gorm.DB, orderID int64) (*models.Payment, error) {
	var payment models.Payment
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id desc").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (p *Payment) UpdateByID(ctx context.Context, db *gorm.DB, paymentID int64, updates map[string]interface{}) error {
	return db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(updates).Error
}

// ClosePending 订单结束时把所有还挂着的流水一并关掉
func (p *Payment) ClosePending(ctx context.Context, db *gorm.DB, orderID int64, to int8) error {
	return db.WithContext(ctx).Model(&models.Payment{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Update("status", to).Error
}
