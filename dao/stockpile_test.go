package dao

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"BookHive/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var daoTestSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&daoTestSeq, 1)
	dsn := fmt.Sprintf(
		"file:bookhive_dao_%d?mode=memory&cache=shared&_pragma=busy_timeout(10000)&_txlock=immediate", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Stockpile{}, &models.Order{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedStockpile(t *testing.T, db *gorm.DB, bookID, amount, frozen int64) {
	t.Helper()
	if err := db.Create(&models.Stockpile{BookID: bookID, Amount: amount, Frozen: frozen}).Error; err != nil {
		t.Fatalf("seed stockpile: %v", err)
	}
}

func TestReserve(t *testing.T) {
	db := newTestDB(t)
	d := NewStockpile(db)
	ctx := context.Background()
	seedStockpile(t, db, 1, 10, 0)

	if err := d.Reserve(ctx, db, 1, 7); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	// 可售只剩 3，再要 4 必须拒绝
	if err := d.Reserve(ctx, db, 1, 4); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if err := d.Reserve(ctx, db, 1, 3); err != nil {
		t.Fatalf("reserve to limit: %v", err)
	}

	sp, err := d.GetByBookID(ctx, db, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sp.Frozen != 10 || sp.Available() != 0 {
		t.Fatalf("stockpile = (%d, %d), want fully frozen", sp.Amount, sp.Frozen)
	}

	if err := d.Reserve(ctx, db, 99, 1); !errors.Is(err, ErrStockpileNotFound) {
		t.Fatalf("err = %v, want ErrStockpileNotFound", err)
	}
}

func TestReleaseClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	d := NewStockpile(db)
	ctx := context.Background()
	seedStockpile(t, db, 1, 10, 3)

	if err := d.Release(ctx, db, 1, 5); err != nil {
		t.Fatalf("release: %v", err)
	}
	sp, _ := d.GetByBookID(ctx, db, 1)
	if sp.Frozen != 0 || sp.Amount != 10 {
		t.Fatalf("stockpile = (%d, %d), want frozen clamped to 0", sp.Amount, sp.Frozen)
	}
}

func TestCommitDropsBothCounters(t *testing.T) {
	db := newTestDB(t)
	d := NewStockpile(db)
	ctx := context.Background()
	seedStockpile(t, db, 1, 10, 4)

	if err := d.Commit(ctx, db, 1, 4); err != nil {
		t.Fatalf("commit: %v", err)
	}
	sp, _ := d.GetByBookID(ctx, db, 1)
	if sp.Amount != 6 || sp.Frozen != 0 {
		t.Fatalf("stockpile = (%d, %d), want (6, 0)", sp.Amount, sp.Frozen)
	}

	// 冻结量对不上说明调用顺序出了问题，必须显式报错
	if err := d.Commit(ctx, db, 1, 1); !errors.Is(err, ErrStockpileCorrupted) {
		t.Fatalf("err = %v, want ErrStockpileCorrupted", err)
	}
}

func TestTransitStatusCAS(t *testing.T) {
	db := newTestDB(t)
	d := NewOrder(db)
	ctx := context.Background()

	order := &models.Order{ID: 9001, OrderSn: "BH-test-9001", UserID: 1, TotalAmount: 100,
		Status: models.OrderStatusPending}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	if err := d.TransitStatus(ctx, db, 9001,
		models.OrderStatusPending, models.OrderStatusPaid, nil); err != nil {
		t.Fatalf("first transit: %v", err)
	}
	// 第二个迁出必须输给第一个
	err := d.TransitStatus(ctx, db, 9001,
		models.OrderStatusPending, models.OrderStatusTimeout, nil)
	if !errors.Is(err, ErrOrderStatusChanged) {
		t.Fatalf("err = %v, want ErrOrderStatusChanged", err)
	}

	got, err := d.GetByID(ctx, db, 9001)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.OrderStatusPaid {
		t.Fatalf("status = %d, want paid", got.Status)
	}
}
