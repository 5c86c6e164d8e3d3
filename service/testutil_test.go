package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"BookHive/config"
	"BookHive/dao"
	"BookHive/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB 每个测试一个独立的共享缓存内存库。
// _txlock=immediate 让写事务一开始就拿写锁，配合 busy_timeout
// 模拟并发下的写写互斥。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf(
		"file:bookhive_test_%d?mode=memory&cache=shared&_pragma=busy_timeout(10000)&_txlock=immediate", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Book{}, &models.Stockpile{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Payment{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedBook(t *testing.T, db *gorm.DB, title string, price, stock int64) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:  title,
		Author: "测试作者",
		Price:  price,
		Status: models.BookStatusOn,
	}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	if err := db.Create(&models.Stockpile{BookID: book.ID, Amount: stock}).Error; err != nil {
		t.Fatalf("seed stockpile: %v", err)
	}
	return book
}

func seedCartItem(t *testing.T, db *gorm.DB, userID, bookID, qty int64) *models.CartItem {
	t.Helper()
	item := &models.CartItem{
		UserID:   userID,
		BookID:   bookID,
		Quantity: qty,
		Status:   models.CartItemStatusActive,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return item
}

func newOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		DB:         db,
		OrderDao:   dao.NewOrder(db),
		CartDao:    dao.NewCart(db),
		BookDao:    dao.NewBook(db),
		StockDao:   dao.NewStockpile(db),
		PaymentDao: dao.NewPayment(db),
	}
}

func newPayService(db *gorm.DB, gateway PaymentGateway) *PayService {
	return &PayService{
		DB:         db,
		Gateway:    gateway,
		OrderDao:   dao.NewOrder(db),
		PaymentDao: dao.NewPayment(db),
		CartDao:    dao.NewCart(db),
		StockDao:   dao.NewStockpile(db),
	}
}

func newSweeper(db *gorm.DB, conf *config.OrderConfig) *ExpireSweeper {
	return &ExpireSweeper{
		DB:         db,
		Conf:       conf,
		OrderDao:   dao.NewOrder(db),
		PaymentDao: dao.NewPayment(db),
		CartDao:    dao.NewCart(db),
		StockDao:   dao.NewStockpile(db),
	}
}

func mustStockpile(t *testing.T, db *gorm.DB, bookID int64) *models.Stockpile {
	t.Helper()
	sp, err := dao.NewStockpile(db).GetByBookID(context.Background(), db, bookID)
	if err != nil {
		t.Fatalf("get stockpile: %v", err)
	}
	return sp
}

func mustOrder(t *testing.T, db *gorm.DB, orderID int64) *models.Order {
	t.Helper()
	order, err := dao.NewOrder(db).GetByID(context.Background(), db, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	return order
}
