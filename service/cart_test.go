package service

import (
	"context"
	"errors"
	"testing"

	"BookHive/dao"
	"BookHive/models"
	"BookHive/types"

	"gorm.io/gorm"
)

func newCartService(db *gorm.DB) *CartService {
	return &CartService{
		DB:      db,
		CartDao: dao.NewCart(db),
		BookDao: dao.NewBook(db),
	}
}

func TestAddItemMergesSameBook(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	book := seedBook(t, db, "加购的书", 2000, 10)

	first, err := svc.AddItem(ctx, 1001, &types.AddCartItemRequest{BookID: book.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	second, err := svc.AddItem(ctx, 1001, &types.AddCartItemRequest{BookID: book.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if second.ID != first.ID || second.Quantity != 3 {
		t.Fatalf("item = (id %d, qty %d), want merged (id %d, qty 3)", second.ID, second.Quantity, first.ID)
	}

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", 1001).Count(&count)
	if count != 1 {
		t.Fatalf("cart rows = %d, want 1", count)
	}
}

func TestAddItemRejectsOffShelfBook(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	book := seedBook(t, db, "下架的书", 2000, 10)
	if err := db.Model(&models.Book{}).Where("id = ?", book.ID).
		Update("status", models.BookStatusOff).Error; err != nil {
		t.Fatalf("take off shelf: %v", err)
	}

	_, err := svc.AddItem(ctx, 1001, &types.AddCartItemRequest{BookID: book.ID, Quantity: 1})
	if !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("err = %v, want ErrBookNotFound", err)
	}
}

func TestListItemsWithBookInfo(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	book := seedBook(t, db, "清单里的书", 2000, 10)
	seedCartItem(t, db, 1001, book.ID, 2)

	views, err := svc.ListItems(ctx, 1001)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	if views[0].BookTitle != "清单里的书" || views[0].Price != 2000 || views[0].Quantity != 2 {
		t.Fatalf("view = %+v, want book info filled", views[0])
	}
}

func TestRemoveItemRules(t *testing.T) {
	db := newTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	book := seedBook(t, db, "移除的书", 2000, 10)
	item := seedCartItem(t, db, 1001, book.ID, 1)

	// 别人的条目不能删
	if err := svc.RemoveItem(ctx, 9999, item.ID); !errors.Is(err, ErrOwnershipViolation) {
		t.Fatalf("err = %v, want ErrOwnershipViolation", err)
	}

	// 被待支付订单占用的条目不能删
	checkout := seedCartItem(t, db, 1001, book.ID, 1)
	if _, err := newOrderService(db).CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{checkout.ID},
		Receiver:    "张三", Phone: "13800000000", Address: "北京市",
	}); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if err := svc.RemoveItem(ctx, 1001, checkout.ID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("err = %v, want ErrInvalidStateTransition", err)
	}

	if err := svc.RemoveItem(ctx, 1001, item.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	var reloaded models.CartItem
	db.First(&reloaded, item.ID)
	if reloaded.Status != models.CartItemStatusCancelled {
		t.Fatalf("status = %d, want cancelled", reloaded.Status)
	}

	if err := svc.RemoveItem(ctx, 1001, 424242); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("err = %v, want ErrCartItemNotFound", err)
	}
}
