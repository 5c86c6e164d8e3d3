package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"BookHive/dao"
	"BookHive/models"
	"BookHive/types"
)

func TestCreateOrderReservesStock(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	book := seedBook(t, db, "Go 程序设计语言", 6900, 10)
	item := seedCartItem(t, db, 1001, book.ID, 3)

	detail, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{item.ID},
		Receiver:    "张三",
		Phone:       "13800000000",
		Address:     "北京市海淀区",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if detail.Status != models.OrderStatusPending {
		t.Fatalf("order status = %d, want %d", detail.Status, models.OrderStatusPending)
	}
	if detail.TotalAmount != 6900*3 {
		t.Fatalf("total amount = %d, want %d", detail.TotalAmount, 6900*3)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(detail.Items))
	}

	sp := mustStockpile(t, db, book.ID)
	if sp.Amount != 10 || sp.Frozen != 3 {
		t.Fatalf("stockpile = (%d, %d), want (10, 3)", sp.Amount, sp.Frozen)
	}

	// 条目转入占用态，不能再次结算
	var cart models.CartItem
	if err := db.First(&cart, item.ID).Error; err != nil {
		t.Fatalf("reload cart item: %v", err)
	}
	if cart.Status != models.CartItemStatusCheckedOut || cart.OrderID != detail.ID {
		t.Fatalf("cart item = (status %d, order %d), want (%d, %d)",
			cart.Status, cart.OrderID, models.CartItemStatusCheckedOut, detail.ID)
	}
}

func TestCreateOrderMergesSameBook(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	book := seedBook(t, db, "代码大全", 9900, 5)
	a := seedCartItem(t, db, 1001, book.ID, 2)
	b := seedCartItem(t, db, 1001, book.ID, 2)

	detail, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{a.ID, b.ID},
		Receiver:    "张三", Phone: "13800000000", Address: "北京市",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if detail.TotalAmount != 9900*4 {
		t.Fatalf("total = %d, want %d", detail.TotalAmount, 9900*4)
	}

	sp := mustStockpile(t, db, book.ID)
	if sp.Frozen != 4 {
		t.Fatalf("frozen = %d, want 4", sp.Frozen)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	ok := seedBook(t, db, "充足的书", 1000, 10)
	scarce := seedBook(t, db, "紧俏的书", 2000, 1)
	a := seedCartItem(t, db, 1001, ok.ID, 2)
	b := seedCartItem(t, db, 1001, scarce.ID, 5)

	_, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{a.ID, b.ID},
		Receiver:    "张三", Phone: "13800000000", Address: "北京市",
	})
	if !errors.Is(err, dao.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// 整体回滚：已预占的第一本书也要退回去
	for _, bk := range []*models.Book{ok, scarce} {
		sp := mustStockpile(t, db, bk.ID)
		if sp.Frozen != 0 {
			t.Fatalf("book %d frozen = %d after rollback, want 0", bk.ID, sp.Frozen)
		}
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("orders = %d after failed checkout, want 0", count)
	}
	var cart models.CartItem
	db.First(&cart, a.ID)
	if cart.Status != models.CartItemStatusActive {
		t.Fatalf("cart item status = %d, want active", cart.Status)
	}
}

func TestCreateOrderRejectsForeignCartItem(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	book := seedBook(t, db, "别人的书", 1000, 10)
	other := seedCartItem(t, db, 2002, book.ID, 1)

	_, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{other.ID},
		Receiver:    "张三", Phone: "13800000000", Address: "北京市",
	})
	if !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("err = %v, want ErrCartItemNotFound", err)
	}
}

func TestCreateOrderConcurrentNoOversell(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	book := seedBook(t, db, "只剩一本", 5000, 1)
	a := seedCartItem(t, db, 1001, book.ID, 1)
	b := seedCartItem(t, db, 2002, book.ID, 1)

	type result struct{ err error }
	results := make([]result, 2)
	var wg sync.WaitGroup
	for i, tc := range []struct {
		userID int64
		itemID int64
	}{{1001, a.ID}, {2002, b.ID}} {
		wg.Add(1)
		go func(i int, userID, itemID int64) {
			defer wg.Done()
			_, err := svc.CreateOrder(ctx, userID, &types.CreateOrderRequest{
				CartItemIDs: []int64{itemID},
				Receiver:    "并发买家", Phone: "13800000000", Address: "北京市",
			})
			results[i] = result{err: err}
		}(i, tc.userID, tc.itemID)
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.err == nil {
			succeeded++
		} else if !errors.Is(r.err, dao.ErrInsufficientStock) {
			t.Fatalf("unexpected error: %v", r.err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded)
	}

	sp := mustStockpile(t, db, book.ID)
	if sp.Frozen != 1 || sp.Amount != 1 {
		t.Fatalf("stockpile = (%d, %d), want (1, 1)", sp.Amount, sp.Frozen)
	}
}

func TestCancelOrderReleasesReservation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	book := seedBook(t, db, "取消的书", 3000, 8)
	item := seedCartItem(t, db, 1001, book.ID, 2)
	detail, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{item.ID},
		Receiver:    "张三", Phone: "13800000000", Address: "北京市",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := svc.CancelOrder(ctx, 1001, detail.ID, "不想要了"); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	order := mustOrder(t, db, detail.ID)
	if order.Status != models.OrderStatusCancelled {
		t.Fatalf("order status = %d, want cancelled", order.Status)
	}
	sp := mustStockpile(t, db, book.ID)
	if sp.Amount != 8 || sp.Frozen != 0 {
		t.Fatalf("stockpile = (%d, %d), want (8, 0)", sp.Amount, sp.Frozen)
	}
	// 条目放回购物车可重新结算
	var cart models.CartItem
	db.First(&cart, item.ID)
	if cart.Status != models.CartItemStatusActive || cart.OrderID != 0 {
		t.Fatalf("cart item = (status %d, order %d), want restored", cart.Status, cart.OrderID)
	}
}

func TestCancelOrderOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	book := seedBook(t, db, "重复取消", 3000, 8)
	item := seedCartItem(t, db, 1001, book.ID, 2)
	detail, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{item.ID},
		Receiver:    "张三", Phone: "13800000000", Address: "北京市",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := svc.CancelOrder(ctx, 1001, detail.ID, ""); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	err = svc.CancelOrder(ctx, 1001, detail.ID, "")
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("second cancel err = %v, want ErrInvalidStateTransition", err)
	}

	// 库存只归还了一次
	sp := mustStockpile(t, db, book.ID)
	if sp.Frozen != 0 || sp.Amount != 8 {
		t.Fatalf("stockpile = (%d, %d), want (8, 0)", sp.Amount, sp.Frozen)
	}
}

func TestCancelOrderOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	book := seedBook(t, db, "他人订单", 3000, 8)
	item := seedCartItem(t, db, 1001, book.ID, 1)
	detail, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{item.ID},
		Receiver:    "张三", Phone: "13800000000", Address: "北京市",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := svc.CancelOrder(ctx, 9999, detail.ID, ""); !errors.Is(err, ErrOwnershipViolation) {
		t.Fatalf("err = %v, want ErrOwnershipViolation", err)
	}
	if _, err := svc.GetOrder(ctx, 9999, detail.ID); !errors.Is(err, ErrOwnershipViolation) {
		t.Fatalf("get err = %v, want ErrOwnershipViolation", err)
	}
}

func TestConfirmReceiptOnlyFromPaid(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	paySvc := newPayService(db, &fakeGateway{prepayID: "prepay-abc"})
	ctx := context.Background()

	book := seedBook(t, db, "确认收货", 3000, 8)
	item := seedCartItem(t, db, 1001, book.ID, 1)
	detail, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
		CartItemIDs: []int64{item.ID},
		Receiver:    "张三", Phone: "13800000000", Address: "北京市",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// 未支付不能确认收货
	if err := svc.ConfirmReceipt(ctx, 1001, detail.ID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("err = %v, want ErrInvalidStateTransition", err)
	}

	if err := paySvc.ProcessPaymentNotify(ctx, successNotify(detail.OrderSn, detail.TotalAmount)); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if err := svc.ConfirmReceipt(ctx, 1001, detail.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := mustOrder(t, db, detail.ID).Status; got != models.OrderStatusCompleted {
		t.Fatalf("status = %d, want completed", got)
	}
}

func TestListOrdersCursor(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	book := seedBook(t, db, "翻页的书", 100, 100)
	for i := 0; i < 5; i++ {
		item := seedCartItem(t, db, 1001, book.ID, 1)
		if _, err := svc.CreateOrder(ctx, 1001, &types.CreateOrderRequest{
			CartItemIDs: []int64{item.ID},
			Receiver:    "张三", Phone: "13800000000", Address: "北京市",
		}); err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
	}

	page1, err := svc.ListOrders(ctx, 1001, 0, 3)
	if err != nil {
		t.Fatalf("list page1: %v", err)
	}
	if len(page1.Orders) != 3 || !page1.HasMore {
		t.Fatalf("page1 = %d orders, hasMore=%v", len(page1.Orders), page1.HasMore)
	}

	page2, err := svc.ListOrders(ctx, 1001, page1.NextCursor, 3)
	if err != nil {
		t.Fatalf("list page2: %v", err)
	}
	if len(page2.Orders) != 2 || page2.HasMore {
		t.Fatalf("page2 = %d orders, hasMore=%v", len(page2.Orders), page2.HasMore)
	}
}
