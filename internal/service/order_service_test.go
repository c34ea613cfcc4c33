package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/preetizen/shop-api/internal/constants"
	"github.com/preetizen/shop-api/internal/models"
	"github.com/preetizen/shop-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func newOrderServiceForTest(db *gorm.DB) (*OrderService, *CartService) {
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderService := NewOrderService(orderRepo, cartRepo, productRepo, nil)
	cartService := NewCartService(cartRepo, productRepo)
	return orderService, cartService
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price string) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Category: "test",
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestPlaceOrderCreatesOrderAndClearsCart(t *testing.T) {
	db := setupOrderServiceDB(t, "order_place")
	orderService, cartService := newOrderServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")
	p2 := createTestProduct(t, db, "watch", "199.99")

	if err := cartService.AddItem(1, p1.ID, 2); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}
	if err := cartService.AddItem(1, p2.ID, 1); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}

	order, err := orderService.PlaceOrder(PlaceOrderInput{
		UserID: 1,
		Items: []PlaceOrderItem{
			{ProductID: p1.ID, Quantity: 2, Price: p1.Price},
			{ProductID: p2.ID, Quantity: 1, Price: p2.Price},
		},
		Total:           models.NewMoneyFromDecimal(decimal.RequireFromString("399.97")),
		ShippingAddress: "1 Test Street",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.ID == 0 {
		t.Fatalf("order id should be assigned")
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if !strings.HasPrefix(order.OrderNo, "PZ") {
		t.Fatalf("order no should have PZ prefix, got %s", order.OrderNo)
	}

	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count order items failed: %v", err)
	}
	if itemCount != 2 {
		t.Fatalf("order items want 2 got %d", itemCount)
	}

	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("cart should be empty after order, got %d items", cartCount)
	}
}

func TestPlaceOrderEmptyItems(t *testing.T) {
	db := setupOrderServiceDB(t, "order_empty")
	orderService, _ := newOrderServiceForTest(db)

	_, err := orderService.PlaceOrder(PlaceOrderInput{
		UserID: 1,
		Items:  nil,
		Total:  models.NewMoneyFromDecimal(decimal.Zero),
	})
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("want ErrEmptyOrder got %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("no order should be created, got %d", orderCount)
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db := setupOrderServiceDB(t, "order_unknown_product")
	orderService, _ := newOrderServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	_, err := orderService.PlaceOrder(PlaceOrderInput{
		UserID: 1,
		Items: []PlaceOrderItem{
			{ProductID: p1.ID, Quantity: 1, Price: p1.Price},
			{ProductID: 9999, Quantity: 1, Price: p1.Price},
		},
		Total: models.NewMoneyFromDecimal(decimal.RequireFromString("199.98")),
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
	if !strings.Contains(err.Error(), "9999") {
		t.Fatalf("error should name the missing product id, got %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("no order should be created, got %d", orderCount)
	}
	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count order items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("no order item should be created, got %d", itemCount)
	}
}

func TestPlaceOrderInvalidQuantity(t *testing.T) {
	db := setupOrderServiceDB(t, "order_invalid_qty")
	orderService, _ := newOrderServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	_, err := orderService.PlaceOrder(PlaceOrderInput{
		UserID: 1,
		Items: []PlaceOrderItem{
			{ProductID: p1.ID, Quantity: 0, Price: p1.Price},
		},
		Total: models.NewMoneyFromDecimal(decimal.Zero),
	})
	if !errors.Is(err, ErrInvalidOrderItem) {
		t.Fatalf("want ErrInvalidOrderItem got %v", err)
	}
}

func TestPlaceOrderRollsBackOnItemInsertFailure(t *testing.T) {
	db := setupOrderServiceDB(t, "order_rollback")
	orderService, _ := newOrderServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	// 让订单项写入必然失败，验证事务把已写入的订单一并回滚
	if err := db.Migrator().DropTable(&models.OrderItem{}); err != nil {
		t.Fatalf("drop order_items failed: %v", err)
	}

	_, err := orderService.PlaceOrder(PlaceOrderInput{
		UserID: 1,
		Items: []PlaceOrderItem{
			{ProductID: p1.ID, Quantity: 1, Price: p1.Price},
		},
		Total: p1.Price,
	})
	if err == nil {
		t.Fatalf("place order should fail when order item insert fails")
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("order insert must roll back with its items, got %d orders", orderCount)
	}
}

func TestGetOrderByUserOwnership(t *testing.T) {
	db := setupOrderServiceDB(t, "order_ownership")
	orderService, _ := newOrderServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")
	order, err := orderService.PlaceOrder(PlaceOrderInput{
		UserID: 1,
		Items: []PlaceOrderItem{
			{ProductID: p1.ID, Quantity: 1, Price: p1.Price},
		},
		Total: p1.Price,
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if _, err := orderService.GetOrderByUser(order.ID, 1); err != nil {
		t.Fatalf("owner should read order, got %v", err)
	}
	if _, err := orderService.GetOrderByUser(order.ID, 2); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other user should get ErrOrderNotFound, got %v", err)
	}
	if _, err := orderService.GetOrderByUser(8888, 1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order should get ErrOrderNotFound, got %v", err)
	}
}

func TestListOrdersByUserNewestFirst(t *testing.T) {
	db := setupOrderServiceDB(t, "order_list")
	orderService, _ := newOrderServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	var ids []uint
	for i := 0; i < 3; i++ {
		order, err := orderService.PlaceOrder(PlaceOrderInput{
			UserID: 1,
			Items: []PlaceOrderItem{
				{ProductID: p1.ID, Quantity: 1, Price: p1.Price},
			},
			Total: p1.Price,
		})
		if err != nil {
			t.Fatalf("place order failed: %v", err)
		}
		ids = append(ids, order.ID)
	}

	orders, total, err := orderService.ListOrdersByUser(1, 1, 10)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 3 || len(orders) != 3 {
		t.Fatalf("want 3 orders got total=%d len=%d", total, len(orders))
	}
	if orders[0].ID != ids[2] {
		t.Fatalf("newest order should come first, want %d got %d", ids[2], orders[0].ID)
	}
}

func TestGenerateOrderNo(t *testing.T) {
	orderNo := generateOrderNo()
	if !strings.HasPrefix(orderNo, "PZ") {
		t.Fatalf("order no should have PZ prefix, got %s", orderNo)
	}
	if len(orderNo) != 2+14+6 {
		t.Fatalf("unexpected order no length: %s", orderNo)
	}
}
