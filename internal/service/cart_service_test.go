package service

import (
	"errors"
	"testing"

	"github.com/preetizen/shop-api/internal/models"
	"github.com/preetizen/shop-api/internal/repository"

	"gorm.io/gorm"
)

func newCartServiceForTest(db *gorm.DB) *CartService {
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	return NewCartService(cartRepo, productRepo)
}

func TestAddItemMergesQuantity(t *testing.T) {
	db := setupOrderServiceDB(t, "cart_merge")
	cartService := newCartServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	if err := cartService.AddItem(1, p1.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := cartService.AddItem(1, p1.ID, 3); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	var item models.CartItem
	if err := db.Where("user_id = ? AND product_id = ?", 1, p1.ID).First(&item).Error; err != nil {
		t.Fatalf("load cart item failed: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", item.Quantity)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("same product should merge into one row, got %d", count)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := setupOrderServiceDB(t, "cart_unknown_product")
	cartService := newCartServiceForTest(db)

	if err := cartService.AddItem(1, 9999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestAddItemInvalidQuantity(t *testing.T) {
	db := setupOrderServiceDB(t, "cart_invalid_qty")
	cartService := newCartServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	if err := cartService.AddItem(1, p1.ID, 0); !errors.Is(err, ErrInvalidCartItem) {
		t.Fatalf("want ErrInvalidCartItem got %v", err)
	}
	if err := cartService.AddItem(1, p1.ID, -2); !errors.Is(err, ErrInvalidCartItem) {
		t.Fatalf("want ErrInvalidCartItem got %v", err)
	}
}

func TestSetQuantityOverwritesAndDeletes(t *testing.T) {
	db := setupOrderServiceDB(t, "cart_set_qty")
	cartService := newCartServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	if err := cartService.AddItem(1, p1.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cartService.SetQuantity(1, p1.ID, 7); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}

	var item models.CartItem
	if err := db.Where("user_id = ? AND product_id = ?", 1, p1.ID).First(&item).Error; err != nil {
		t.Fatalf("load cart item failed: %v", err)
	}
	if item.Quantity != 7 {
		t.Fatalf("quantity want 7 got %d", item.Quantity)
	}

	// 数量 <= 0 等价删除
	if err := cartService.SetQuantity(1, p1.ID, 0); err != nil {
		t.Fatalf("set quantity to zero failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("item should be removed, got %d rows", count)
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	db := setupOrderServiceDB(t, "cart_remove")
	cartService := newCartServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	if err := cartService.AddItem(1, p1.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cartService.RemoveItem(1, p1.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	// 再删一次也不报错
	if err := cartService.RemoveItem(1, p1.ID); err != nil {
		t.Fatalf("second remove should be idempotent, got %v", err)
	}
}

func TestClearOnlyAffectsOwner(t *testing.T) {
	db := setupOrderServiceDB(t, "cart_clear")
	cartService := newCartServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	if err := cartService.AddItem(1, p1.ID, 1); err != nil {
		t.Fatalf("add for user 1 failed: %v", err)
	}
	if err := cartService.AddItem(2, p1.ID, 4); err != nil {
		t.Fatalf("add for user 2 failed: %v", err)
	}

	if err := cartService.Clear(1); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	var count1, count2 int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count1).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 2).Count(&count2).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count1 != 0 {
		t.Fatalf("user 1 cart should be empty, got %d", count1)
	}
	if count2 != 1 {
		t.Fatalf("user 2 cart should be untouched, got %d", count2)
	}
}

func TestListByUserComputesSubtotal(t *testing.T) {
	db := setupOrderServiceDB(t, "cart_list")
	cartService := newCartServiceForTest(db)

	p1 := createTestProduct(t, db, "earphones", "99.99")

	if err := cartService.AddItem(1, p1.ID, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	details, err := cartService.ListByUser(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("want 1 detail got %d", len(details))
	}
	if details[0].Subtotal.String() != "299.97" {
		t.Fatalf("subtotal want 299.97 got %s", details[0].Subtotal.String())
	}
	if details[0].Product == nil || details[0].Product.Name != "earphones" {
		t.Fatalf("product should be attached to cart detail")
	}
}
