package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/preetizen/shop-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestAddQuantityUpsertMerges(t *testing.T) {
	db := setupRepositoryDB(t, "repo_cart_upsert")
	repo := NewCartRepository(db)

	now := time.Now()
	first := &models.CartItem{UserID: 1, ProductID: 10, Quantity: 2, CreatedAt: now, UpdatedAt: now}
	if err := repo.AddQuantity(first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	second := &models.CartItem{UserID: 1, ProductID: 10, Quantity: 3, CreatedAt: now, UpdatedAt: now}
	if err := repo.AddQuantity(second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	var item models.CartItem
	if err := db.Where("user_id = ? AND product_id = ?", 1, 10).First(&item).Error; err != nil {
		t.Fatalf("load cart item failed: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", item.Quantity)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("upsert should keep a single row, got %d", count)
	}
}

func TestAddQuantityConcurrentAddsSum(t *testing.T) {
	db := setupRepositoryDB(t, "repo_cart_concurrent")
	// sqlite 串行化写连接，限制为单连接避免 busy 错误；
	// 合并语义仍由 upsert 保证，读改写实现会在这里丢失更新
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	repo := NewCartRepository(db)
	const workers = 4
	const addsPerWorker = 5

	var wg sync.WaitGroup
	errCh := make(chan error, workers*addsPerWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < addsPerWorker; j++ {
				now := time.Now()
				item := &models.CartItem{UserID: 1, ProductID: 10, Quantity: 1, CreatedAt: now, UpdatedAt: now}
				if err := repo.AddQuantity(item); err != nil {
					errCh <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("concurrent upsert failed: %v", err)
	}

	var item models.CartItem
	if err := db.Where("user_id = ? AND product_id = ?", 1, 10).First(&item).Error; err != nil {
		t.Fatalf("load cart item failed: %v", err)
	}
	if item.Quantity != workers*addsPerWorker {
		t.Fatalf("quantity want %d got %d (lost update)", workers*addsPerWorker, item.Quantity)
	}
}

func TestAddQuantityKeepsUsersSeparate(t *testing.T) {
	db := setupRepositoryDB(t, "repo_cart_users")
	repo := NewCartRepository(db)

	now := time.Now()
	if err := repo.AddQuantity(&models.CartItem{UserID: 1, ProductID: 10, Quantity: 1, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.AddQuantity(&models.CartItem{UserID: 2, ProductID: 10, Quantity: 4, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("different users must not merge, got %d rows", count)
	}
}

func TestSetQuantityOverwrites(t *testing.T) {
	db := setupRepositoryDB(t, "repo_cart_set")
	repo := NewCartRepository(db)

	now := time.Now()
	if err := repo.AddQuantity(&models.CartItem{UserID: 1, ProductID: 10, Quantity: 2, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.SetQuantity(&models.CartItem{UserID: 1, ProductID: 10, Quantity: 9, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}

	var item models.CartItem
	if err := db.Where("user_id = ? AND product_id = ?", 1, 10).First(&item).Error; err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if item.Quantity != 9 {
		t.Fatalf("quantity want 9 got %d", item.Quantity)
	}
}

func TestProductListFilters(t *testing.T) {
	db := setupRepositoryDB(t, "repo_product_list")
	repo := NewProductRepository(db)

	seed := []models.Product{
		{Name: "Wireless Earphones", Category: "electronics", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99))},
		{Name: "Smart Watch", Category: "electronics", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99))},
		{Name: "Coffee Mug", Category: "lifestyle", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50))},
	}
	for i := range seed {
		if err := repo.Create(&seed[i]); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	products, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Category: "electronics"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("category filter: want 2 got total=%d len=%d", total, len(products))
	}

	products, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "Watch"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || products[0].Name != "Smart Watch" {
		t.Fatalf("search filter: want Smart Watch got total=%d", total)
	}

	products, total, err = repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(products) != 1 {
		t.Fatalf("pagination: want total=3 len=1 got total=%d len=%d", total, len(products))
	}

	categories, err := repo.ListCategories()
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0] != "electronics" || categories[1] != "lifestyle" {
		t.Fatalf("categories want [electronics lifestyle] got %v", categories)
	}
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db := setupRepositoryDB(t, "repo_user_not_found")
	repo := NewUserRepository(db)

	user, err := repo.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user != nil {
		t.Fatalf("missing user should return nil, got %+v", user)
	}
}
