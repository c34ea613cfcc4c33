package main

import (
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/preetizen/shop-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestSeedProductsIdempotent(t *testing.T) {
	db := setupSeedDB(t, "seed_idempotent")
	stdLog := log.New(io.Discard, "", 0)

	products := []models.Product{
		{Name: "Smart Watch", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)), Category: "electronics"},
		{Name: "Coffee Mug", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50)), Category: "lifestyle"},
	}

	seedProducts(db, products, stdLog)
	seedProducts(db, products, stdLog)

	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("re-running seed must not duplicate rows, got %d", count)
	}
}

func TestSeedProductsSkipsExisting(t *testing.T) {
	db := setupSeedDB(t, "seed_existing")
	stdLog := log.New(io.Discard, "", 0)

	existing := models.Product{
		Name:     "Smart Watch",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(149.99)),
		Category: "electronics",
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("create existing product failed: %v", err)
	}

	seedProducts(db, []models.Product{
		{Name: "Smart Watch", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)), Category: "electronics"},
	}, stdLog)

	var got models.Product
	if err := db.Where("name = ?", "Smart Watch").First(&got).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if got.Price.String() != "149.99" {
		t.Fatalf("existing product must be left untouched, got price %s", got.Price.String())
	}
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("want 1 product got %d", count)
	}
}
