package main

import (
	"errors"
	"log"

	"github.com/preetizen/shop-api/internal/config"
	"github.com/preetizen/shop-api/internal/logger"
	"github.com/preetizen/shop-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商品
	products := []models.Product{
		{
			Name:        "Wireless Bluetooth Earphones",
			Description: "High quality sound, long battery life, comfortable to wear",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			Category:    "electronics",
			ImageURL:    "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
		},
		{
			Name:        "Smart Watch",
			Description: "Fitness tracking, heart rate monitoring, message notifications",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)),
			Category:    "electronics",
			ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800",
		},
		{
			Name:        "Mechanical Keyboard",
			Description: "Hot-swappable switches, RGB backlight, aluminum frame",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(129.00)),
			Category:    "accessories",
			ImageURL:    "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=800",
		},
		{
			Name:        "Ceramic Coffee Mug",
			Description: "Double-walled, keeps drinks warm for hours",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50)),
			Category:    "lifestyle",
			ImageURL:    "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=800",
		},
		{
			Name:        "Canvas Tote Bag",
			Description: "Durable organic cotton, fits a 15-inch laptop",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(35.00)),
			Category:    "lifestyle",
			ImageURL:    "https://images.unsplash.com/photo-1544816155-12df9643f363?w=800",
		},
		{
			Name:        "USB-C Charging Cable",
			Description: "Braided nylon, 100W fast charging, 2 meters",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(15.99)),
			Category:    "accessories",
			ImageURL:    "https://images.unsplash.com/photo-1583863788434-e58a36330cf0?w=800",
		},
	}

	seedProducts(models.DB, products, stdLog)

	stdLog.Printf("Seed finished")
}

// seedProducts 按名称幂等写入商品，查询出错时不盲目创建
func seedProducts(db *gorm.DB, products []models.Product, stdLog *log.Logger) {
	for _, product := range products {
		var existing models.Product
		err := db.Where("name = ?", product.Name).First(&existing).Error
		switch {
		case err == nil:
			stdLog.Printf("Product already exists: %s", product.Name)
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		default:
			stdLog.Printf("Failed to query product %s: %v", product.Name, err)
		}
	}
}
