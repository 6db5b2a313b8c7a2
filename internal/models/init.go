package models

import (
	"github.com/checkout-next/internal/logger"

	"gorm.io/gorm"
)

// DemoProducts 演示商品目录
func DemoProducts() []Product {
	return []Product{
		{Name: "Basmati Rice 5kg", Description: "Long grain rice", Category: "Grocery", Price: MustMoney("12.50"), StockQuantity: 40},
		{Name: "Sunflower Oil 1L", Description: "Refined cooking oil", Category: "Grocery", Price: MustMoney("3.99"), StockQuantity: 60},
		{Name: "Green Tea 100g", Description: "Loose leaf tea", Category: "Beverages", Price: MustMoney("4.25"), StockQuantity: 25},
		{Name: "Instant Coffee 200g", Description: "Freeze dried coffee", Category: "Beverages", Price: MustMoney("7.80"), StockQuantity: 18},
		{Name: "Dish Soap 500ml", Description: "Lemon scented", Category: "Household", Price: MustMoney("2.10"), StockQuantity: 35},
		{Name: "Paper Towels 6pk", Description: "Two ply", Category: "Household", Price: MustMoney("5.49"), StockQuantity: 12},
	}
}

// SeedDemoProducts 商品表为空时写入演示目录
func SeedDemoProducts(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Infow("seed_products_skipped", "existing", count)
		return 0, nil
	}
	products := DemoProducts()
	if err := db.Create(&products).Error; err != nil {
		return 0, err
	}
	logger.Infow("seed_products_created", "count", len(products))
	return len(products), nil
}
