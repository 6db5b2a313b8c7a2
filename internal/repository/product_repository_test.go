package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/checkout-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T, prefix string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", prefix, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrateWith(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createTestProduct(t *testing.T, repo *GormProductRepository, name, category, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Description:   name + " description",
		Category:      category,
		Price:         models.MustMoney(price),
		StockQuantity: stock,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductReduceStockConditional(t *testing.T) {
	repo := NewProductRepository(openRepositoryTestDB(t, "product_reduce"))
	product := createTestProduct(t, repo, "Milk", "Dairy", "1.20", 5)

	affected, err := repo.ReduceStock(product.ID, 3)
	if err != nil {
		t.Fatalf("reduce stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("reduce affected want 1 got %d", affected)
	}

	affected, err = repo.ReduceStock(product.ID, 3)
	if err != nil {
		t.Fatalf("reduce stock second call failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("insufficient stock should affect 0 rows, got %d", affected)
	}

	reloaded, err := repo.GetByID(product.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 2 {
		t.Fatalf("stock want 2 got %d", reloaded.StockQuantity)
	}

	if _, err := repo.ReduceStock(product.ID, 0); err == nil {
		t.Fatalf("zero quantity should be rejected")
	}
	if affected, err := repo.ReduceStock(product.ID+100, 1); err != nil || affected != 0 {
		t.Fatalf("missing product should affect 0 rows, got %d err=%v", affected, err)
	}
}

func TestProductLookupIsCaseInsensitive(t *testing.T) {
	repo := NewProductRepository(openRepositoryTestDB(t, "product_lookup"))
	product := createTestProduct(t, repo, "Green Tea", "Beverages", "4.25", 10)
	createTestProduct(t, repo, "Black Coffee", "beverages", "3.00", 10)
	createTestProduct(t, repo, "Soap", "Household", "2.00", 10)

	found, err := repo.GetByName("  green TEA ")
	if err != nil {
		t.Fatalf("get by name failed: %v", err)
	}
	if found == nil || found.ID != product.ID {
		t.Fatalf("expected product %d, got %+v", product.ID, found)
	}

	missing, err := repo.GetByName("Oolong")
	if err != nil {
		t.Fatalf("get missing by name failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing product")
	}

	byCategory, err := repo.ListByCategory("BEVERAGES")
	if err != nil {
		t.Fatalf("list by category failed: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("category list want 2 got %d", len(byCategory))
	}

	count, err := repo.CountByName("green tea", 0)
	if err != nil || count != 1 {
		t.Fatalf("count by name want 1 got %d err=%v", count, err)
	}
	count, err = repo.CountByName("green tea", product.ID)
	if err != nil || count != 0 {
		t.Fatalf("count excluding self want 0 got %d err=%v", count, err)
	}
}

func TestProductListSearchAndPagination(t *testing.T) {
	repo := NewProductRepository(openRepositoryTestDB(t, "product_list"))
	createTestProduct(t, repo, "Apple Juice", "Beverages", "2.50", 3)
	createTestProduct(t, repo, "Orange Juice", "Beverages", "2.70", 3)
	createTestProduct(t, repo, "Bread", "Bakery", "1.10", 3)

	rows, total, err := repo.List(ProductListFilter{Search: "juice"})
	if err != nil {
		t.Fatalf("list search failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("search want 2 got total=%d len=%d", total, len(rows))
	}

	rows, total, err = repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list page failed: %v", err)
	}
	if total != 3 || len(rows) != 1 {
		t.Fatalf("page 2 want 1 row of 3 got total=%d len=%d", total, len(rows))
	}
	if rows[0].Name != "Bread" {
		t.Fatalf("page 2 should contain Bread, got %s", rows[0].Name)
	}
}

func TestProductSetStockAndDelete(t *testing.T) {
	repo := NewProductRepository(openRepositoryTestDB(t, "product_set_stock"))
	product := createTestProduct(t, repo, "Rice", "Grocery", "9.99", 1)

	if _, err := repo.SetStock(product.ID, -1); err == nil {
		t.Fatalf("negative stock should be rejected")
	}
	affected, err := repo.SetStock(product.ID, 40)
	if err != nil || affected != 1 {
		t.Fatalf("set stock want 1 row got %d err=%v", affected, err)
	}
	reloaded, _ := repo.GetByID(product.ID)
	if reloaded.StockQuantity != 40 {
		t.Fatalf("stock want 40 got %d", reloaded.StockQuantity)
	}

	affected, err = repo.Delete(product.ID)
	if err != nil || affected != 1 {
		t.Fatalf("delete want 1 row got %d err=%v", affected, err)
	}
	gone, err := repo.GetByID(product.ID)
	if err != nil || gone != nil {
		t.Fatalf("deleted product should be absent, got %+v err=%v", gone, err)
	}
}
