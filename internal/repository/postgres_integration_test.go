//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/checkout-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.CartItem{},
		&models.Cart{},
		&models.OrderItem{},
		&models.Order{},
		&models.Transaction{},
		&models.ReconciliationIssue{},
		&models.Product{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.AutoMigrateWith(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductSearchAndStock(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)

	product := &models.Product{
		Name:          "Rocket Booster",
		Description:   "launch package",
		Category:      "Space",
		Price:         models.MustMoney("99.00"),
		StockQuantity: 5,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	rows, total, err := repo.List(ProductListFilter{Page: 1, Search: "BOOSTER"})
	if err != nil {
		t.Fatalf("product search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search want 1 got total=%d len=%d", total, len(rows))
	}

	found, err := repo.GetByName("rocket booster")
	if err != nil || found == nil {
		t.Fatalf("get by name failed: %v", err)
	}

	affected, err := repo.ReduceStock(product.ID, 6)
	if err != nil {
		t.Fatalf("reduce stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("reduce beyond stock should not affect rows, got %d", affected)
	}
	if affected, err = repo.ReduceStock(product.ID, 5); err != nil || affected != 1 {
		t.Fatalf("reduce exact stock want 1 row got %d err=%v", affected, err)
	}
}

func TestPostgresCartRowLock(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCartRepository(db)

	cart := &models.Cart{UserID: 7, TotalAmount: models.ZeroMoney()}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	err := repo.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.WithTx(tx).GetByUserForUpdate(7)
		if err != nil {
			return err
		}
		if locked == nil || locked.ID != cart.ID {
			t.Fatalf("expected locked cart %d", cart.ID)
		}
		return repo.WithTx(tx).UpdateTotal(cart.ID, models.MustMoney("12.34"))
	})
	if err != nil {
		t.Fatalf("locked update failed: %v", err)
	}

	reloaded, err := repo.GetByUser(7)
	if err != nil || reloaded == nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if reloaded.TotalAmount.String() != "12.34" {
		t.Fatalf("cart total want 12.34 got %s", reloaded.TotalAmount.String())
	}
}
