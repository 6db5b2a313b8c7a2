package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/queue"
	"github.com/checkout-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	db             *gorm.DB
	inventory      *InventoryService
	inventoryCalls *recordingInventory
	carts          *CartService
	orders         *OrderService
	reconcile      *ReconciliationService
	payments       *PaymentService
}

func openServiceTestDB(t *testing.T, prefix string) *gorm.DB {
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

// newCheckoutFixture 以进程内网关连接四个服务
func newCheckoutFixture(t *testing.T, prefix string) *checkoutFixture {
	t.Helper()
	return newCheckoutFixtureWithDB(t, openServiceTestDB(t, prefix))
}

func newCheckoutFixtureWithDB(t *testing.T, db *gorm.DB) *checkoutFixture {
	t.Helper()
	inventory := NewInventoryService(repository.NewProductRepository(db))
	recording := &recordingInventory{InventoryGateway: inventory}
	carts := NewCartService(repository.NewCartRepository(db), recording)
	orders := NewOrderService(repository.NewOrderRepository(db), carts, time.Minute)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	reconcile := NewReconciliationService(repository.NewReconciliationRepository(db), queueClient)
	payments := NewPaymentService(repository.NewTransactionRepository(db), orders, carts, reconcile)
	return &checkoutFixture{
		db:             db,
		inventory:      inventory,
		inventoryCalls: recording,
		carts:          carts,
		orders:         orders,
		reconcile:      reconcile,
		payments:       payments,
	}
}

func (f *checkoutFixture) createProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	product, err := f.inventory.Create(ProductInput{
		Name:          name,
		Category:      "Test",
		Price:         models.MustMoney(price).Decimal,
		StockQuantity: stock,
	})
	if err != nil {
		t.Fatalf("create product %s failed: %v", name, err)
	}
	return product
}

func (f *checkoutFixture) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	product, err := f.inventory.GetProductByID(context.Background(), productID)
	if err != nil {
		t.Fatalf("get product %d failed: %v", productID, err)
	}
	return product.StockQuantity
}

func assertCartTotalConsistent(t *testing.T, cart *models.Cart) {
	t.Helper()
	sum := models.ZeroMoney()
	for _, item := range cart.Items {
		if item.Quantity <= 0 {
			t.Fatalf("cart item %s stored with quantity %d", item.ProductName, item.Quantity)
		}
		if !item.LineTotal.Equal(item.UnitPrice.Times(item.Quantity).Decimal) {
			t.Fatalf("line total mismatch for %s: %s != %s x %d", item.ProductName, item.LineTotal, item.UnitPrice, item.Quantity)
		}
		sum = sum.Plus(item.LineTotal)
	}
	if !cart.TotalAmount.Equal(sum.Decimal) {
		t.Fatalf("cart total %s != sum of lines %s", cart.TotalAmount, sum)
	}
}

// recordingInventory 记录扣减调用，可对指定商品注入失败
type recordingInventory struct {
	InventoryGateway
	mu       sync.Mutex
	failOn   map[uint]error
	attempts []uint
}

func (r *recordingInventory) ReduceStock(ctx context.Context, productID uint, quantity int) error {
	r.mu.Lock()
	r.attempts = append(r.attempts, productID)
	failure := r.failOn[productID]
	r.mu.Unlock()
	if failure != nil {
		return failure
	}
	return r.InventoryGateway.ReduceStock(ctx, productID, quantity)
}

func (r *recordingInventory) failProduct(productID uint, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == nil {
		r.failOn = make(map[uint]error)
	}
	r.failOn[productID] = err
}

func (r *recordingInventory) reduceAttempts() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.attempts...)
}
