package repository

import (
	"testing"
	"time"

	"github.com/checkout-next/internal/models"
)

func TestOrderHeaderItemsAndCancel(t *testing.T) {
	db := openRepositoryTestDB(t, "order_repo")
	repo := NewOrderRepository(db)

	order := &models.Order{
		UserID:         5,
		CartID:         11,
		OrderDate:      time.Now(),
		TotalBillPrice: models.MustMoney("150.00"),
	}
	if err := repo.CreateHeader(order); err != nil {
		t.Fatalf("create header failed: %v", err)
	}
	items := []models.OrderItem{
		{OrderID: order.ID, ProductID: 1, ProductName: "A", UnitPrice: models.MustMoney("25.00"), Quantity: 2, LineTotal: models.MustMoney("50.00")},
		{OrderID: order.ID, ProductID: 2, ProductName: "B", UnitPrice: models.MustMoney("50.00"), Quantity: 2, LineTotal: models.MustMoney("100.00")},
	}
	if err := repo.CreateItems(items); err != nil {
		t.Fatalf("create items failed: %v", err)
	}

	loaded, err := repo.GetByUserAndID(5, order.ID)
	if err != nil || loaded == nil {
		t.Fatalf("get by user and id failed: %v", err)
	}
	if len(loaded.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(loaded.Items))
	}
	other, err := repo.GetByUserAndID(6, order.ID)
	if err != nil || other != nil {
		t.Fatalf("other user should not see the order, got %+v err=%v", other, err)
	}

	rows, total, err := repo.List(OrderListFilter{UserID: 5})
	if err != nil || total != 1 || len(rows) != 1 {
		t.Fatalf("list by user want 1 got total=%d len=%d err=%v", total, len(rows), err)
	}

	if err := repo.DeleteWithItems(order.ID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}
	var remaining int64
	if err := db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("order items should cascade, remaining=%d", remaining)
	}
	gone, err := repo.GetByID(order.ID)
	if err != nil || gone != nil {
		t.Fatalf("deleted order should be absent, got %+v err=%v", gone, err)
	}
}
