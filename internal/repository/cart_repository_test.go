package repository

import (
	"testing"

	"github.com/checkout-next/internal/models"

	"gorm.io/gorm"
)

func createTestCart(t *testing.T, repo *GormCartRepository, userID uint) *models.Cart {
	t.Helper()
	cart := &models.Cart{UserID: userID, TotalAmount: models.ZeroMoney()}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	return cart
}

func TestCartItemsLookupAndDelete(t *testing.T) {
	repo := NewCartRepository(openRepositoryTestDB(t, "cart_items"))
	cart := createTestCart(t, repo, 9)

	item := &models.CartItem{
		CartID:      cart.ID,
		ProductID:   3,
		ProductName: "Green Tea",
		UnitPrice:   models.MustMoney("4.25"),
		Quantity:    2,
		LineTotal:   models.MustMoney("8.50"),
	}
	if err := repo.SaveItem(item); err != nil {
		t.Fatalf("save item failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatalf("expected item id to be assigned")
	}

	found, err := repo.GetItemByName(cart.ID, "GREEN tea")
	if err != nil || found == nil || found.ID != item.ID {
		t.Fatalf("get item by name failed: %+v err=%v", found, err)
	}
	byProduct, err := repo.GetItemByProduct(cart.ID, 3)
	if err != nil || byProduct == nil {
		t.Fatalf("get item by product failed: %v", err)
	}

	found.Quantity = 3
	found.LineTotal = models.MustMoney("12.75")
	if err := repo.SaveItem(found); err != nil {
		t.Fatalf("update item failed: %v", err)
	}

	loaded, err := repo.GetByUser(9)
	if err != nil || loaded == nil {
		t.Fatalf("get cart by user failed: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 3 {
		t.Fatalf("expected one item with quantity 3, got %+v", loaded.Items)
	}

	affected, err := repo.Delete(cart.ID)
	if err != nil || affected != 1 {
		t.Fatalf("delete cart want 1 got %d err=%v", affected, err)
	}
	items, err := repo.ListItems(cart.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart items should be removed with the cart, got %d", len(items))
	}
	missing, err := repo.GetByUser(9)
	if err != nil || missing != nil {
		t.Fatalf("deleted cart should be absent, got %+v err=%v", missing, err)
	}
}

func TestCartTransactionRollsBack(t *testing.T) {
	repo := NewCartRepository(openRepositoryTestDB(t, "cart_tx"))
	cart := createTestCart(t, repo, 4)

	err := repo.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		locked, err := txRepo.GetByUserForUpdate(4)
		if err != nil {
			return err
		}
		if err := txRepo.UpdateTotal(locked.ID, models.MustMoney("10.00")); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	if err == nil {
		t.Fatalf("expected transaction error")
	}

	reloaded, err := repo.GetByID(cart.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if !reloaded.TotalAmount.IsZero() {
		t.Fatalf("total should roll back to 0, got %s", reloaded.TotalAmount.String())
	}
}
