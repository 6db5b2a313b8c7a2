package repository

import (
	"testing"
	"time"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/models"
)

func TestTransactionQueries(t *testing.T) {
	repo := NewTransactionRepository(openRepositoryTestDB(t, "transaction_repo"))
	now := time.Now()

	first := &models.Transaction{
		UserID: 3, OrderID: 20, RequiredAmount: models.MustMoney("100.00"), ReceivedAmount: models.MustMoney("80.00"),
		BalanceAmount: models.MustMoney("20.00"), PaymentMode: constants.PaymentModeCash,
		PaymentStatus: constants.PaymentStatusIncomplete, PaymentTime: now,
	}
	second := &models.Transaction{
		UserID: 3, OrderID: 20, RequiredAmount: models.MustMoney("100.00"), ReceivedAmount: models.MustMoney("100.00"),
		BalanceAmount: models.ZeroMoney(), PaymentMode: constants.PaymentModeUPI, UpiID: "alice@bank",
		PaymentStatus: constants.PaymentStatusCompleted, PaymentTime: now,
	}
	other := &models.Transaction{
		UserID: 4, OrderID: 21, RequiredAmount: models.MustMoney("10.00"), PaymentMode: constants.PaymentModeCash,
		PaymentStatus: constants.PaymentStatusPending, PaymentTime: now,
	}
	for _, txn := range []*models.Transaction{first, second, other} {
		if err := repo.Create(txn); err != nil {
			t.Fatalf("create transaction failed: %v", err)
		}
	}

	latest, err := repo.GetLatestByUserAndOrder(3, 20)
	if err != nil || latest == nil || latest.ID != second.ID {
		t.Fatalf("latest transaction want %d got %+v err=%v", second.ID, latest, err)
	}

	owned, err := repo.GetByUserAndID(4, first.ID)
	if err != nil || owned != nil {
		t.Fatalf("transaction of another user should be hidden, got %+v err=%v", owned, err)
	}

	rows, total, err := repo.List(TransactionListFilter{Mode: constants.PaymentModeCash})
	if err != nil || total != 2 || len(rows) != 2 {
		t.Fatalf("cash list want 2 got total=%d len=%d err=%v", total, len(rows), err)
	}
	rows, total, err = repo.List(TransactionListFilter{UserID: 3, Status: constants.PaymentStatusCompleted})
	if err != nil || total != 1 || rows[0].ID != second.ID {
		t.Fatalf("completed list for user 3 mismatch: total=%d err=%v", total, err)
	}
}
