package service

import (
	"errors"
	"testing"

	"github.com/akramer2025-dev/brandstore-sub001/internal/model"
	"github.com/akramer2025-dev/brandstore-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

func TestBalanceFoldOverLedger(t *testing.T) {
	db := newTestDB(t)
	capitalRepo := repository.NewCapitalRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), newTestHub())
	svc := NewCapitalService(capitalRepo, vendorRepo, db, notifier)
	vendor := createTestVendor(t, db)

	steps := []struct {
		deposit bool
		amount  string
	}{
		{true, "1000.00"},
		{false, "250.50"},
		{true, "99.99"},
		{false, "100.00"},
	}
	for _, step := range steps {
		amount := decimal.RequireFromString(step.amount)
		var err error
		if step.deposit {
			_, err = svc.Deposit(vendor.ID, amount, "test", "tester")
		} else {
			_, err = svc.Withdraw(vendor.ID, amount, "test", "tester")
		}
		if err != nil {
			t.Fatalf("unexpected error applying %+v: %v", step, err)
		}
	}

	ledger, err := svc.GetLedger(vendor.ID)
	if err != nil {
		t.Fatalf("GetLedger failed: %v", err)
	}

	want := decimal.RequireFromString("749.49")
	if !ledger.Balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", ledger.Balance, want)
	}
	if len(ledger.Transactions) != 4 {
		t.Fatalf("transactions = %d, want 4", len(ledger.Transactions))
	}
}

func TestPurchaseRowsCountAgainstBalance(t *testing.T) {
	db := newTestDB(t)
	capitalRepo := repository.NewCapitalRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), newTestHub())
	svc := NewCapitalService(capitalRepo, vendorRepo, db, notifier)
	vendor := createTestVendor(t, db)

	if _, err := svc.Deposit(vendor.ID, decimal.NewFromInt(500), "seed", "tester"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	purchase := &model.CapitalTransaction{
		VendorID: vendor.ID,
		Type:     model.CapitalPurchase,
		Amount:   decimal.NewFromInt(200),
	}
	if err := capitalRepo.Create(nil, purchase); err != nil {
		t.Fatalf("create purchase row failed: %v", err)
	}

	balance, err := capitalRepo.FoldBalance(nil, vendor.ID)
	if err != nil {
		t.Fatalf("FoldBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("balance = %s, want 300", balance)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	capitalRepo := repository.NewCapitalRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), newTestHub())
	svc := NewCapitalService(capitalRepo, vendorRepo, db, notifier)
	vendor := createTestVendor(t, db)

	if _, err := svc.Deposit(vendor.ID, decimal.NewFromInt(100), "seed", "tester"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	_, err := svc.Withdraw(vendor.ID, decimal.NewFromInt(150), "too much", "tester")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	// The rejected withdrawal must not leave a ledger row
	ledger, err := svc.GetLedger(vendor.ID)
	if err != nil {
		t.Fatalf("GetLedger failed: %v", err)
	}
	if len(ledger.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(ledger.Transactions))
	}
	if !ledger.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance = %s, want 100", ledger.Balance)
	}
}

func TestWithdrawExactBalance(t *testing.T) {
	db := newTestDB(t)
	capitalRepo := repository.NewCapitalRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), newTestHub())
	svc := NewCapitalService(capitalRepo, vendorRepo, db, notifier)
	vendor := createTestVendor(t, db)

	if _, err := svc.Deposit(vendor.ID, decimal.NewFromInt(100), "seed", "tester"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := svc.Withdraw(vendor.ID, decimal.NewFromInt(100), "all of it", "tester"); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	ledger, _ := svc.GetLedger(vendor.ID)
	if !ledger.Balance.IsZero() {
		t.Fatalf("balance = %s, want 0", ledger.Balance)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	capitalRepo := repository.NewCapitalRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), newTestHub())
	svc := NewCapitalService(capitalRepo, vendorRepo, db, notifier)
	vendor := createTestVendor(t, db)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		if _, err := svc.Deposit(vendor.ID, amount, "bad", "tester"); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Deposit(%s) err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestDepositInactiveVendor(t *testing.T) {
	db := newTestDB(t)
	capitalRepo := repository.NewCapitalRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	notifier := NewNotificationService(repository.NewNotificationRepo(db), newTestHub())
	svc := NewCapitalService(capitalRepo, vendorRepo, db, notifier)
	vendor := createTestVendor(t, db)

	if err := vendorRepo.SetActive(vendor.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	if _, err := svc.Deposit(vendor.ID, decimal.NewFromInt(100), "seed", "tester"); !errors.Is(err, ErrVendorInactive) {
		t.Fatalf("err = %v, want ErrVendorInactive", err)
	}
}
