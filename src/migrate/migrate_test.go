package migrate_test

import (
	"context"
	"testing"
	"time"

	"github.com/sgiordano45/KidsWallet/src/migrate"
	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store/storetest"
	"github.com/shopspring/decimal"
)

func seedLegacy(t *testing.T, fake *storetest.Fake) {
	t.Helper()
	ctx := context.Background()

	w := models.DefaultWallet()
	w.Balance = decimal.NewFromInt(42)
	w.TotalDeposits = decimal.NewFromInt(50)
	if err := fake.SetWallet(ctx, migrate.LegacyFamilyID, migrate.LegacyWalletID, &w); err != nil {
		t.Fatalf("seed legacy wallet: %v", err)
	}

	for _, tx := range []models.Transaction{
		{Amount: decimal.NewFromInt(50), Date: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), Type: "deposit"},
		{Amount: decimal.NewFromInt(8), Date: time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), Type: "spend"},
	} {
		tx := tx
		if _, err := fake.AddTransaction(ctx, migrate.LegacyFamilyID, migrate.LegacyWalletID, &tx); err != nil {
			t.Fatalf("seed legacy transaction: %v", err)
		}
	}
	if _, err := fake.AddGoal(ctx, migrate.LegacyFamilyID, migrate.LegacyWalletID,
		&models.Goal{Name: "Bike", Target: decimal.NewFromInt(120)}); err != nil {
		t.Fatalf("seed legacy goal: %v", err)
	}
}

func TestRunCopiesLegacyData(t *testing.T) {
	fake := storetest.New()
	seedLegacy(t, fake)
	ctx := context.Background()

	if err := migrate.Run(ctx, fake, "fam1"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	dst, err := fake.GetWallet(ctx, "fam1", models.DefaultWalletID)
	if err != nil {
		t.Fatalf("destination wallet: %v", err)
	}
	if !dst.Balance.Equal(decimal.NewFromInt(42)) {
		t.Errorf("balance = %s, want 42", dst.Balance)
	}
	if dst.MigratedAt == nil {
		t.Error("expected migration timestamp on destination wallet")
	}

	legacyTxs, _ := fake.ListTransactions(ctx, migrate.LegacyFamilyID, migrate.LegacyWalletID)
	copied, _ := fake.ListTransactions(ctx, "fam1", models.DefaultWalletID)
	if len(copied) != len(legacyTxs) {
		t.Fatalf("copied %d transactions, want %d", len(copied), len(legacyTxs))
	}
	ids := make(map[string]bool)
	for _, tx := range legacyTxs {
		ids[tx.ID] = true
	}
	for _, tx := range copied {
		if !ids[tx.ID] {
			t.Errorf("transaction %s not found in legacy source, ids must be preserved", tx.ID)
		}
	}

	goals, _ := fake.ListGoals(ctx, "fam1", models.DefaultWalletID)
	if len(goals) != 1 || goals[0].Name != "Bike" {
		t.Errorf("goals = %+v, want the copied Bike goal", goals)
	}

	// The legacy source stays intact for inspection and retries.
	if _, err := fake.GetWallet(ctx, migrate.LegacyFamilyID, migrate.LegacyWalletID); err != nil {
		t.Errorf("legacy wallet gone after migration: %v", err)
	}
}

func TestRunSkipsNonZeroDestination(t *testing.T) {
	fake := storetest.New()
	seedLegacy(t, fake)
	ctx := context.Background()

	dst := models.DefaultWallet()
	dst.Balance = decimal.NewFromInt(100)
	if err := fake.SetWallet(ctx, "fam1", models.DefaultWalletID, &dst); err != nil {
		t.Fatalf("seed destination: %v", err)
	}

	if err := migrate.Run(ctx, fake, "fam1"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	w, _ := fake.GetWallet(ctx, "fam1", models.DefaultWalletID)
	if !w.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, destination must not be overwritten", w.Balance)
	}
	if n := fake.Calls("RunBatch"); n != 0 {
		t.Errorf("RunBatch calls = %d, want 0 when skipping", n)
	}
	if list, _ := fake.ListTransactions(ctx, "fam1", models.DefaultWalletID); len(list) != 0 {
		t.Errorf("transactions = %+v, want none copied", list)
	}
}

func TestRunNoLegacyDataIsNoop(t *testing.T) {
	fake := storetest.New()
	if err := migrate.Run(context.Background(), fake, "fam1"); err != nil {
		t.Fatalf("migrate without legacy data: %v", err)
	}
	if n := fake.Calls("RunBatch"); n != 0 {
		t.Errorf("RunBatch calls = %d, want 0", n)
	}
}

func TestRunSecondRunSkipsMigratedWallet(t *testing.T) {
	fake := storetest.New()
	seedLegacy(t, fake)
	ctx := context.Background()

	if err := migrate.Run(ctx, fake, "fam1"); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Balance 42 on the destination stops the second run.
	if err := migrate.Run(ctx, fake, "fam1"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n := fake.Calls("RunBatch"); n != 1 {
		t.Errorf("RunBatch calls = %d, want exactly 1", n)
	}
}
