package syncer_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
	"github.com/sgiordano45/KidsWallet/src/store/storetest"
	"github.com/sgiordano45/KidsWallet/src/syncer"
	"github.com/shopspring/decimal"
)

func newLocalStore(t *testing.T) *local.Store {
	t.Helper()
	s, err := local.Open(filepath.Join(t.TempDir(), "shadow.db"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newClient(t *testing.T, remote store.Remote) *syncer.Client {
	t.Helper()
	return syncer.NewClient(remote, newLocalStore(t), store.NewScope("fam1"))
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestFetchWalletDefaultsWhenEmpty(t *testing.T) {
	client := newClient(t, storetest.New())

	w := client.FetchWallet(context.Background())
	if w.Name != "Main Wallet" {
		t.Errorf("name = %q, want Main Wallet", w.Name)
	}
	if !w.Settings.InterestRate.Equal(dec(5)) {
		t.Errorf("interest rate = %s, want 5", w.Settings.InterestRate)
	}
	if w.Settings.AllowanceFrequency != models.AllowanceBiweekly {
		t.Errorf("allowance frequency = %q, want biweekly", w.Settings.AllowanceFrequency)
	}
}

func TestMutateWalletSurvivesRemoteOutage(t *testing.T) {
	fake := storetest.New()
	fake.SetFailing(true)
	client := newClient(t, fake)
	ctx := context.Background()

	balance := dec(10)
	client.MutateWallet(ctx, models.WalletPatch{Balance: &balance})
	balance = dec(25)
	client.MutateWallet(ctx, models.WalletPatch{Balance: &balance})

	w := client.FetchWallet(ctx)
	if !w.Balance.Equal(dec(25)) {
		t.Errorf("balance = %s, want 25", w.Balance)
	}
	if w.UpdatedAt == nil {
		t.Error("expected a local update timestamp")
	}
}

func TestMutateWalletReachesRemote(t *testing.T) {
	fake := storetest.New()
	client := newClient(t, fake)
	ctx := context.Background()

	name := "Piggy Bank"
	balance := dec(30)
	client.MutateWallet(ctx, models.WalletPatch{Name: &name, Balance: &balance})

	w, err := fake.GetWallet(ctx, "fam1", models.DefaultWalletID)
	if err != nil {
		t.Fatalf("remote wallet: %v", err)
	}
	if w.Name != "Piggy Bank" || !w.Balance.Equal(dec(30)) {
		t.Errorf("remote wallet = %q/%s, want Piggy Bank/30", w.Name, w.Balance)
	}
}

func TestMutateWalletPartialSettingsKeepRest(t *testing.T) {
	client := newClient(t, storetest.New())
	ctx := context.Background()

	rate := dec(3)
	w := client.MutateWallet(ctx, models.WalletPatch{
		Settings: &models.SettingsPatch{InterestRate: &rate},
	})

	if !w.Settings.InterestRate.Equal(dec(3)) {
		t.Errorf("interest rate = %s, want 3", w.Settings.InterestRate)
	}
	if !w.Settings.AllowanceAmount.Equal(dec(5)) {
		t.Errorf("allowance amount = %s, want untouched default 5", w.Settings.AllowanceAmount)
	}
	if w.Settings.InterestDay != 1 {
		t.Errorf("interest day = %d, want untouched default 1", w.Settings.InterestDay)
	}
}

func TestAddTransactionOfflineKeepsPlaceholder(t *testing.T) {
	fake := storetest.New()
	fake.SetFailing(true)
	client := newClient(t, fake)
	ctx := context.Background()

	id := client.AddTransaction(ctx, models.Transaction{Amount: dec(7), Type: "deposit"})
	if !syncer.IsPlaceholderID(id) {
		t.Fatalf("id = %q, want placeholder", id)
	}

	list := client.FetchTransactions(ctx)
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("list = %+v, want single entry %s", list, id)
	}
	if list[0].Date.IsZero() || list[0].CreatedAt.IsZero() {
		t.Error("expected date and created_at to be stamped")
	}
}

func TestAddTransactionOnlineRenumbersPlaceholder(t *testing.T) {
	fake := storetest.New()
	client := newClient(t, fake)
	ctx := context.Background()

	id := client.AddTransaction(ctx, models.Transaction{Amount: dec(7), Type: "deposit"})
	if syncer.IsPlaceholderID(id) {
		t.Fatalf("id = %q, want remote id", id)
	}

	// The local shadow copy must hold the remote id with no leftover
	// placeholder entry.
	fake.SetFailing(true)
	list := client.FetchTransactions(ctx)
	if len(list) != 1 {
		t.Fatalf("local copy has %d entries, want 1", len(list))
	}
	if list[0].ID != id {
		t.Errorf("local id = %q, want %q", list[0].ID, id)
	}
}

func TestPlaceholderMutationsNeverGoRemote(t *testing.T) {
	fake := storetest.New()
	fake.SetFailing(true)
	client := newClient(t, fake)
	ctx := context.Background()

	id := client.AddTransaction(ctx, models.Transaction{Amount: dec(7), Type: "deposit"})
	fake.SetFailing(false)

	note := "updated"
	client.UpdateTransaction(ctx, id, models.TransactionPatch{Note: &note})
	client.DeleteTransaction(ctx, id)

	if n := fake.Calls("UpdateTransaction"); n != 0 {
		t.Errorf("remote UpdateTransaction calls = %d, want 0", n)
	}
	if n := fake.Calls("DeleteTransaction"); n != 0 {
		t.Errorf("remote DeleteTransaction calls = %d, want 0", n)
	}
	if list := client.FetchTransactions(ctx); len(list) != 0 {
		t.Errorf("list = %+v, want empty after delete", list)
	}
}

func TestFetchTransactionsOrderedByDateDescending(t *testing.T) {
	fake := storetest.New()
	fake.SetFailing(true)
	client := newClient(t, fake)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	client.AddTransaction(ctx, models.Transaction{Amount: dec(1), Date: base.AddDate(0, 0, 1)})
	client.AddTransaction(ctx, models.Transaction{Amount: dec(2), Date: base.AddDate(0, 0, 5)})
	client.AddTransaction(ctx, models.Transaction{Amount: dec(3), Date: base})

	list := client.FetchTransactions(ctx)
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date) {
			t.Errorf("list out of order at %d: %v after %v", i, list[i].Date, list[i-1].Date)
		}
	}
	if !list[0].Amount.Equal(dec(2)) {
		t.Errorf("newest amount = %s, want 2", list[0].Amount)
	}
}

func TestUpdateTransactionRemote(t *testing.T) {
	fake := storetest.New()
	client := newClient(t, fake)
	ctx := context.Background()

	id := client.AddTransaction(ctx, models.Transaction{Amount: dec(7), Type: "deposit"})
	amount := dec(9)
	client.UpdateTransaction(ctx, id, models.TransactionPatch{Amount: &amount})

	list, err := fake.ListTransactions(ctx, "fam1", models.DefaultWalletID)
	if err != nil {
		t.Fatalf("remote list: %v", err)
	}
	if len(list) != 1 || !list[0].Amount.Equal(dec(9)) {
		t.Fatalf("remote list = %+v, want single amount 9", list)
	}
}

func TestSubscribeTransactionsDeliversSnapshots(t *testing.T) {
	fake := storetest.New()
	client := newClient(t, fake)
	ctx := context.Background()

	var deliveries [][]models.Transaction
	cancel := client.SubscribeTransactions(ctx, func(list []models.Transaction) {
		deliveries = append(deliveries, list)
	})

	if len(deliveries) != 1 {
		t.Fatalf("initial deliveries = %d, want 1", len(deliveries))
	}
	if deliveries[0] == nil || len(deliveries[0]) != 0 {
		t.Fatalf("initial snapshot = %#v, want empty non-nil list", deliveries[0])
	}

	fake.AddTransaction(ctx, "fam1", models.DefaultWalletID,
		&models.Transaction{Amount: dec(4), Date: time.Now(), Type: "deposit"})
	if len(deliveries) != 2 || len(deliveries[1]) != 1 {
		t.Fatalf("deliveries after change = %d, want 2 with one entry", len(deliveries))
	}

	cancel()
	cancel() // repeated cancellation is a no-op

	fake.AddTransaction(ctx, "fam1", models.DefaultWalletID,
		&models.Transaction{Amount: dec(5), Date: time.Now(), Type: "deposit"})
	if len(deliveries) != 2 {
		t.Errorf("deliveries after cancel = %d, want 2", len(deliveries))
	}
}

func TestSubscribeWalletMirrorsToLocal(t *testing.T) {
	fake := storetest.New()
	localStore := newLocalStore(t)
	client := syncer.NewClient(fake, localStore, store.NewScope("fam1"))
	ctx := context.Background()

	seed := models.DefaultWallet()
	seed.Balance = dec(12)
	fake.SetWallet(ctx, "fam1", models.DefaultWalletID, &seed)

	var got []*models.Wallet
	cancel := client.SubscribeWallet(ctx, func(w *models.Wallet) {
		got = append(got, w)
	})
	defer cancel()

	if len(got) != 1 || !got[0].Balance.Equal(dec(12)) {
		t.Fatalf("initial delivery = %+v, want balance 12", got)
	}

	// The mirrored copy must be readable once the remote store drops out.
	offline := syncer.NewClient(nil, localStore, store.NewScope("fam1"))
	if w := offline.FetchWallet(ctx); !w.Balance.Equal(dec(12)) {
		t.Errorf("mirrored balance = %s, want 12", w.Balance)
	}
}

func TestSubscribeLocalOnlyDeliversOnce(t *testing.T) {
	client := syncer.NewClient(nil, newLocalStore(t), store.NewScope("fam1"))

	calls := 0
	cancel := client.SubscribeGoals(context.Background(), func([]models.Goal) {
		calls++
	})
	if calls != 1 {
		t.Fatalf("deliveries = %d, want exactly 1", calls)
	}
	if cancel == nil {
		t.Fatal("expected a non-nil cancellation handle")
	}
	cancel()
	cancel()
}

func TestSubscribeFallsBackOnSubscriptionLoss(t *testing.T) {
	fake := storetest.New()
	client := newClient(t, fake)
	ctx := context.Background()

	calls := 0
	cancel := client.SubscribeTransactions(ctx, func([]models.Transaction) {
		calls++
	})
	defer cancel()
	if calls != 1 {
		t.Fatalf("deliveries = %d, want 1 before failure", calls)
	}

	fake.FailSubscriptions(errors.New("connection lost"))
	if calls != 2 {
		t.Fatalf("deliveries = %d, want fallback local delivery after loss", calls)
	}

	fake.AddTransaction(ctx, "fam1", models.DefaultWalletID,
		&models.Transaction{Amount: dec(4), Date: time.Now()})
	if calls != 2 {
		t.Errorf("deliveries = %d, want no snapshots after subscription loss", calls)
	}
}

func TestAddGoalStartsIncomplete(t *testing.T) {
	fake := storetest.New()
	client := newClient(t, fake)
	ctx := context.Background()

	id := client.AddGoal(ctx, models.Goal{Name: "Bike", Target: dec(120), Completed: true})
	list := client.FetchGoals(ctx)
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("goals = %+v, want single %s", list, id)
	}
	if list[0].Completed {
		t.Error("new goal should start incomplete")
	}
}

func TestGoalLifecycleOffline(t *testing.T) {
	fake := storetest.New()
	fake.SetFailing(true)
	client := newClient(t, fake)
	ctx := context.Background()

	id := client.AddGoal(ctx, models.Goal{Name: "Bike", Target: dec(120)})
	if !syncer.IsPlaceholderID(id) {
		t.Fatalf("id = %q, want placeholder", id)
	}

	saved := dec(40)
	client.UpdateGoal(ctx, id, models.GoalPatch{Saved: &saved})
	list := client.FetchGoals(ctx)
	if len(list) != 1 || !list[0].Saved.Equal(dec(40)) {
		t.Fatalf("goals = %+v, want saved 40", list)
	}

	client.DeleteGoal(ctx, id)
	if list := client.FetchGoals(ctx); len(list) != 0 {
		t.Errorf("goals = %+v, want empty", list)
	}
	if n := fake.Calls("UpdateGoal") + fake.Calls("DeleteGoal"); n != 0 {
		t.Errorf("remote goal mutations = %d, want 0 for placeholder id", n)
	}
}
