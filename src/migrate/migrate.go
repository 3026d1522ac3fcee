package migrate

import (
	"context"
	"errors"
	"log"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

// Pre-multi-tenant data lives at a fixed location that predates family
// scoping.
const (
	LegacyFamilyID = "legacy"
	LegacyWalletID = "main_wallet"
)

// Run copies the legacy wallet, its transactions, and its goals into
// familyID's default wallet, preserving original identifiers, in one atomic
// batch. It skips when the destination already holds a non-zero balance; a
// zero-balance destination is re-copied, which matches the historical
// behavior and is deliberately left as is. The legacy source is never
// deleted, so a failed run can be retried or inspected by hand.
func Run(ctx context.Context, remote store.Remote, familyID string) error {
	legacy, err := remote.GetWallet(ctx, LegacyFamilyID, LegacyWalletID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	dst, err := remote.GetWallet(ctx, familyID, models.DefaultWalletID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if dst != nil && !dst.Balance.IsZero() {
		return nil
	}

	txs, err := remote.ListTransactions(ctx, LegacyFamilyID, LegacyWalletID)
	if err != nil {
		return err
	}
	goals, err := remote.ListGoals(ctx, LegacyFamilyID, LegacyWalletID)
	if err != nil {
		return err
	}

	log.Printf("INFO: migrating legacy wallet into family %s (%d transactions, %d goals)",
		familyID, len(txs), len(goals))
	return remote.RunBatch(ctx, func(b store.Batch) error {
		b.SetWallet(familyID, models.DefaultWalletID, legacy)
		for _, tx := range txs {
			b.PutTransaction(familyID, models.DefaultWalletID, tx.ID, tx)
		}
		for _, g := range goals {
			b.PutGoal(familyID, models.DefaultWalletID, g.ID, g)
		}
		return nil
	})
}
