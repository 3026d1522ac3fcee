package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

type batchOp struct {
	query string
	args  []any
}

// txBatch queues writes and commits them in one transaction. Wallet sets
// through a batch stamp migrated_at, since the legacy migrator is the only
// batch user.
type txBatch struct {
	ops []batchOp
}

func (b *txBatch) SetWallet(familyID, walletID string, w *models.Wallet) {
	b.ops = append(b.ops, batchOp{
		query: `
			INSERT INTO wallets (family_id, id, name, balance, total_deposits, total_spent,
				total_earned, total_interest, settings, created_at, updated_at, migrated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW(), NOW())
			ON CONFLICT (family_id, id) DO UPDATE
			SET name = EXCLUDED.name,
				balance = EXCLUDED.balance,
				total_deposits = EXCLUDED.total_deposits,
				total_spent = EXCLUDED.total_spent,
				total_earned = EXCLUDED.total_earned,
				total_interest = EXCLUDED.total_interest,
				settings = EXCLUDED.settings,
				updated_at = NOW(),
				migrated_at = NOW()
		`,
		args: []any{familyID, walletID, w.Name, w.Balance, w.TotalDeposits,
			w.TotalSpent, w.TotalEarned, w.TotalInterest, w.Settings},
	})
}

func (b *txBatch) PutTransaction(familyID, walletID, id string, tx models.Transaction) {
	b.ops = append(b.ops, batchOp{
		query: `
			INSERT INTO transactions (family_id, wallet_id, id, amount, date, type, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (family_id, wallet_id, id) DO UPDATE
			SET amount = EXCLUDED.amount, date = EXCLUDED.date,
				type = EXCLUDED.type, note = EXCLUDED.note
		`,
		args: []any{familyID, walletID, id, tx.Amount, tx.Date, tx.Type, tx.Note, tx.CreatedAt},
	})
}

func (b *txBatch) PutGoal(familyID, walletID, id string, g models.Goal) {
	b.ops = append(b.ops, batchOp{
		query: `
			INSERT INTO goals (family_id, wallet_id, id, name, target, saved, completed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (family_id, wallet_id, id) DO UPDATE
			SET name = EXCLUDED.name, target = EXCLUDED.target,
				saved = EXCLUDED.saved, completed = EXCLUDED.completed
		`,
		args: []any{familyID, walletID, id, g.Name, g.Target, g.Saved, g.Completed, g.CreatedAt},
	})
}

func (s *Store) RunBatch(ctx context.Context, fn func(b store.Batch) error) error {
	var b txBatch
	if err := fn(&b); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, op := range b.ops {
			if _, err := tx.Exec(ctx, op.query, op.args...); err != nil {
				return err
			}
		}
		return nil
	})
}
