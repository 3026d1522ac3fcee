package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

func (s *Store) ListTransactions(ctx context.Context, familyID, walletID string) ([]models.Transaction, error) {
	query := `
		SELECT id, amount, date, type, note, created_at, updated_at
		FROM transactions WHERE family_id = $1 AND wallet_id = $2
		ORDER BY date DESC, created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, familyID, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		err := rows.Scan(&tx.ID, &tx.Amount, &tx.Date, &tx.Type, &tx.Note, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

// AddTransaction stores tx under a freshly generated id and a server-assigned
// creation timestamp, both written back into tx.
func (s *Store) AddTransaction(ctx context.Context, familyID, walletID string, tx *models.Transaction) (string, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO transactions (family_id, wallet_id, id, amount, date, type, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := s.pool.QueryRow(ctx, query, familyID, walletID, id, tx.Amount, tx.Date, tx.Type, tx.Note).
		Scan(&tx.CreatedAt)
	if err != nil {
		return "", err
	}
	tx.ID = id
	return id, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, familyID, walletID, id string, patch models.TransactionPatch) error {
	set := []string{"updated_at = NOW()"}
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Note != nil {
		add("note", *patch.Note)
	}
	args = append(args, familyID, walletID, id)
	query := fmt.Sprintf(`UPDATE transactions SET %s WHERE family_id = $%d AND wallet_id = $%d AND id = $%d`,
		strings.Join(set, ", "), len(args)-2, len(args)-1, len(args))

	cmd, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, familyID, walletID, id string) error {
	query := `DELETE FROM transactions WHERE family_id = $1 AND wallet_id = $2 AND id = $3`
	cmd, err := s.pool.Exec(ctx, query, familyID, walletID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SubscribeTransactions(ctx context.Context, familyID, walletID string, onChange func([]models.Transaction), onError func(error)) (store.Cancel, error) {
	deliver := func(ctx context.Context) error {
		list, err := s.ListTransactions(ctx, familyID, walletID)
		if err != nil {
			return err
		}
		onChange(list)
		return nil
	}
	return s.subscribe(ctx, kindTransactions, familyID, walletID, deliver, onError)
}

func (s *Store) ListGoals(ctx context.Context, familyID, walletID string) ([]models.Goal, error) {
	query := `
		SELECT id, name, target, saved, completed, created_at, updated_at
		FROM goals WHERE family_id = $1 AND wallet_id = $2
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, familyID, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Goal
	for rows.Next() {
		var g models.Goal
		err := rows.Scan(&g.ID, &g.Name, &g.Target, &g.Saved, &g.Completed, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (s *Store) AddGoal(ctx context.Context, familyID, walletID string, g *models.Goal) (string, error) {
	id := uuid.NewString()
	query := `
		INSERT INTO goals (family_id, wallet_id, id, name, target, saved, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := s.pool.QueryRow(ctx, query, familyID, walletID, id, g.Name, g.Target, g.Saved, g.Completed).
		Scan(&g.CreatedAt)
	if err != nil {
		return "", err
	}
	g.ID = id
	return id, nil
}

func (s *Store) UpdateGoal(ctx context.Context, familyID, walletID, id string, patch models.GoalPatch) error {
	set := []string{"updated_at = NOW()"}
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Target != nil {
		add("target", *patch.Target)
	}
	if patch.Saved != nil {
		add("saved", *patch.Saved)
	}
	if patch.Completed != nil {
		add("completed", *patch.Completed)
	}
	args = append(args, familyID, walletID, id)
	query := fmt.Sprintf(`UPDATE goals SET %s WHERE family_id = $%d AND wallet_id = $%d AND id = $%d`,
		strings.Join(set, ", "), len(args)-2, len(args)-1, len(args))

	cmd, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, familyID, walletID, id string) error {
	query := `DELETE FROM goals WHERE family_id = $1 AND wallet_id = $2 AND id = $3`
	cmd, err := s.pool.Exec(ctx, query, familyID, walletID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SubscribeGoals(ctx context.Context, familyID, walletID string, onChange func([]models.Goal), onError func(error)) (store.Cancel, error) {
	deliver := func(ctx context.Context) error {
		list, err := s.ListGoals(ctx, familyID, walletID)
		if err != nil {
			return err
		}
		onChange(list)
		return nil
	}
	return s.subscribe(ctx, kindGoals, familyID, walletID, deliver, onError)
}
