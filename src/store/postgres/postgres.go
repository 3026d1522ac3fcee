package postgres

import (
	"context"
	"errors"
	"sync"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

// Store implements store.Remote on PostgreSQL. Documents live in keyed
// tables under families/{id} -> wallets/{id} -> transactions, goals; change
// subscriptions ride on LISTEN/NOTIFY triggers (see listen.go).
type Store struct {
	pool *pgxpool.Pool

	mu        sync.Mutex
	subs      map[int]*subscription
	nextSubID int

	stopListener context.CancelFunc
}

// Open connects, ensures the schema, and starts the change listener.
func Open(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		// NUMERIC columns scan straight into decimal.Decimal.
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s := &Store{pool: pool, subs: make(map[int]*subscription)}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	s.stopListener = cancel
	go s.runListener(listenCtx)
	return s, nil
}

func (s *Store) Close() {
	s.stopListener()
	s.pool.Close()
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func (s *Store) GetFamily(ctx context.Context, familyID string) (*models.Family, error) {
	query := `
		SELECT id, owner_uid, owner_name, name, created_at
		FROM families WHERE id = $1
	`
	var f models.Family
	err := s.pool.QueryRow(ctx, query, familyID).
		Scan(&f.ID, &f.OwnerUID, &f.OwnerName, &f.Name, &f.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (s *Store) ListFamilies(ctx context.Context) ([]models.Family, error) {
	query := `SELECT id, owner_uid, owner_name, name, created_at FROM families ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Family
	for rows.Next() {
		var f models.Family
		err := rows.Scan(&f.ID, &f.OwnerUID, &f.OwnerName, &f.Name, &f.CreatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func (s *Store) SetFamily(ctx context.Context, family *models.Family) error {
	query := `
		INSERT INTO families (id, owner_uid, owner_name, name, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET owner_name = EXCLUDED.owner_name, name = EXCLUDED.name
	`
	_, err := s.pool.Exec(ctx, query, family.ID, family.OwnerUID, family.OwnerName, family.Name)
	return err
}

func (s *Store) UpdateFamily(ctx context.Context, familyID string, name string) error {
	query := `UPDATE families SET name = $1 WHERE id = $2`
	cmd, err := s.pool.Exec(ctx, query, name, familyID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const walletColumns = `name, balance, total_deposits, total_spent, total_earned,
		total_interest, settings, created_at, updated_at, migrated_at`

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.Name, &w.Balance, &w.TotalDeposits, &w.TotalSpent,
		&w.TotalEarned, &w.TotalInterest, &w.Settings, &w.CreatedAt,
		&w.UpdatedAt, &w.MigratedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (s *Store) GetWallet(ctx context.Context, familyID, walletID string) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE family_id = $1 AND id = $2`
	return scanWallet(s.pool.QueryRow(ctx, query, familyID, walletID))
}

// SetWallet upserts the full wallet document, stamping updated_at server
// side. An existing migration stamp survives a set that carries none.
func (s *Store) SetWallet(ctx context.Context, familyID, walletID string, w *models.Wallet) error {
	query := `
		INSERT INTO wallets (family_id, id, name, balance, total_deposits, total_spent,
			total_earned, total_interest, settings, created_at, updated_at, migrated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW(), $10)
		ON CONFLICT (family_id, id) DO UPDATE
		SET name = EXCLUDED.name,
			balance = EXCLUDED.balance,
			total_deposits = EXCLUDED.total_deposits,
			total_spent = EXCLUDED.total_spent,
			total_earned = EXCLUDED.total_earned,
			total_interest = EXCLUDED.total_interest,
			settings = EXCLUDED.settings,
			updated_at = NOW(),
			migrated_at = COALESCE(EXCLUDED.migrated_at, wallets.migrated_at)
	`
	_, err := s.pool.Exec(ctx, query, familyID, walletID, w.Name, w.Balance,
		w.TotalDeposits, w.TotalSpent, w.TotalEarned, w.TotalInterest,
		w.Settings, w.MigratedAt)
	return err
}

func (s *Store) SubscribeWallet(ctx context.Context, familyID, walletID string, onChange func(*models.Wallet), onError func(error)) (store.Cancel, error) {
	deliver := func(ctx context.Context) error {
		w, err := s.GetWallet(ctx, familyID, walletID)
		if errors.Is(err, store.ErrNotFound) {
			// No document yet; stay subscribed, deliver nothing.
			return nil
		}
		if err != nil {
			return err
		}
		onChange(w)
		return nil
	}
	return s.subscribe(ctx, kindWallet, familyID, walletID, deliver, onError)
}
