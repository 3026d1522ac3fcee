package postgres

import "context"

// Schema is idempotent; Open applies it on every start, the way a small
// deployment runs without a migration tool.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS families (
		id TEXT PRIMARY KEY,
		owner_uid TEXT NOT NULL,
		owner_name TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS wallets (
		family_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT 'Main Wallet',
		balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		total_deposits NUMERIC(14,2) NOT NULL DEFAULT 0,
		total_spent NUMERIC(14,2) NOT NULL DEFAULT 0,
		total_earned NUMERIC(14,2) NOT NULL DEFAULT 0,
		total_interest NUMERIC(14,2) NOT NULL DEFAULT 0,
		settings JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ,
		migrated_at TIMESTAMPTZ,
		PRIMARY KEY (family_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		family_id TEXT NOT NULL,
		wallet_id TEXT NOT NULL,
		id TEXT NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		type TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ,
		PRIMARY KEY (family_id, wallet_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_date_idx
		ON transactions (family_id, wallet_id, date DESC)`,
	`CREATE TABLE IF NOT EXISTS goals (
		family_id TEXT NOT NULL,
		wallet_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		target NUMERIC(14,2) NOT NULL DEFAULT 0,
		saved NUMERIC(14,2) NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ,
		PRIMARY KEY (family_id, wallet_id, id)
	)`,
	`CREATE OR REPLACE FUNCTION kidswallet_notify() RETURNS trigger AS $$
	DECLARE
		rec RECORD;
	BEGIN
		IF TG_OP = 'DELETE' THEN
			rec := OLD;
		ELSE
			rec := NEW;
		END IF;
		PERFORM pg_notify('kidswallet_changes', json_build_object(
			'kind', TG_ARGV[0],
			'family', rec.family_id,
			'wallet', CASE WHEN TG_ARGV[0] = 'wallet' THEN rec.id ELSE rec.wallet_id END
		)::text);
		RETURN rec;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS wallets_notify ON wallets`,
	`CREATE TRIGGER wallets_notify AFTER INSERT OR UPDATE OR DELETE ON wallets
		FOR EACH ROW EXECUTE FUNCTION kidswallet_notify('wallet')`,
	`DROP TRIGGER IF EXISTS transactions_notify ON transactions`,
	`CREATE TRIGGER transactions_notify AFTER INSERT OR UPDATE OR DELETE ON transactions
		FOR EACH ROW EXECUTE FUNCTION kidswallet_notify('transactions')`,
	`DROP TRIGGER IF EXISTS goals_notify ON goals`,
	`CREATE TRIGGER goals_notify AFTER INSERT OR UPDATE OR DELETE ON goals
		FOR EACH ROW EXECUTE FUNCTION kidswallet_notify('goals')`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
