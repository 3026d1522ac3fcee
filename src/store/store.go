package store

import (
	"context"
	"errors"

	"github.com/sgiordano45/KidsWallet/src/models"
)

// ErrNotFound is returned by get operations when no document exists at the
// requested path. Adapters map their backend's miss condition onto it.
var ErrNotFound = errors.New("store: not found")

// Cancel tears down a live subscription. Implementations must make repeated
// calls safe no-ops.
type Cancel func()

// Scope identifies the tenant a repository call operates under. It is built
// once per session (or per request) and passed by reference; a nil scope
// means no authenticated family and forces local-only behavior.
type Scope struct {
	FamilyID string
	WalletID string
}

// NewScope returns a scope for the family owned by uid, pointing at the
// family's single default wallet.
func NewScope(uid string) *Scope {
	return &Scope{FamilyID: uid, WalletID: models.DefaultWalletID}
}

// Remote is the multi-user document store behind the sync layer, addressed
// as families/{id} -> wallets/{id} -> transactions, goals. Writes stamp
// server-assigned timestamps; list and subscribe operations deliver
// transactions ordered by date descending and goals by creation time
// descending. Subscriptions push the full current snapshot immediately and
// then again on every change until cancelled; onError fires at most once,
// after which no further snapshots are delivered.
type Remote interface {
	GetFamily(ctx context.Context, familyID string) (*models.Family, error)
	ListFamilies(ctx context.Context) ([]models.Family, error)
	SetFamily(ctx context.Context, family *models.Family) error
	UpdateFamily(ctx context.Context, familyID string, name string) error

	GetWallet(ctx context.Context, familyID, walletID string) (*models.Wallet, error)
	SetWallet(ctx context.Context, familyID, walletID string, w *models.Wallet) error
	SubscribeWallet(ctx context.Context, familyID, walletID string, onChange func(*models.Wallet), onError func(error)) (Cancel, error)

	ListTransactions(ctx context.Context, familyID, walletID string) ([]models.Transaction, error)
	AddTransaction(ctx context.Context, familyID, walletID string, tx *models.Transaction) (string, error)
	UpdateTransaction(ctx context.Context, familyID, walletID, id string, patch models.TransactionPatch) error
	DeleteTransaction(ctx context.Context, familyID, walletID, id string) error
	SubscribeTransactions(ctx context.Context, familyID, walletID string, onChange func([]models.Transaction), onError func(error)) (Cancel, error)

	ListGoals(ctx context.Context, familyID, walletID string) ([]models.Goal, error)
	AddGoal(ctx context.Context, familyID, walletID string, g *models.Goal) (string, error)
	UpdateGoal(ctx context.Context, familyID, walletID, id string, patch models.GoalPatch) error
	DeleteGoal(ctx context.Context, familyID, walletID, id string) error
	SubscribeGoals(ctx context.Context, familyID, walletID string, onChange func([]models.Goal), onError func(error)) (Cancel, error)

	// RunBatch executes fn's queued writes atomically. Only the legacy
	// migrator uses it.
	RunBatch(ctx context.Context, fn func(b Batch) error) error
}

// Batch queues writes for atomic commit. Put operations take explicit ids so
// copied documents keep their original identifiers.
type Batch interface {
	SetWallet(familyID, walletID string, w *models.Wallet)
	PutTransaction(familyID, walletID, id string, tx models.Transaction)
	PutGoal(familyID, walletID, id string, g models.Goal)
}
