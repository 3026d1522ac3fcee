package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/store"
)

// ErrUnavailable is what every operation returns while the fake is failing.
var ErrUnavailable = errors.New("storetest: remote unavailable")

// Fake implements store.Remote in memory for tests. It counts calls per
// method, can be switched into a failing mode, delivers subscription
// snapshots synchronously, and can simulate a lost subscription via
// FailSubscriptions.
type Fake struct {
	mu      sync.Mutex
	failing bool
	calls   map[string]int

	families map[string]models.Family
	wallets  map[string]models.Wallet
	txs      map[string][]models.Transaction
	goals    map[string][]models.Goal

	subs      map[int]*sub
	nextSubID int
	nextDocID int
}

type sub struct {
	kind    string
	family  string
	wallet  string
	deliver func()
	onError func(error)
}

func New() *Fake {
	return &Fake{
		calls:    make(map[string]int),
		families: make(map[string]models.Family),
		wallets:  make(map[string]models.Wallet),
		txs:      make(map[string][]models.Transaction),
		goals:    make(map[string][]models.Goal),
		subs:     make(map[int]*sub),
	}
}

// SetFailing toggles the unreachable-remote mode.
func (f *Fake) SetFailing(failing bool) {
	f.mu.Lock()
	f.failing = failing
	f.mu.Unlock()
}

// Calls returns how many times the named method ran (failed calls count).
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// FailSubscriptions drops every live subscription, invoking each error
// callback once.
func (f *Fake) FailSubscriptions(err error) {
	f.mu.Lock()
	dropped := make([]*sub, 0, len(f.subs))
	for _, s := range f.subs {
		dropped = append(dropped, s)
	}
	f.subs = make(map[int]*sub)
	f.mu.Unlock()

	for _, s := range dropped {
		s.onError(err)
	}
}

func key(familyID, walletID string) string {
	return familyID + "/" + walletID
}

// begin records the call and reports whether it should fail.
func (f *Fake) begin(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	if f.failing {
		return ErrUnavailable
	}
	return nil
}

// notify re-delivers the current snapshot to matching subscriptions,
// outside the lock since deliver closures read back through the fake.
func (f *Fake) notify(kind, familyID, walletID string) {
	f.mu.Lock()
	matched := make([]*sub, 0, len(f.subs))
	for _, s := range f.subs {
		if s.kind == kind && s.family == familyID && s.wallet == walletID {
			matched = append(matched, s)
		}
	}
	f.mu.Unlock()

	for _, s := range matched {
		s.deliver()
	}
}

func (f *Fake) addSub(s *sub) store.Cancel {
	f.mu.Lock()
	f.nextSubID++
	id := f.nextSubID
	f.subs[id] = s
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

func (f *Fake) GetFamily(ctx context.Context, familyID string) (*models.Family, error) {
	if err := f.begin("GetFamily"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fam, ok := f.families[familyID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &fam, nil
}

func (f *Fake) ListFamilies(ctx context.Context) ([]models.Family, error) {
	if err := f.begin("ListFamilies"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []models.Family
	for _, fam := range f.families {
		list = append(list, fam)
	}
	return list, nil
}

func (f *Fake) SetFamily(ctx context.Context, family *models.Family) error {
	if err := f.begin("SetFamily"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fam := *family
	if existing, ok := f.families[fam.ID]; ok {
		fam.CreatedAt = existing.CreatedAt
	} else {
		fam.CreatedAt = time.Now()
	}
	f.families[fam.ID] = fam
	return nil
}

func (f *Fake) UpdateFamily(ctx context.Context, familyID string, name string) error {
	if err := f.begin("UpdateFamily"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fam, ok := f.families[familyID]
	if !ok {
		return store.ErrNotFound
	}
	fam.Name = name
	f.families[familyID] = fam
	return nil
}

func (f *Fake) GetWallet(ctx context.Context, familyID, walletID string) (*models.Wallet, error) {
	if err := f.begin("GetWallet"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wallets[key(familyID, walletID)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &w, nil
}

func (f *Fake) SetWallet(ctx context.Context, familyID, walletID string, w *models.Wallet) error {
	if err := f.begin("SetWallet"); err != nil {
		return err
	}
	f.mu.Lock()
	stored := *w
	now := time.Now()
	stored.UpdatedAt = &now
	if existing, ok := f.wallets[key(familyID, walletID)]; ok {
		stored.CreatedAt = existing.CreatedAt
		if stored.MigratedAt == nil {
			stored.MigratedAt = existing.MigratedAt
		}
	} else {
		stored.CreatedAt = now
	}
	f.wallets[key(familyID, walletID)] = stored
	f.mu.Unlock()

	f.notify("wallet", familyID, walletID)
	return nil
}

func (f *Fake) SubscribeWallet(ctx context.Context, familyID, walletID string, onChange func(*models.Wallet), onError func(error)) (store.Cancel, error) {
	if err := f.begin("SubscribeWallet"); err != nil {
		return nil, err
	}
	s := &sub{kind: "wallet", family: familyID, wallet: walletID, onError: onError}
	s.deliver = func() {
		f.mu.Lock()
		w, ok := f.wallets[key(familyID, walletID)]
		f.mu.Unlock()
		if ok {
			onChange(&w)
		}
	}
	cancel := f.addSub(s)
	s.deliver()
	return cancel, nil
}

func (f *Fake) ListTransactions(ctx context.Context, familyID, walletID string) ([]models.Transaction, error) {
	if err := f.begin("ListTransactions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := append([]models.Transaction(nil), f.txs[key(familyID, walletID)]...)
	models.SortTransactions(list)
	return list, nil
}

func (f *Fake) AddTransaction(ctx context.Context, familyID, walletID string, tx *models.Transaction) (string, error) {
	if err := f.begin("AddTransaction"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.nextDocID++
	id := fmt.Sprintf("remote_%d", f.nextDocID)
	tx.ID = id
	tx.CreatedAt = time.Now()
	k := key(familyID, walletID)
	f.txs[k] = append(f.txs[k], *tx)
	f.mu.Unlock()

	f.notify("transactions", familyID, walletID)
	return id, nil
}

func (f *Fake) UpdateTransaction(ctx context.Context, familyID, walletID, id string, patch models.TransactionPatch) error {
	if err := f.begin("UpdateTransaction"); err != nil {
		return err
	}
	f.mu.Lock()
	k := key(familyID, walletID)
	found := false
	for i := range f.txs[k] {
		if f.txs[k][i].ID == id {
			patch.Apply(&f.txs[k][i])
			now := time.Now()
			f.txs[k][i].UpdatedAt = &now
			found = true
			break
		}
	}
	f.mu.Unlock()
	if !found {
		return store.ErrNotFound
	}
	f.notify("transactions", familyID, walletID)
	return nil
}

func (f *Fake) DeleteTransaction(ctx context.Context, familyID, walletID, id string) error {
	if err := f.begin("DeleteTransaction"); err != nil {
		return err
	}
	f.mu.Lock()
	k := key(familyID, walletID)
	kept := f.txs[k][:0]
	found := false
	for _, tx := range f.txs[k] {
		if tx.ID == id {
			found = true
			continue
		}
		kept = append(kept, tx)
	}
	f.txs[k] = kept
	f.mu.Unlock()
	if !found {
		return store.ErrNotFound
	}
	f.notify("transactions", familyID, walletID)
	return nil
}

func (f *Fake) SubscribeTransactions(ctx context.Context, familyID, walletID string, onChange func([]models.Transaction), onError func(error)) (store.Cancel, error) {
	if err := f.begin("SubscribeTransactions"); err != nil {
		return nil, err
	}
	s := &sub{kind: "transactions", family: familyID, wallet: walletID, onError: onError}
	s.deliver = func() {
		list, err := f.ListTransactions(context.Background(), familyID, walletID)
		if err == nil {
			onChange(list)
		}
	}
	cancel := f.addSub(s)
	s.deliver()
	return cancel, nil
}

func (f *Fake) ListGoals(ctx context.Context, familyID, walletID string) ([]models.Goal, error) {
	if err := f.begin("ListGoals"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := append([]models.Goal(nil), f.goals[key(familyID, walletID)]...)
	models.SortGoals(list)
	return list, nil
}

func (f *Fake) AddGoal(ctx context.Context, familyID, walletID string, g *models.Goal) (string, error) {
	if err := f.begin("AddGoal"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.nextDocID++
	id := fmt.Sprintf("remote_%d", f.nextDocID)
	g.ID = id
	g.CreatedAt = time.Now()
	k := key(familyID, walletID)
	f.goals[k] = append(f.goals[k], *g)
	f.mu.Unlock()

	f.notify("goals", familyID, walletID)
	return id, nil
}

func (f *Fake) UpdateGoal(ctx context.Context, familyID, walletID, id string, patch models.GoalPatch) error {
	if err := f.begin("UpdateGoal"); err != nil {
		return err
	}
	f.mu.Lock()
	k := key(familyID, walletID)
	found := false
	for i := range f.goals[k] {
		if f.goals[k][i].ID == id {
			patch.Apply(&f.goals[k][i])
			now := time.Now()
			f.goals[k][i].UpdatedAt = &now
			found = true
			break
		}
	}
	f.mu.Unlock()
	if !found {
		return store.ErrNotFound
	}
	f.notify("goals", familyID, walletID)
	return nil
}

func (f *Fake) DeleteGoal(ctx context.Context, familyID, walletID, id string) error {
	if err := f.begin("DeleteGoal"); err != nil {
		return err
	}
	f.mu.Lock()
	k := key(familyID, walletID)
	kept := f.goals[k][:0]
	found := false
	for _, g := range f.goals[k] {
		if g.ID == id {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	f.goals[k] = kept
	f.mu.Unlock()
	if !found {
		return store.ErrNotFound
	}
	f.notify("goals", familyID, walletID)
	return nil
}

func (f *Fake) SubscribeGoals(ctx context.Context, familyID, walletID string, onChange func([]models.Goal), onError func(error)) (store.Cancel, error) {
	if err := f.begin("SubscribeGoals"); err != nil {
		return nil, err
	}
	s := &sub{kind: "goals", family: familyID, wallet: walletID, onError: onError}
	s.deliver = func() {
		list, err := f.ListGoals(context.Background(), familyID, walletID)
		if err == nil {
			onChange(list)
		}
	}
	cancel := f.addSub(s)
	s.deliver()
	return cancel, nil
}

// fakeBatch applies writes immediately; the fake has no partial-failure
// mode, so immediate application is equivalent to an atomic commit.
type fakeBatch struct {
	f *Fake
}

func (b fakeBatch) SetWallet(familyID, walletID string, w *models.Wallet) {
	b.f.mu.Lock()
	stored := *w
	now := time.Now()
	stored.UpdatedAt = &now
	stored.MigratedAt = &now
	b.f.wallets[key(familyID, walletID)] = stored
	b.f.mu.Unlock()
}

func (b fakeBatch) PutTransaction(familyID, walletID, id string, tx models.Transaction) {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	tx.ID = id
	k := key(familyID, walletID)
	for i := range b.f.txs[k] {
		if b.f.txs[k][i].ID == id {
			b.f.txs[k][i] = tx
			return
		}
	}
	b.f.txs[k] = append(b.f.txs[k], tx)
}

func (b fakeBatch) PutGoal(familyID, walletID, id string, g models.Goal) {
	b.f.mu.Lock()
	defer b.f.mu.Unlock()
	g.ID = id
	k := key(familyID, walletID)
	for i := range b.f.goals[k] {
		if b.f.goals[k][i].ID == id {
			b.f.goals[k][i] = g
			return
		}
	}
	b.f.goals[k] = append(b.f.goals[k], g)
}

func (f *Fake) RunBatch(ctx context.Context, fn func(b store.Batch) error) error {
	if err := f.begin("RunBatch"); err != nil {
		return err
	}
	return fn(fakeBatch{f: f})
}
