package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/policy"
	"github.com/sgiordano45/KidsWallet/src/store"
	"github.com/sgiordano45/KidsWallet/src/store/local"
	"github.com/sgiordano45/KidsWallet/src/syncer"
)

// Scheduler runs the interest and allowance policies on a cron cadence. It
// is a plain caller of the sync layer: applications go through MutateWallet
// and AddTransaction, so the usual local-first, best-effort-remote rules
// hold and the policies themselves stay pure.
type Scheduler struct {
	cron   *cron.Cron
	remote store.Remote
	local  *local.Store
}

func New(remote store.Remote, localStore *local.Store, cronSpec string) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), remote: remote, local: localStore}
	if _, err := s.cron.AddFunc(cronSpec, s.runAll); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// runAll applies due policies for every known family, or for the local-only
// namespace when no remote store is configured.
func (s *Scheduler) runAll() {
	ctx := context.Background()
	now := time.Now()
	if s.remote == nil {
		Apply(ctx, syncer.NewClient(nil, s.local, nil), now)
		return
	}
	families, err := s.remote.ListFamilies(ctx)
	if err != nil {
		log.Printf("ERROR: policy run, listing families: %v", err)
		return
	}
	for _, f := range families {
		Apply(ctx, syncer.NewClient(s.remote, s.local, store.NewScope(f.ID)), now)
	}
}

// Apply checks the wallet's settings against now and applies whatever is
// due: interest first, then allowance against the refreshed wallet. Each
// application is a wallet mutate plus a matching transaction entry, two
// independent writes with no cross-entity atomicity.
func Apply(ctx context.Context, client *syncer.Client, now time.Time) {
	w := client.FetchWallet(ctx)

	if policy.InterestDue(w.Settings, now) {
		amount := policy.InterestAmount(w.Balance, w.Settings.InterestRate).Round(2)
		balance := w.Balance.Add(amount)
		total := w.TotalInterest.Add(amount)
		applied := now
		client.MutateWallet(ctx, models.WalletPatch{
			Balance:       &balance,
			TotalInterest: &total,
			Settings:      &models.SettingsPatch{LastInterestDate: &applied},
		})
		client.AddTransaction(ctx, models.Transaction{
			Amount: amount,
			Date:   now,
			Type:   "interest",
			Note:   "Monthly interest",
		})
		log.Printf("INFO: applied interest %s", amount)
		w = client.FetchWallet(ctx)
	}

	if policy.AllowanceDue(w.Settings, now) {
		amount := w.Settings.AllowanceAmount
		balance := w.Balance.Add(amount)
		deposits := w.TotalDeposits.Add(amount)
		applied := now
		client.MutateWallet(ctx, models.WalletPatch{
			Balance:       &balance,
			TotalDeposits: &deposits,
			Settings:      &models.SettingsPatch{LastAllowanceDate: &applied},
		})
		client.AddTransaction(ctx, models.Transaction{
			Amount: amount,
			Date:   now,
			Type:   "allowance",
			Note:   "Allowance",
		})
		log.Printf("INFO: applied allowance %s", amount)
	}
}
