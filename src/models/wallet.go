package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allowance frequencies accepted in Settings.
const (
	AllowanceWeekly   = "weekly"
	AllowanceBiweekly = "biweekly"
	AllowanceMonthly  = "monthly"
)

// DefaultWalletID is the single wallet every family currently has.
const DefaultWalletID = "main"

// Settings is embedded in the wallet document. PIN fields hold bcrypt
// hashes, never the raw PINs.
type Settings struct {
	InterestRate       decimal.Decimal `json:"interest_rate"`
	InterestDay        int             `json:"interest_day"`
	LastInterestDate   *time.Time      `json:"last_interest_date,omitempty"`
	ParentPIN          *string         `json:"parent_pin,omitempty"`
	KidPIN             *string         `json:"kid_pin,omitempty"`
	AllowanceAmount    decimal.Decimal `json:"allowance_amount"`
	AllowanceFrequency string          `json:"allowance_frequency"`
	LastAllowanceDate  *time.Time      `json:"last_allowance_date,omitempty"`
}

// Wallet is the single "main" wallet of a family. The cumulative totals are
// caller-maintained; the sync layer never recomputes them from transactions.
type Wallet struct {
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	TotalDeposits decimal.Decimal `json:"total_deposits"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalEarned   decimal.Decimal `json:"total_earned"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	Settings      Settings        `json:"settings"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
	MigratedAt    *time.Time      `json:"migrated_at,omitempty"`
}

// DefaultWallet returns the wallet a brand-new family starts with, also used
// as the fallback value when neither store has data.
func DefaultWallet() Wallet {
	return Wallet{
		Name: "Main Wallet",
		Settings: Settings{
			InterestRate:       decimal.NewFromInt(5),
			InterestDay:        1,
			AllowanceAmount:    decimal.NewFromInt(5),
			AllowanceFrequency: AllowanceBiweekly,
		},
	}
}

// SettingsPatch carries partial settings updates; nil fields stay untouched.
type SettingsPatch struct {
	InterestRate       *decimal.Decimal `json:"interest_rate,omitempty"`
	InterestDay        *int             `json:"interest_day,omitempty"`
	LastInterestDate   *time.Time       `json:"last_interest_date,omitempty"`
	ParentPIN          *string          `json:"parent_pin,omitempty"`
	KidPIN             *string          `json:"kid_pin,omitempty"`
	AllowanceAmount    *decimal.Decimal `json:"allowance_amount,omitempty"`
	AllowanceFrequency *string          `json:"allowance_frequency,omitempty"`
	LastAllowanceDate  *time.Time       `json:"last_allowance_date,omitempty"`
}

func (p SettingsPatch) Apply(s *Settings) {
	if p.InterestRate != nil {
		s.InterestRate = *p.InterestRate
	}
	if p.InterestDay != nil {
		s.InterestDay = *p.InterestDay
	}
	if p.LastInterestDate != nil {
		s.LastInterestDate = p.LastInterestDate
	}
	if p.ParentPIN != nil {
		s.ParentPIN = p.ParentPIN
	}
	if p.KidPIN != nil {
		s.KidPIN = p.KidPIN
	}
	if p.AllowanceAmount != nil {
		s.AllowanceAmount = *p.AllowanceAmount
	}
	if p.AllowanceFrequency != nil {
		s.AllowanceFrequency = *p.AllowanceFrequency
	}
	if p.LastAllowanceDate != nil {
		s.LastAllowanceDate = p.LastAllowanceDate
	}
}

// WalletPatch carries partial wallet updates; nil fields stay untouched.
type WalletPatch struct {
	Name          *string          `json:"name,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	TotalDeposits *decimal.Decimal `json:"total_deposits,omitempty"`
	TotalSpent    *decimal.Decimal `json:"total_spent,omitempty"`
	TotalEarned   *decimal.Decimal `json:"total_earned,omitempty"`
	TotalInterest *decimal.Decimal `json:"total_interest,omitempty"`
	Settings      *SettingsPatch   `json:"settings,omitempty"`
}

func (p WalletPatch) Apply(w *Wallet) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Balance != nil {
		w.Balance = *p.Balance
	}
	if p.TotalDeposits != nil {
		w.TotalDeposits = *p.TotalDeposits
	}
	if p.TotalSpent != nil {
		w.TotalSpent = *p.TotalSpent
	}
	if p.TotalEarned != nil {
		w.TotalEarned = *p.TotalEarned
	}
	if p.TotalInterest != nil {
		w.TotalInterest = *p.TotalInterest
	}
	if p.Settings != nil {
		p.Settings.Apply(&w.Settings)
	}
}
