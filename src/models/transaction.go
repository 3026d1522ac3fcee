package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single wallet movement. Entries created while the remote
// store was unreachable carry a placeholder id until a later add succeeds
// remotely.
type Transaction struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Type      string          `json:"type"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// TransactionPatch carries partial updates; nil fields stay untouched.
type TransactionPatch struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Date   *time.Time       `json:"date,omitempty"`
	Type   *string          `json:"type,omitempty"`
	Note   *string          `json:"note,omitempty"`
}

func (p TransactionPatch) Apply(tx *Transaction) {
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Note != nil {
		tx.Note = *p.Note
	}
}

// SortTransactions orders most recent occurrence first. Stable, so ties keep
// their relative order; list views downstream rely on this.
func SortTransactions(list []Transaction) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
}
