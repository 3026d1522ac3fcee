package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. Same placeholder-id lifecycle as Transaction.
type Goal struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"target"`
	Saved     decimal.Decimal `json:"saved"`
	Completed bool            `json:"completed"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// GoalPatch carries partial updates; nil fields stay untouched.
type GoalPatch struct {
	Name      *string          `json:"name,omitempty"`
	Target    *decimal.Decimal `json:"target,omitempty"`
	Saved     *decimal.Decimal `json:"saved,omitempty"`
	Completed *bool            `json:"completed,omitempty"`
}

func (p GoalPatch) Apply(g *Goal) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Target != nil {
		g.Target = *p.Target
	}
	if p.Saved != nil {
		g.Saved = *p.Saved
	}
	if p.Completed != nil {
		g.Completed = *p.Completed
	}
}

// SortGoals orders newest goal first. Stable.
func SortGoals(list []Goal) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
