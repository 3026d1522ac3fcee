package policy

import (
	"time"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/shopspring/decimal"
)

// InterestDue reports whether monthly interest should be applied at now:
// a rate is configured, today is the configured day of month, and interest
// was not already applied in this calendar month. Pure; the caller applies
// the amount and records the new last-interest date to stop a second run
// within the month.
func InterestDue(s models.Settings, now time.Time) bool {
	if s.InterestRate.IsZero() {
		return false
	}
	day := s.InterestDay
	if day == 0 {
		day = 1
	}
	if now.Day() != day {
		return false
	}
	if last := s.LastInterestDate; last != nil {
		if last.Month() == now.Month() && last.Year() == now.Year() {
			return false
		}
	}
	return true
}

// InterestAmount is balance * rate / 100, single period, non-compounding.
func InterestAmount(balance, rate decimal.Decimal) decimal.Decimal {
	return balance.Mul(rate).Div(decimal.NewFromInt(100))
}
