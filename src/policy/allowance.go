package policy

import (
	"time"

	"github.com/sgiordano45/KidsWallet/src/models"
)

// AllowanceDue reports whether the configured allowance should be paid at
// now. Weekly and biweekly run on elapsed time since the last payment;
// monthly runs once per calendar month. A wallet that never paid allowance
// is due immediately.
func AllowanceDue(s models.Settings, now time.Time) bool {
	if s.AllowanceAmount.IsZero() {
		return false
	}
	last := s.LastAllowanceDate
	if last == nil {
		return true
	}
	switch s.AllowanceFrequency {
	case models.AllowanceWeekly:
		return now.Sub(*last) >= 7*24*time.Hour
	case models.AllowanceBiweekly, "":
		return now.Sub(*last) >= 14*24*time.Hour
	case models.AllowanceMonthly:
		return last.Month() != now.Month() || last.Year() != now.Year()
	default:
		return false
	}
}
