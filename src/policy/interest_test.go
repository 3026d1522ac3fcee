package policy_test

import (
	"testing"
	"time"

	"github.com/sgiordano45/KidsWallet/src/models"
	"github.com/sgiordano45/KidsWallet/src/policy"
	"github.com/shopspring/decimal"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 0, 0, 0, time.UTC)
}

func TestInterestDue(t *testing.T) {
	rate := decimal.NewFromInt(5)
	jan1 := date(2026, time.January, 1)

	cases := []struct {
		name     string
		settings models.Settings
		now      time.Time
		want     bool
	}{
		{
			name:     "zero rate never due",
			settings: models.Settings{InterestDay: 1},
			now:      jan1,
			want:     false,
		},
		{
			name:     "wrong day of month",
			settings: models.Settings{InterestRate: rate, InterestDay: 1},
			now:      date(2026, time.January, 2),
			want:     false,
		},
		{
			name:     "due on configured day with no history",
			settings: models.Settings{InterestRate: rate, InterestDay: 1},
			now:      jan1,
			want:     true,
		},
		{
			name:     "unset day falls back to the first",
			settings: models.Settings{InterestRate: rate},
			now:      jan1,
			want:     true,
		},
		{
			name: "already applied this month",
			settings: models.Settings{
				InterestRate:     rate,
				InterestDay:      1,
				LastInterestDate: timePtr(date(2026, time.January, 1)),
			},
			now:  jan1,
			want: false,
		},
		{
			name: "due again the following month",
			settings: models.Settings{
				InterestRate:     rate,
				InterestDay:      1,
				LastInterestDate: timePtr(date(2026, time.January, 1)),
			},
			now:  date(2026, time.February, 1),
			want: true,
		},
		{
			name: "same month a year later is due",
			settings: models.Settings{
				InterestRate:     rate,
				InterestDay:      1,
				LastInterestDate: timePtr(date(2025, time.January, 1)),
			},
			now:  jan1,
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.InterestDue(tc.settings, tc.now); got != tc.want {
				t.Errorf("InterestDue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestInterestDueSuppressedAfterApplication(t *testing.T) {
	now := date(2026, time.January, 1)
	s := models.Settings{InterestRate: decimal.NewFromInt(5), InterestDay: 1}

	if !policy.InterestDue(s, now) {
		t.Fatal("expected interest due before application")
	}
	s.LastInterestDate = &now
	if policy.InterestDue(s, now) {
		t.Error("expected interest suppressed after recording the run")
	}
	if !policy.InterestDue(s, date(2026, time.February, 1)) {
		t.Error("expected interest due again next month")
	}
}

func TestInterestAmount(t *testing.T) {
	got := policy.InterestAmount(decimal.NewFromInt(200), decimal.NewFromInt(5))
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("amount = %s, want 10", got)
	}

	got = policy.InterestAmount(decimal.RequireFromString("33.33"), decimal.NewFromInt(3))
	if !got.Round(2).Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("rounded amount = %s, want 1.00", got.Round(2))
	}
}

func timePtr(v time.Time) *time.Time {
	return &v
}
