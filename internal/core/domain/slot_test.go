package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func slotOn(date time.Time, start, end int) domain.TimeSlot {
	return domain.TimeSlot{Date: date, StartMinute: start, EndMinute: end}
}

func TestTimeSlot_Overlaps(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	tests := []struct {
		name string
		a    domain.TimeSlot
		b    domain.TimeSlot
		want bool
	}{
		{
			name: "identical slots overlap",
			a:    slotOn(day, 840, 930),
			b:    slotOn(day, 840, 930),
			want: true,
		},
		{
			name: "partial overlap at the end",
			a:    slotOn(day, 840, 930),
			b:    slotOn(day, 900, 960),
			want: true,
		},
		{
			name: "one slot contained in the other",
			a:    slotOn(day, 600, 1200),
			b:    slotOn(day, 840, 930),
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    slotOn(day, 840, 930),
			b:    slotOn(day, 930, 990),
			want: false,
		},
		{
			name: "disjoint slots",
			a:    slotOn(day, 600, 660),
			b:    slotOn(day, 840, 930),
			want: false,
		},
		{
			name: "same minutes on different dates never overlap",
			a:    slotOn(day, 840, 930),
			b:    slotOn(nextDay, 840, 930),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestTimeSlot_Valid(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		slot domain.TimeSlot
		want bool
	}{
		{name: "regular slot", slot: slotOn(day, 840, 930), want: true},
		{name: "full day", slot: slotOn(day, 0, 1440), want: true},
		{name: "empty interval", slot: slotOn(day, 840, 840), want: false},
		{name: "reversed interval", slot: slotOn(day, 930, 840), want: false},
		{name: "negative start", slot: slotOn(day, -10, 60), want: false},
		{name: "past midnight", slot: slotOn(day, 1380, 1500), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.Valid())
		})
	}
}

func TestTimeSlot_StartAt(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	slot := slotOn(day, 840, 930)

	assert.Equal(t, time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC), slot.StartAt())
	assert.Equal(t, 90*time.Minute, slot.Duration())
}

func TestTransaction_SignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("150.00")

	tests := []struct {
		name string
		kind domain.TransactionKind
		want decimal.Decimal
	}{
		{name: "deposit adds", kind: domain.TxnDeposit, want: amount},
		{name: "refund adds", kind: domain.TxnRefund, want: amount},
		{name: "withdraw subtracts", kind: domain.TxnWithdraw, want: amount.Neg()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Kind: tt.kind, Amount: amount}
			assert.True(t, tt.want.Equal(txn.SignedAmount()))
		})
	}
}
