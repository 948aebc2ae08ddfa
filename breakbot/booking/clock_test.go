package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferableSlots(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		count int
		step  time.Duration
		want  []string
	}{
		{
			name:  "morning slots",
			now:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
			count: 4,
			step:  30 * time.Minute,
			want:  []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:  "seconds are truncated",
			now:   time.Date(2024, 5, 1, 9, 0, 59, 999, time.UTC),
			count: 2,
			step:  30 * time.Minute,
			want:  []string{"09:00", "09:30"},
		},
		{
			name:  "wraps past midnight",
			now:   time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC),
			count: 3,
			step:  30 * time.Minute,
			want:  []string{"23:30", "00:00", "00:30"},
		},
		{
			name:  "defaults applied for zero count and step",
			now:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			count: 0,
			step:  0,
			want:  []string{"12:00", "12:30", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OfferableSlots(tt.now, tt.count, tt.step))
		})
	}
}

func TestShiftClock(t *testing.T) {
	tests := []struct {
		name    string
		hhmm    string
		d       time.Duration
		want    string
		wantErr bool
	}{
		{name: "plain shift", hhmm: "12:00", d: 45 * time.Minute, want: "12:45"},
		{name: "wraps past midnight", hhmm: "23:50", d: 45 * time.Minute, want: "00:35"},
		{name: "exactly midnight", hhmm: "23:30", d: 30 * time.Minute, want: "00:00"},
		{name: "invalid input", hhmm: "25:99", wantErr: true},
		{name: "not a clock", hhmm: "noonish", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShiftClock(tt.hhmm, tt.d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
