package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysBooked(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{
			name:  "same day",
			start: "2024-03-01",
			end:   "2024-03-01",
			want:  0,
		},
		{
			name:  "next day",
			start: "2024-03-01",
			end:   "2024-03-02",
			want:  1,
		},
		{
			name:  "nine days",
			start: "2024-03-01",
			end:   "2024-03-10",
			want:  9,
		},
		{
			name:  "across month boundary",
			start: "2024-02-25",
			end:   "2024-03-05",
			want:  9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBooked(date(tt.start), date(tt.end)))
		})
	}
}

func TestDaysBooked_RoundsUpPartialDays(t *testing.T) {
	start := date("2024-03-01")
	end := start.Add(25 * time.Hour)
	assert.Equal(t, 2, DaysBooked(start, end))
}

func TestDaysBooked_ExtensionLaw(t *testing.T) {
	start := date("2024-03-01")
	end := date("2024-03-10")
	base := DaysBooked(start, end)

	for n := 1; n <= 30; n++ {
		extended := DaysBooked(start, end.AddDate(0, 0, n))
		require.Equal(t, base+n, extended, "extending by %d days", n)
	}
}

func TestValidateRange(t *testing.T) {
	now := date("2024-01-15")

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{
			name:    "valid future range",
			start:   "2024-01-20",
			end:     "2024-01-25",
			wantErr: nil,
		},
		{
			name:    "start in the past",
			start:   "2024-01-10",
			end:     "2024-01-25",
			wantErr: ErrPastStartDate,
		},
		{
			name:    "end equals start",
			start:   "2024-01-20",
			end:     "2024-01-20",
			wantErr: ErrInvalidRange,
		},
		{
			name:    "end before start",
			start:   "2024-01-25",
			end:     "2024-01-20",
			wantErr: ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(date(tt.start), date(tt.end), now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	now := date("2024-01-15")

	assert.Equal(t, 5, DaysRemaining(date("2024-01-20"), now))
	assert.Equal(t, 0, DaysRemaining(date("2024-01-15"), now))
	assert.Equal(t, 0, DaysRemaining(date("2024-01-10"), now), "past end never goes negative")
}
