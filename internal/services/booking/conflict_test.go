package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	existing := models.Booking{
		StartDate: day("2026-03-10"),
		EndDate:   day("2026-03-20"),
	}

	tests := []struct {
		name     string
		start    string
		end      string
		expected bool
	}{
		{"interval inside existing", "2026-03-12", "2026-03-15", true},
		{"overlap on the left", "2026-03-05", "2026-03-12", true},
		{"overlap on the right", "2026-03-18", "2026-03-25", true},
		{"existing inside interval", "2026-03-01", "2026-03-31", true},
		{"entirely before", "2026-03-01", "2026-03-05", false},
		{"entirely after", "2026-03-25", "2026-03-31", false},
		{"touching start is not a conflict", "2026-03-01", "2026-03-10", false},
		{"touching end is not a conflict", "2026-03-20", "2026-03-25", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.start), day(tt.end), existing)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHasConflict(t *testing.T) {
	bookings := []models.Booking{
		{
			ID:        "b1",
			ServerID:  "srv1",
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-20"),
			Status:    models.BookingActive,
		},
		{
			ID:        "b2",
			ServerID:  "srv1",
			StartDate: day("2026-04-01"),
			EndDate:   day("2026-04-10"),
			Status:    models.BookingCancelled,
		},
		{
			ID:        "b3",
			ServerID:  "srv2",
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-20"),
			Status:    models.BookingPendingRenewal,
		},
	}

	t.Run("conflict with active booking", func(t *testing.T) {
		assert.True(t, HasConflict("srv1", day("2026-03-15"), day("2026-03-25"), bookings, ""))
	})

	t.Run("cancelled booking does not occupy interval", func(t *testing.T) {
		assert.False(t, HasConflict("srv1", day("2026-04-02"), day("2026-04-05"), bookings, ""))
	})

	t.Run("pending_renewal occupies interval", func(t *testing.T) {
		assert.True(t, HasConflict("srv2", day("2026-03-15"), day("2026-03-25"), bookings, ""))
	})

	t.Run("another server does not conflict", func(t *testing.T) {
		assert.False(t, HasConflict("srv3", day("2026-03-15"), day("2026-03-25"), bookings, ""))
	})

	t.Run("own booking excluded on extend", func(t *testing.T) {
		assert.False(t, HasConflict("srv1", day("2026-03-10"), day("2026-03-25"), bookings, "b1"))
	})

	t.Run("completed booking does not occupy interval", func(t *testing.T) {
		completed := []models.Booking{{
			ID:        "b4",
			ServerID:  "srv1",
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-20"),
			Status:    models.BookingCompleted,
		}}
		assert.False(t, HasConflict("srv1", day("2026-03-12"), day("2026-03-15"), completed, ""))
	})
}
