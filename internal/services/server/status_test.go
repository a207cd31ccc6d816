package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveStatus(t *testing.T) {
	srv := models.Server{ID: "srv1", AdminStatus: models.ServerAvailable}
	occupying := []models.Booking{{
		ID:        "b1",
		ServerID:  "srv1",
		StartDate: day("2026-03-10"),
		EndDate:   day("2026-03-20"),
		Status:    models.BookingActive,
	}}

	tests := []struct {
		name        string
		adminStatus models.ServerStatus
		bookings    []models.Booking
		now         string
		expected    models.ServerStatus
	}{
		{"maintenance overrides bookings", models.ServerMaintenance, occupying, "2026-03-15", models.ServerMaintenance},
		{"offline overrides bookings", models.ServerOffline, occupying, "2026-03-15", models.ServerOffline},
		{"occupying booking covers now", models.ServerAvailable, occupying, "2026-03-15", models.ServerBooked},
		{"first booking day inclusive", models.ServerAvailable, occupying, "2026-03-10", models.ServerBooked},
		{"last booking day inclusive", models.ServerAvailable, occupying, "2026-03-20", models.ServerBooked},
		{"before booking starts", models.ServerAvailable, occupying, "2026-03-05", models.ServerAvailable},
		{"after booking ends", models.ServerAvailable, occupying, "2026-03-25", models.ServerAvailable},
		{"no bookings", models.ServerAvailable, nil, "2026-03-15", models.ServerAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := srv
			s.AdminStatus = tt.adminStatus
			got := ResolveStatus(s, tt.bookings, day(tt.now))
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("cancelled booking does not mark server booked", func(t *testing.T) {
		cancelled := []models.Booking{{
			ID:        "b1",
			ServerID:  "srv1",
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-20"),
			Status:    models.BookingCancelled,
		}}
		got := ResolveStatus(srv, cancelled, day("2026-03-15"))
		assert.Equal(t, models.ServerAvailable, got)
	})

	t.Run("pending_renewal marks server booked", func(t *testing.T) {
		pending := []models.Booking{{
			ID:        "b1",
			ServerID:  "srv1",
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-20"),
			Status:    models.BookingPendingRenewal,
		}}
		got := ResolveStatus(srv, pending, day("2026-03-15"))
		assert.Equal(t, models.ServerBooked, got)
	})

	t.Run("booking on another server does not affect status", func(t *testing.T) {
		foreign := []models.Booking{{
			ID:        "b1",
			ServerID:  "srv2",
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-20"),
			Status:    models.BookingActive,
		}}
		got := ResolveStatus(srv, foreign, day("2026-03-15"))
		assert.Equal(t, models.ServerAvailable, got)
	})
}

func TestResolveStatusPure(t *testing.T) {
	srv := models.Server{ID: "srv1", AdminStatus: models.ServerAvailable}
	bookings := []models.Booking{{
		ID:        "b1",
		ServerID:  "srv1",
		StartDate: day("2026-03-10"),
		EndDate:   day("2026-03-20"),
		Status:    models.BookingActive,
	}}

	// Два вызова с одними аргументами дают один результат,
	// аргументы не изменяются.
	first := ResolveStatus(srv, bookings, day("2026-03-15"))
	second := ResolveStatus(srv, bookings, day("2026-03-15"))
	assert.Equal(t, first, second)
	assert.Equal(t, models.ServerAvailable, srv.AdminStatus)
	assert.Equal(t, models.BookingActive, bookings[0].Status)
}

func TestCurrentBooking(t *testing.T) {
	bookings := []models.Booking{
		{
			ID:        "past",
			ServerID:  "srv1",
			StartDate: day("2026-01-01"),
			EndDate:   day("2026-01-10"),
			Status:    models.BookingCompleted,
		},
		{
			ID:        "current",
			ServerID:  "srv1",
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-20"),
			Status:    models.BookingActive,
		},
	}

	t.Run("returns covering booking", func(t *testing.T) {
		got := CurrentBooking("srv1", bookings, day("2026-03-15"))
		require.NotNil(t, got)
		assert.Equal(t, "current", got.ID)
	})

	t.Run("nil when no covering booking", func(t *testing.T) {
		got := CurrentBooking("srv1", bookings, day("2026-02-15"))
		assert.Nil(t, got)
	})
}
