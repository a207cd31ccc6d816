// Package metrics содержит прометеевские счетчики бизнес-операций сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCreated количество успешно созданных бронирований.
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labreserve_bookings_created_total",
		Help: "Total number of bookings created.",
	})
	// BookingsCancelled количество отмененных бронирований.
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labreserve_bookings_cancelled_total",
		Help: "Total number of bookings cancelled.",
	})
	// BookingConflicts количество запросов, отклоненных из-за пересечения дат.
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labreserve_booking_conflicts_total",
		Help: "Total number of booking requests rejected due to date conflicts.",
	})
	// DigestsSent количество отправленных писем еженедельного дайджеста.
	DigestsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labreserve_digests_sent_total",
		Help: "Total number of weekly digest emails sent.",
	})
)
