// Package dates содержит чистые функции календарной арифметики бронирований:
// подсчет числа забронированных дней и проверку диапазона дат.
package dates

import (
	"errors"
	"time"
)

// DateLayout формат календарной даты во внешних интерфейсах (ISO-8601).
const DateLayout = "2006-01-02"

var (
	// ErrPastStartDate дата начала раньше текущего момента.
	ErrPastStartDate = errors.New("start date is in the past")
	// ErrInvalidRange дата окончания не позже даты начала.
	ErrInvalidRange = errors.New("end date must be after start date")
)

// DaysBooked возвращает ceil((end - start) в сутках).
// Для end >= start результат всегда >= 0; ноль только при start == end.
func DaysBooked(start, end time.Time) int {
	diff := end.Sub(start)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// ValidateRange проверяет диапазон дат нового бронирования.
// Возвращает ErrPastStartDate, если start раньше now,
// и ErrInvalidRange, если end не позже start.
// Применяется только при создании: продление сравнивается
// со старой датой окончания, а не с текущим моментом.
func ValidateRange(start, end, now time.Time) error {
	if start.Before(now) {
		return ErrPastStartDate
	}
	if !end.After(start) {
		return ErrInvalidRange
	}
	return nil
}

// DaysRemaining возвращает число дней до окончания бронирования,
// не меньше нуля. Используется в еженедельном дайджесте.
func DaysRemaining(end, now time.Time) int {
	if !end.After(now) {
		return 0
	}
	return DaysBooked(now, end)
}
