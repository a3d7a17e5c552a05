package appointments

import (
	"time"

	"hospital-appointments-server/internal/models"
)

// Reconcile moves a PENDING or SCHEDULED appointment whose date lies strictly
// before today to COMPLETED. Only the calendar date is compared; the time of
// day is ignored. The second result reports whether a change was made.
func Reconcile(a models.Appointment, today time.Time) (models.Appointment, bool) {
	date := time.Time(a.AppointmentDate)
	if date.IsZero() || !calendarDay(date).Before(calendarDay(today)) {
		return a, false
	}
	if !a.Status.Is(models.StatusPending) && !a.Status.Is(models.StatusScheduled) {
		return a, false
	}
	a.Status = models.StatusCompleted
	return a, true
}

// calendarDay truncates t to midnight UTC of its own calendar date so dates
// read in different locations compare by year, month and day only.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return calendarDay(a).Equal(calendarDay(b))
}
