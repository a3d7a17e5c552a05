// Package appointments owns the appointment lifecycle: the status
// transitions triggered by rescheduling and by the passage of time, and the
// best-effort confirmation emails sent around them.
package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"hospital-appointments-server/internal/apperrors"
	"hospital-appointments-server/internal/metrics"
	"hospital-appointments-server/internal/models"
	"hospital-appointments-server/internal/notify"
)

// DefaultSpecialization labels doctors without a resolvable specialization.
const DefaultSpecialization = "General"

const (
	dateLayout = "2006-01-02"
)

// Engine applies the lifecycle rules on top of a Store. It keeps no state of
// its own between calls.
type Engine struct {
	store    Store
	dir      Directory
	notifier Notifier
	now      func() time.Time
	logger   zerolog.Logger
	metrics  *metrics.LifecycleMetrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the source of "today" used by the completion sweep.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.LifecycleMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func NewEngine(store Store, dir Directory, notifier Notifier, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		dir:      dir,
		notifier: notifier,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create stores a new appointment and then attempts a confirmation email.
// The email outcome never affects the result.
func (e *Engine) Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	if err := validateNew(a); err != nil {
		return nil, err
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	a.ID = ""

	if err := e.store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	e.sendConfirmation(ctx, a, a.AppointmentDate, a.AppointmentTime)
	return a, nil
}

func validateNew(a *models.Appointment) error {
	if a == nil {
		return apperrors.NewValidation("", "appointment is required")
	}
	if strings.TrimSpace(a.PatientID) == "" {
		return apperrors.NewValidation("patientId", "is required")
	}
	if strings.TrimSpace(a.DoctorID) == "" {
		return apperrors.NewValidation("doctorId", "is required")
	}
	if time.Time(a.AppointmentDate).IsZero() {
		return apperrors.NewValidation("appointmentDate", "is required")
	}
	if a.Status != "" && !a.Status.Valid() {
		return apperrors.NewValidation("status", fmt.Sprintf("unknown status %q", a.Status))
	}
	if !validCancelConfirmation(a.CancelConfirm) {
		return apperrors.NewValidation("cancelConfirm", "must be 0, 1 or 2")
	}
	return nil
}

func validCancelConfirmation(c models.CancelConfirmation) bool {
	return c >= models.CancelUnset && c <= models.CancelConfirmed
}

// Get returns a single appointment.
func (e *Engine) Get(ctx context.Context, id string) (*models.Appointment, error) {
	return e.store.GetByID(ctx, id)
}

// Update applies a sparse patch. Moving the date or time of a PENDING
// appointment schedules it and sends a fresh confirmation; other statuses
// keep their value. The confirmation goes out only after the write succeeds:
// a failed store write returns its error and no email is sent.
func (e *Engine) Update(ctx context.Context, id string, patch Patch) (*models.Appointment, error) {
	if patch.CancelConfirm != nil && !validCancelConfirmation(*patch.CancelConfirm) {
		return nil, apperrors.NewValidation("cancelConfirm", "must be 0, 1 or 2")
	}

	existing, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rescheduled := patch.dateChanged(existing) || patch.timeChanged(existing)
	scheduling := rescheduled && existing.Status.Is(models.StatusPending)
	if scheduling {
		existing.Status = models.StatusScheduled
	}
	patch.Apply(existing)

	if err := e.store.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update appointment %s: %w", id, err)
	}

	if scheduling {
		e.sendConfirmation(ctx, existing, existing.AppointmentDate, existing.AppointmentTime)
	}
	return existing, nil
}

// Delete removes an appointment. No notification is sent.
func (e *Engine) Delete(ctx context.Context, id string) error {
	return e.store.Delete(ctx, id)
}

// UpdateStatus overwrites the status without applying any transition rule.
func (e *Engine) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	parsed, ok := models.ParseAppointmentStatus(string(status))
	if !ok {
		return nil, apperrors.NewValidation("status", fmt.Sprintf("unknown status %q", status))
	}
	return e.store.UpdateStatus(ctx, id, parsed)
}

// ListByDoctor returns the doctor's appointments with past ones completed.
func (e *Engine) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	list, err := e.store.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list appointments for doctor %s: %w", doctorID, err)
	}
	return e.sweep(ctx, list), nil
}

// ListByPatient returns the patient's appointments with past ones completed.
func (e *Engine) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	list, err := e.store.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments for patient %s: %w", patientID, err)
	}
	return e.sweep(ctx, list), nil
}

func (e *Engine) ListAll(ctx context.Context) ([]models.Appointment, error) {
	return e.store.ListAll(ctx)
}

func (e *Engine) ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	parsed, ok := models.ParseAppointmentStatus(string(status))
	if !ok {
		return nil, apperrors.NewValidation("status", fmt.Sprintf("unknown status %q", status))
	}
	return e.store.ListByStatus(ctx, parsed)
}

func (e *Engine) ListByDate(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	return e.store.ListByDate(ctx, date)
}

func (e *Engine) ListByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]models.Appointment, error) {
	return e.store.ListByDoctorAndDate(ctx, doctorID, date)
}

// ListUpcomingByDoctor returns appointments dated today or later.
func (e *Engine) ListUpcomingByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	today := calendarDay(e.now())
	return e.filterByDoctor(ctx, doctorID, func(d time.Time) bool { return !d.Before(today) })
}

// ListPastByDoctor returns appointments dated before today.
func (e *Engine) ListPastByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	today := calendarDay(e.now())
	return e.filterByDoctor(ctx, doctorID, func(d time.Time) bool { return d.Before(today) })
}

// ListTodayByDoctor returns appointments dated today.
func (e *Engine) ListTodayByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	today := calendarDay(e.now())
	return e.filterByDoctor(ctx, doctorID, func(d time.Time) bool { return d.Equal(today) })
}

// filterByDoctor reads without sweeping.
func (e *Engine) filterByDoctor(ctx context.Context, doctorID string, keep func(day time.Time) bool) ([]models.Appointment, error) {
	list, err := e.store.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list appointments for doctor %s: %w", doctorID, err)
	}
	out := make([]models.Appointment, 0, len(list))
	for _, a := range list {
		date := time.Time(a.AppointmentDate)
		if date.IsZero() {
			continue
		}
		if keep(calendarDay(date)) {
			out = append(out, a)
		}
	}
	return out, nil
}

// sweep persists COMPLETED for every past open appointment in list. A failed
// write is logged and the record keeps its stored status.
func (e *Engine) sweep(ctx context.Context, list []models.Appointment) []models.Appointment {
	today := e.now()
	for i := range list {
		completed, changed := Reconcile(list[i], today)
		if !changed {
			continue
		}
		if _, err := e.store.UpdateStatus(ctx, list[i].ID, models.StatusCompleted); err != nil {
			e.metrics.ObserveSweepFailure()
			e.logger.Warn().Err(err).Str("appointment_id", list[i].ID).Msg("could not mark past appointment completed")
			continue
		}
		list[i] = completed
		e.metrics.ObserveSweepCompleted()
		e.logger.Info().Str("appointment_id", list[i].ID).Msg("auto-completed past appointment")
	}
	return list
}

// sendConfirmation resolves the people on the appointment and emails the
// patient. Every failure is logged and counted, never returned.
func (e *Engine) sendConfirmation(ctx context.Context, a *models.Appointment, date datatypes.Date, tm datatypes.Time) {
	log := e.logger.With().Str("appointment_id", a.ID).Str("patient_id", a.PatientID).Str("doctor_id", a.DoctorID).Logger()

	msg, ok, err := e.buildConfirmation(ctx, a, date, tm)
	if err != nil {
		e.metrics.ObserveNotification(metrics.KindConfirmation, metrics.OutcomeFailed)
		log.Error().Err(err).Msg("error preparing appointment confirmation")
		return
	}
	if !ok {
		e.metrics.ObserveNotification(metrics.KindConfirmation, metrics.OutcomeSkipped)
		log.Debug().Msg("appointment confirmation skipped: patient, doctor or email missing")
		return
	}

	if err := e.notifier.SendAppointmentConfirmation(ctx, msg); err != nil {
		e.metrics.ObserveNotification(metrics.KindConfirmation, metrics.OutcomeFailed)
		log.Error().Err(err).Msg("error sending appointment confirmation")
		return
	}
	e.metrics.ObserveNotification(metrics.KindConfirmation, metrics.OutcomeSent)
	log.Info().Str("to", msg.To).Msg("appointment confirmation sent")
}

func (e *Engine) buildConfirmation(ctx context.Context, a *models.Appointment, date datatypes.Date, tm datatypes.Time) (notify.AppointmentConfirmation, bool, error) {
	patient, err := e.dir.FindPatient(ctx, a.PatientID)
	if err != nil {
		return notify.AppointmentConfirmation{}, false, fmt.Errorf("find patient: %w", err)
	}
	doctor, err := e.dir.FindDoctor(ctx, a.DoctorID)
	if err != nil {
		return notify.AppointmentConfirmation{}, false, fmt.Errorf("find doctor: %w", err)
	}
	if patient == nil || doctor == nil || strings.TrimSpace(patient.Email) == "" {
		return notify.AppointmentConfirmation{}, false, nil
	}

	return notify.AppointmentConfirmation{
		To:             patient.Email,
		PatientName:    patient.Name,
		DoctorName:     doctor.Name,
		Specialization: e.specializationName(ctx, doctor),
		Date:           formatDate(date),
		Time:           formatTime(tm),
		Description:    a.Description,
		AppointmentID:  a.ID,
	}, true, nil
}

// specializationName falls back to DefaultSpecialization when the doctor has
// none or the lookup fails.
func (e *Engine) specializationName(ctx context.Context, doctor *models.Doctor) string {
	if doctor.SpecializationID == nil || *doctor.SpecializationID == "" {
		return DefaultSpecialization
	}
	spec, err := e.dir.FindSpecialization(ctx, *doctor.SpecializationID)
	if err != nil {
		e.logger.Warn().Err(err).Str("specialization_id", *doctor.SpecializationID).Msg("specialization lookup failed")
		return DefaultSpecialization
	}
	if spec == nil || spec.Name == "" {
		return DefaultSpecialization
	}
	return spec.Name
}

func formatDate(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return "Not set"
	}
	return t.Format(dateLayout)
}

func formatTime(t datatypes.Time) string {
	return t.String()
}
