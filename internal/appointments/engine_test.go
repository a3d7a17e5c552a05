package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"hospital-appointments-server/internal/apperrors"
	"hospital-appointments-server/internal/metrics"
	"hospital-appointments-server/internal/models"
	"hospital-appointments-server/internal/notify"
)

// -- Fakes --

type memStore struct {
	rows            map[string]models.Appointment
	failUpdate      bool
	failUpdateState bool
	updateStatusN   int
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]models.Appointment)}
}

func (m *memStore) Create(_ context.Context, a *models.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NewNotFound("appointment", id)
	}
	return &a, nil
}

func (m *memStore) Update(_ context.Context, a *models.Appointment) error {
	if m.failUpdate {
		return errors.New("database is read-only")
	}
	if _, ok := m.rows[a.ID]; !ok {
		return apperrors.NewNotFound("appointment", a.ID)
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	m.updateStatusN++
	if m.failUpdateState {
		return nil, errors.New("database is read-only")
	}
	a, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NewNotFound("appointment", id)
	}
	a.Status = status
	m.rows[id] = a
	return &a, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memStore) filter(keep func(models.Appointment) bool) []models.Appointment {
	var out []models.Appointment
	for _, a := range m.rows {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) ListAll(_ context.Context) ([]models.Appointment, error) {
	return m.filter(func(models.Appointment) bool { return true }), nil
}

func (m *memStore) ListByDoctor(_ context.Context, doctorID string) ([]models.Appointment, error) {
	return m.filter(func(a models.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (m *memStore) ListByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	return m.filter(func(a models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (m *memStore) ListByStatus(_ context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	return m.filter(func(a models.Appointment) bool { return a.Status.Is(status) }), nil
}

func (m *memStore) ListByDate(_ context.Context, date time.Time) ([]models.Appointment, error) {
	return m.filter(func(a models.Appointment) bool { return sameDay(time.Time(a.AppointmentDate), date) }), nil
}

func (m *memStore) ListByDoctorAndDate(_ context.Context, doctorID string, date time.Time) ([]models.Appointment, error) {
	return m.filter(func(a models.Appointment) bool {
		return a.DoctorID == doctorID && sameDay(time.Time(a.AppointmentDate), date)
	}), nil
}

type memDirectory struct {
	patients map[string]*models.Patient
	doctors  map[string]*models.Doctor
	specs    map[string]*models.Specialization
	err      error
}

func (d *memDirectory) FindPatient(_ context.Context, id string) (*models.Patient, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.patients[id], nil
}

func (d *memDirectory) FindDoctor(_ context.Context, id string) (*models.Doctor, error) {
	return d.doctors[id], nil
}

func (d *memDirectory) FindSpecialization(_ context.Context, id string) (*models.Specialization, error) {
	return d.specs[id], nil
}

type recordingNotifier struct {
	sent []notify.AppointmentConfirmation
	err  error
}

func (r *recordingNotifier) SendAppointmentConfirmation(_ context.Context, c notify.AppointmentConfirmation) error {
	r.sent = append(r.sent, c)
	return r.err
}

// -- Helpers --

func strPtr(s string) *string { return &s }

func day(s string) datatypes.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return datatypes.Date(t)
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newDirectory() *memDirectory {
	return &memDirectory{
		patients: map[string]*models.Patient{
			"7": {BaseModel: models.BaseModel{ID: "7"}, Name: "Jane Roe", Email: "jane@example.com"},
			"8": {BaseModel: models.BaseModel{ID: "8"}, Name: "No Mail"},
		},
		doctors: map[string]*models.Doctor{
			"3": {BaseModel: models.BaseModel{ID: "3"}, Name: "Gregory House", SpecializationID: strPtr("sp-1")},
			"4": {BaseModel: models.BaseModel{ID: "4"}, Name: "Lisa Cuddy"},
		},
		specs: map[string]*models.Specialization{
			"sp-1": {BaseModel: models.BaseModel{ID: "sp-1"}, Name: "Diagnostics"},
		},
	}
}

type fixture struct {
	store    *memStore
	dir      *memDirectory
	notifier *recordingNotifier
	engine   *Engine
}

func newFixture(now string) *fixture {
	f := &fixture{store: newMemStore(), dir: newDirectory(), notifier: &recordingNotifier{}}
	f.engine = NewEngine(f.store, f.dir, f.notifier, WithClock(fixedClock(now)))
	return f
}

func (f *fixture) seed(a models.Appointment) models.Appointment {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	f.store.rows[a.ID] = a
	return a
}

// -- Create --

func TestCreate_DefaultsAndNotifies(t *testing.T) {
	f := newFixture("2025-01-01 08:00")

	created, err := f.engine.Create(context.Background(), &models.Appointment{
		PatientID:       "7",
		DoctorID:        "3",
		AppointmentDate: day("2025-01-10"),
		AppointmentTime: datatypes.NewTime(9, 0, 0, 0),
		Description:     "Annual check",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	stored := f.store.rows[created.ID]
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, models.CancelUnset, stored.CancelConfirm)

	require.Len(t, f.notifier.sent, 1)
	msg := f.notifier.sent[0]
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Jane Roe", msg.PatientName)
	assert.Equal(t, "Gregory House", msg.DoctorName)
	assert.Equal(t, "Diagnostics", msg.Specialization)
	assert.Equal(t, "2025-01-10", msg.Date)
	assert.Equal(t, "09:00:00", msg.Time)
	assert.Equal(t, "Annual check", msg.Description)
	assert.Equal(t, created.ID, msg.AppointmentID)
}

func TestCreate_SpecializationFallback(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	f.dir.doctors["5"] = &models.Doctor{BaseModel: models.BaseModel{ID: "5"}, Name: "Orphan", SpecializationID: strPtr("missing")}

	for _, doctorID := range []string{"4", "5"} {
		_, err := f.engine.Create(context.Background(), &models.Appointment{PatientID: "7", DoctorID: doctorID, AppointmentDate: day("2025-01-10")})
		require.NoError(t, err)
	}

	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, DefaultSpecialization, f.notifier.sent[0].Specialization)
	assert.Equal(t, DefaultSpecialization, f.notifier.sent[1].Specialization)
}

func TestCreate_NotificationFailureIsSwallowed(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture("2025-01-01 08:00")
	f.notifier.err = errors.New("smtp unreachable")
	f.engine = NewEngine(f.store, f.dir, f.notifier, WithClock(fixedClock("2025-01-01 08:00")), WithMetrics(metrics.NewLifecycleMetrics(reg)))

	created, err := f.engine.Create(context.Background(), &models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10")})
	require.NoError(t, err)
	assert.Contains(t, f.store.rows, created.ID)
	assert.Len(t, f.notifier.sent, 1)
}

func TestCreate_DirectoryFailureIsSwallowed(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	f.dir.err = errors.New("directory offline")

	created, err := f.engine.Create(context.Background(), &models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10")})
	require.NoError(t, err)
	assert.Contains(t, f.store.rows, created.ID)
	assert.Empty(t, f.notifier.sent)
}

func TestCreate_SkipsNotificationWhenUnresolved(t *testing.T) {
	f := newFixture("2025-01-01 08:00")

	tests := []struct {
		name      string
		patientID string
		doctorID  string
	}{
		{"unknown patient", "99", "3"},
		{"unknown doctor", "7", "99"},
		{"patient without email", "8", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Create(context.Background(), &models.Appointment{PatientID: tt.patientID, DoctorID: tt.doctorID, AppointmentDate: day("2025-01-10")})
			require.NoError(t, err)
		})
	}
	assert.Empty(t, f.notifier.sent)
	assert.Len(t, f.store.rows, 3)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture("2025-01-01 08:00")

	tests := []struct {
		name  string
		appt  *models.Appointment
		field string
	}{
		{"nil", nil, ""},
		{"missing patient", &models.Appointment{DoctorID: "3", AppointmentDate: day("2025-01-10")}, "patientId"},
		{"missing doctor", &models.Appointment{PatientID: "7", AppointmentDate: day("2025-01-10")}, "doctorId"},
		{"missing date", &models.Appointment{PatientID: "7", DoctorID: "3"}, "appointmentDate"},
		{"bad status", &models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: "LOST"}, "status"},
		{"bad cancel flag", &models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), CancelConfirm: 5}, "cancelConfirm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Create(context.Background(), tt.appt)
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
	assert.Empty(t, f.store.rows)
	assert.Empty(t, f.notifier.sent)
}

// -- Update --

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture("2025-01-01 08:00")

	_, err := f.engine.Update(context.Background(), "missing", Patch{Description: strPtr("x")})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdate_PendingRescheduleBecomesScheduled(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), AppointmentTime: datatypes.NewTime(9, 0, 0, 0), Status: "pending"})

	newDate := day("2025-01-12")
	updated, err := f.engine.Update(context.Background(), a.ID, Patch{AppointmentDate: &newDate})
	require.NoError(t, err)

	assert.Equal(t, models.StatusScheduled, updated.Status)
	assert.Equal(t, models.StatusScheduled, f.store.rows[a.ID].Status)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "2025-01-12", f.notifier.sent[0].Date)
	assert.Equal(t, "09:00:00", f.notifier.sent[0].Time)
}

func TestUpdate_TimeChangeAlsoSchedules(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), AppointmentTime: datatypes.NewTime(9, 0, 0, 0), Status: models.StatusPending})

	newTime := datatypes.NewTime(14, 30, 0, 0)
	updated, err := f.engine.Update(context.Background(), a.ID, Patch{AppointmentTime: &newTime})
	require.NoError(t, err)

	assert.Equal(t, models.StatusScheduled, updated.Status)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "2025-01-10", f.notifier.sent[0].Date)
	assert.Equal(t, "14:30:00", f.notifier.sent[0].Time)
}

func TestUpdate_NonPendingStatusUnchanged(t *testing.T) {
	for _, status := range []models.AppointmentStatus{models.StatusScheduled, models.StatusCompleted, models.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture("2025-01-01 08:00")
			a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: status})

			newDate := day("2025-01-20")
			updated, err := f.engine.Update(context.Background(), a.ID, Patch{AppointmentDate: &newDate})
			require.NoError(t, err)

			assert.Equal(t, status, updated.Status)
			assert.Equal(t, "2025-01-20", time.Time(f.store.rows[a.ID].AppointmentDate).Format("2006-01-02"))
			assert.Empty(t, f.notifier.sent)
		})
	}
}

func TestUpdate_SameDateIsNotAReschedule(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), AppointmentTime: datatypes.NewTime(9, 0, 0, 0), Status: models.StatusPending})

	sameDate := day("2025-01-10")
	sameTime := datatypes.NewTime(9, 0, 0, 0)
	updated, err := f.engine.Update(context.Background(), a.ID, Patch{AppointmentDate: &sameDate, AppointmentTime: &sameTime, Description: strPtr("bring x-rays")})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, "bring x-rays", f.store.rows[a.ID].Description)
	assert.Empty(t, f.notifier.sent)
}

func TestUpdate_PreservesOmittedFields(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	a := f.seed(models.Appointment{
		PatientID:       "7",
		DoctorID:        "3",
		AppointmentDate: day("2025-01-10"),
		AppointmentTime: datatypes.NewTime(9, 0, 0, 0),
		Description:     "knee pain",
		Status:          models.StatusPending,
		CancelConfirm:   models.CancelRequested,
	})

	_, err := f.engine.Update(context.Background(), a.ID, Patch{Description: strPtr("knee and hip pain")})
	require.NoError(t, err)

	reread, err := f.engine.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "knee and hip pain", reread.Description)
	assert.Equal(t, a.AppointmentDate, reread.AppointmentDate)
	assert.Equal(t, a.AppointmentTime, reread.AppointmentTime)
	assert.Equal(t, a.PatientID, reread.PatientID)
	assert.Equal(t, a.DoctorID, reread.DoctorID)
	assert.Equal(t, models.CancelRequested, reread.CancelConfirm)
	assert.Equal(t, models.StatusPending, reread.Status)
}

func TestUpdate_NotificationFailureStillPersists(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	f.notifier.err = errors.New("mailbox full")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: models.StatusPending})

	newDate := day("2025-01-11")
	updated, err := f.engine.Update(context.Background(), a.ID, Patch{AppointmentDate: &newDate})
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, updated.Status)
	assert.Equal(t, models.StatusScheduled, f.store.rows[a.ID].Status)
}

func TestUpdate_StoreFailureSendsNoConfirmation(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: models.StatusPending})
	f.store.failUpdate = true

	newDate := day("2025-01-11")
	_, err := f.engine.Update(context.Background(), a.ID, Patch{AppointmentDate: &newDate})
	require.Error(t, err)
	assert.Empty(t, f.notifier.sent)
	assert.Equal(t, models.StatusPending, f.store.rows[a.ID].Status)
}

func TestUpdate_RejectsBadCancelFlag(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: models.StatusPending})

	bad := models.CancelConfirmation(-1)
	_, err := f.engine.Update(context.Background(), a.ID, Patch{CancelConfirm: &bad})
	assert.True(t, apperrors.IsValidation(err))
}

// -- Status / Delete --

func TestUpdateStatus(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: models.StatusScheduled})

	updated, err := f.engine.UpdateStatus(context.Background(), a.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Empty(t, f.notifier.sent)

	_, err = f.engine.UpdateStatus(context.Background(), a.ID, "ARCHIVED")
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.engine.UpdateStatus(context.Background(), "missing", models.StatusCompleted)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	f := newFixture("2025-01-01 08:00")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10")})

	require.NoError(t, f.engine.Delete(context.Background(), a.ID))
	assert.NotContains(t, f.store.rows, a.ID)
	assert.Empty(t, f.notifier.sent)
}

// -- Listing and sweep --

func TestListByDoctorAndPatient_SweepPastOpenAppointments(t *testing.T) {
	ctx := context.Background()
	f := newFixture("2025-02-01 10:00")
	pastPending := f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "a"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: models.StatusPending})
	pastScheduled := f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "b"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-31"), Status: "scheduled"})
	pastCancelled := f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "c"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-05"), Status: models.StatusCancelled})
	today := f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "d"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-02-01"), Status: models.StatusPending})

	list, err := f.engine.ListByDoctor(ctx, "3")
	require.NoError(t, err)
	require.Len(t, list, 4)

	got := map[string]models.AppointmentStatus{}
	for _, a := range list {
		got[a.ID] = a.Status
	}
	assert.Equal(t, models.StatusCompleted, got[pastPending.ID])
	assert.Equal(t, models.StatusCompleted, got[pastScheduled.ID])
	assert.Equal(t, models.StatusCancelled, got[pastCancelled.ID])
	assert.Equal(t, models.StatusPending, got[today.ID])

	persisted, err := f.engine.Get(ctx, pastScheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, persisted.Status)

	f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "e"}, PatientID: "7", DoctorID: "4", AppointmentDate: day("2024-12-01"), Status: models.StatusPending})
	list, err = f.engine.ListByPatient(ctx, "7")
	require.NoError(t, err)
	for _, a := range list {
		if a.ID == "e" {
			assert.Equal(t, models.StatusCompleted, a.Status)
		}
	}
	assert.Equal(t, models.StatusCompleted, f.store.rows["e"].Status)
}

func TestListByDoctor_SweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture("2025-02-01 10:00")
	f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "a"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: models.StatusPending})

	_, err := f.engine.ListByDoctor(ctx, "3")
	require.NoError(t, err)
	_, err = f.engine.ListByDoctor(ctx, "3")
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.updateStatusN)
}

func TestListByDoctor_SweepFailureDoesNotAbort(t *testing.T) {
	f := newFixture("2025-02-01 10:00")
	f.store.failUpdateState = true
	f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "a"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: models.StatusPending})
	f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "b"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-11"), Status: models.StatusScheduled})

	list, err := f.engine.ListByDoctor(context.Background(), "3")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.StatusPending, list[0].Status)
	assert.Equal(t, models.StatusScheduled, list[1].Status)
	assert.Equal(t, 2, f.store.updateStatusN)
}

func TestPureReadsNeverSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture("2025-02-01 10:00")
	a := f.seed(models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), Status: models.StatusPending})

	byStatus, err := f.engine.ListByStatus(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, models.StatusPending, byStatus[0].Status)

	byDate, err := f.engine.ListByDate(ctx, time.Time(day("2025-01-10")))
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, models.StatusPending, byDate[0].Status)

	byDoctorDate, err := f.engine.ListByDoctorAndDate(ctx, "3", time.Time(day("2025-01-10")))
	require.NoError(t, err)
	require.Len(t, byDoctorDate, 1)

	all, err := f.engine.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	assert.Equal(t, models.StatusPending, f.store.rows[a.ID].Status)
	assert.Zero(t, f.store.updateStatusN)
}

func TestListByStatus_RejectsUnknownStatus(t *testing.T) {
	f := newFixture("2025-02-01 10:00")
	_, err := f.engine.ListByStatus(context.Background(), "LOST")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDoctorTimeWindows(t *testing.T) {
	ctx := context.Background()
	f := newFixture("2025-02-01 10:00")
	f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "past"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-31"), Status: models.StatusPending})
	f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "today"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-02-01"), Status: models.StatusPending})
	f.seed(models.Appointment{BaseModel: models.BaseModel{ID: "future"}, PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-03-01"), Status: models.StatusPending})

	ids := func(list []models.Appointment) []string {
		var out []string
		for _, a := range list {
			out = append(out, a.ID)
		}
		return out
	}

	upcoming, err := f.engine.ListUpcomingByDoctor(ctx, "3")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"today", "future"}, ids(upcoming))

	past, err := f.engine.ListPastByDoctor(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"past"}, ids(past))
	assert.Equal(t, models.StatusPending, past[0].Status)

	today, err := f.engine.ListTodayByDoctor(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"today"}, ids(today))

	assert.Zero(t, f.store.updateStatusN)
}

// -- End to end --

func TestLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	notifier := &recordingNotifier{}
	now := fixedClock("2025-01-01 09:00")
	engine := NewEngine(store, newDirectory(), notifier, WithClock(func() time.Time { return now() }))

	created, err := engine.Create(ctx, &models.Appointment{PatientID: "7", DoctorID: "3", AppointmentDate: day("2025-01-10"), AppointmentTime: datatypes.NewTime(9, 0, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "jane@example.com", notifier.sent[0].To)
	assert.Equal(t, "Gregory House", notifier.sent[0].DoctorName)
	assert.Equal(t, "Diagnostics", notifier.sent[0].Specialization)

	newDate := day("2025-01-12")
	updated, err := engine.Update(ctx, created.ID, Patch{AppointmentDate: &newDate})
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, updated.Status)
	assert.Len(t, notifier.sent, 2)

	now = fixedClock("2025-02-01 09:00")
	list, err := engine.ListByDoctor(ctx, "3")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.StatusCompleted, list[0].Status)
	assert.Equal(t, models.StatusCompleted, store.rows[created.ID].Status)
	assert.Len(t, notifier.sent, 2, fmt.Sprintf("sweep must not notify, sent=%v", notifier.sent))
}
