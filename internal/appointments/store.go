package appointments

import (
	"context"
	"time"

	"hospital-appointments-server/internal/models"
	"hospital-appointments-server/internal/notify"
)

// Store is durable storage for appointments. GetByID and UpdateStatus return
// an *apperrors.NotFoundError for unknown IDs.
type Store interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Update(ctx context.Context, a *models.Appointment) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.Appointment, error)
	ListByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]models.Appointment, error)
}

// Directory resolves the people referenced by an appointment. Unknown IDs
// yield a nil record and a nil error.
type Directory interface {
	FindPatient(ctx context.Context, id string) (*models.Patient, error)
	FindDoctor(ctx context.Context, id string) (*models.Doctor, error)
	FindSpecialization(ctx context.Context, id string) (*models.Specialization, error)
}

// Notifier delivers appointment confirmations.
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, c notify.AppointmentConfirmation) error
}
