// Package repository implements the appointment store and the people
// directory on top of GORM.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"hospital-appointments-server/internal/apperrors"
	"hospital-appointments-server/internal/models"
)

const (
	dateLayout       = "2006-01-02"
	appointmentOrder = "appointment_date asc, appointment_time asc"
)

// AppointmentRepository persists appointments in MySQL.
type AppointmentRepository struct {
	DB *gorm.DB
}

// NewAppointmentRepository creates a new AppointmentRepository.
func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("appointment", id)
		}
		return nil, err
	}
	return &a, nil
}

// Update writes every column of a.
func (r *AppointmentRepository) Update(ctx context.Context, a *models.Appointment) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

// UpdateStatus touches only the status column and returns the updated row.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	a.Status = status
	return a, nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("appointment", id)
	}
	return nil
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]models.Appointment, error) {
	return r.list(ctx, r.DB)
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.list(ctx, r.DB.Where("doctor_id = ?", doctorID))
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.list(ctx, r.DB.Where("patient_id = ?", patientID))
}

func (r *AppointmentRepository) ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	return r.list(ctx, r.DB.Where("status = ?", status))
}

// ListByDate matches on the calendar date; the time of day is ignored.
func (r *AppointmentRepository) ListByDate(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	return r.list(ctx, r.DB.Where("appointment_date = ?", date.Format(dateLayout)))
}

func (r *AppointmentRepository) ListByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]models.Appointment, error) {
	return r.list(ctx, r.DB.Where("doctor_id = ? AND appointment_date = ?", doctorID, date.Format(dateLayout)))
}

func (r *AppointmentRepository) list(ctx context.Context, query *gorm.DB) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := query.WithContext(ctx).Order(appointmentOrder).Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}
