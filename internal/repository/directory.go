package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hospital-appointments-server/internal/apperrors"
	"hospital-appointments-server/internal/models"
)

// DirectoryRepository looks up patients, doctors and specializations and
// stores patient credentials. Lookups that match nothing return (nil, nil).
type DirectoryRepository struct {
	DB *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{DB: db}
}

func (r *DirectoryRepository) FindPatient(ctx context.Context, id string) (*models.Patient, error) {
	var p models.Patient
	return first(r.DB.WithContext(ctx).Where("id = ?", id), &p)
}

func (r *DirectoryRepository) FindDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	var d models.Doctor
	return first(r.DB.WithContext(ctx).Where("id = ?", id), &d)
}

func (r *DirectoryRepository) FindSpecialization(ctx context.Context, id string) (*models.Specialization, error) {
	var s models.Specialization
	return first(r.DB.WithContext(ctx).Where("id = ?", id), &s)
}

func (r *DirectoryRepository) FindPatientByEmail(ctx context.Context, email string) (*models.Patient, error) {
	var p models.Patient
	return first(r.DB.WithContext(ctx).Where("email = ?", email), &p)
}

func (r *DirectoryRepository) FindDoctorByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var d models.Doctor
	return first(r.DB.WithContext(ctx).Where("email = ?", email), &d)
}

func (r *DirectoryRepository) FindPatientByResetToken(ctx context.Context, token string) (*models.Patient, error) {
	var p models.Patient
	return first(r.DB.WithContext(ctx).Where("reset_token = ?", token), &p)
}

// CreatePatient inserts a new patient. A taken email is reported as a
// *apperrors.ConflictError.
func (r *DirectoryRepository) CreatePatient(ctx context.Context, p *models.Patient) error {
	err := r.DB.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewConflict("patient", "email already registered")
	}
	return err
}

// SavePatientCredentials writes the password and reset columns of p. Nil
// token fields are written as NULL.
func (r *DirectoryRepository) SavePatientCredentials(ctx context.Context, p *models.Patient) error {
	return r.updatePatient(ctx, p.ID, map[string]any{
		"password":           p.Password,
		"reset_token":        p.ResetToken,
		"reset_token_expiry": p.ResetTokenExpiry,
	})
}

// SavePatientProfile writes the name and contact columns of p.
func (r *DirectoryRepository) SavePatientProfile(ctx context.Context, p *models.Patient) error {
	return r.updatePatient(ctx, p.ID, map[string]any{
		"name":    p.Name,
		"contact": p.Contact,
	})
}

// updatePatient writes columns on one patient row. MySQL reports zero
// affected rows when nothing changed, so a miss is confirmed with a count.
func (r *DirectoryRepository) updatePatient(ctx context.Context, id string, columns map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NewNotFound("patient", id)
		}
	}
	return nil
}

func first[T any](query *gorm.DB, dest *T) (*T, error) {
	if err := query.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dest, nil
}
