package models

import (
	"strings"

	"gorm.io/datatypes"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// Is compares two statuses ignoring case. Rows written by older clients
// carry lower-case values.
func (s AppointmentStatus) Is(other AppointmentStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	return s.Is(StatusPending) || s.Is(StatusScheduled) || s.Is(StatusCompleted) || s.Is(StatusCancelled)
}

// ParseAppointmentStatus normalizes s to its canonical upper-case form.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.Valid()
}

// CancelConfirmation is the tri-state cancellation flag.
type CancelConfirmation int

const (
	CancelUnset     CancelConfirmation = 0
	CancelRequested CancelConfirmation = 1
	CancelConfirmed CancelConfirmation = 2
)

// Appointment represents a scheduled medical appointment
type Appointment struct {
	BaseModel
	PatientID       string             `gorm:"size:36;index" json:"patientId"`
	DoctorID        string             `gorm:"size:36;index" json:"doctorId"`
	AppointmentDate datatypes.Date     `gorm:"index" json:"appointmentDate"`
	AppointmentTime datatypes.Time     `json:"appointmentTime"`
	Description     string             `gorm:"type:text" json:"description"`
	Status          AppointmentStatus  `gorm:"size:20;index;default:'PENDING'" json:"status"`
	CancelConfirm   CancelConfirmation `gorm:"default:0" json:"cancelConfirm"`
}
