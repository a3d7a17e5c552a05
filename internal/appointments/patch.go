package appointments

import (
	"time"

	"gorm.io/datatypes"

	"hospital-appointments-server/internal/models"
)

// Patch is a sparse update. A nil field was not supplied and leaves the
// stored value untouched. Date and time can be changed but never cleared;
// Description may be set to the empty string.
type Patch struct {
	AppointmentDate *datatypes.Date
	AppointmentTime *datatypes.Time
	Description     *string
	CancelConfirm   *models.CancelConfirmation
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.AppointmentDate == nil && p.AppointmentTime == nil && p.Description == nil && p.CancelConfirm == nil
}

// dateChanged and timeChanged compare supplied fields against the stored record.
func (p Patch) dateChanged(a *models.Appointment) bool {
	return p.AppointmentDate != nil && !sameDay(time.Time(*p.AppointmentDate), time.Time(a.AppointmentDate))
}

func (p Patch) timeChanged(a *models.Appointment) bool {
	return p.AppointmentTime != nil && *p.AppointmentTime != a.AppointmentTime
}

// Apply copies every supplied field onto a.
func (p Patch) Apply(a *models.Appointment) {
	if p.AppointmentDate != nil {
		a.AppointmentDate = *p.AppointmentDate
	}
	if p.AppointmentTime != nil {
		a.AppointmentTime = *p.AppointmentTime
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.CancelConfirm != nil {
		a.CancelConfirm = *p.CancelConfirm
	}
}
