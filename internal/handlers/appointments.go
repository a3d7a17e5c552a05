package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"hospital-appointments-server/internal/appointments"
	"hospital-appointments-server/internal/middleware"
	"hospital-appointments-server/internal/models"
	"hospital-appointments-server/internal/utils"
)

const dateLayout = "2006-01-02"

// AppointmentService is the lifecycle engine as seen by the HTTP layer.
type AppointmentService interface {
	Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	Update(ctx context.Context, id string, patch appointments.Patch) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error)
	ListAll(ctx context.Context) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.Appointment, error)
	ListByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]models.Appointment, error)
	ListUpcomingByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	ListPastByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	ListTodayByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
}

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	PatientID       string `json:"patientId"` // Defaults to the caller when a patient books
	DoctorID        string `json:"doctorId" binding:"required"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	AppointmentTime string `json:"appointmentTime"`
	Description     string `json:"description"`
	CancelConfirm   int    `json:"cancelConfirm"`
}

// CreateAppointment handles creating a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RolePatient {
		if req.PatientID == "" {
			req.PatientID = userID
		}
		if req.PatientID != userID {
			utils.Forbidden(c, "Patients can only book appointments for themselves.")
			return
		}
	}

	date, err := parseDate(req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	var tm datatypes.Time
	if req.AppointmentTime != "" {
		if tm, err = parseClock(req.AppointmentTime); err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
	}

	appointment := &models.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: datatypes.Date(date),
		AppointmentTime: tm,
		Description:     req.Description,
		CancelConfirm:   models.CancelConfirmation(req.CancelConfirm),
	}

	created, err := h.Service.Create(c.Request.Context(), appointment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Appointment created successfully", created)
}

// GetAppointments returns every appointment. Patients only see their own.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	var (
		list []models.Appointment
		err  error
	)
	if role == models.RolePatient {
		list, err = h.Service.ListByPatient(c.Request.Context(), userID)
	} else {
		list, err = h.Service.ListAll(c.Request.Context())
	}
	h.respondList(c, list, err)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, ok := h.loadAccessible(c)
	if !ok {
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateAppointmentRequest is a sparse update; omitted fields are left alone.
type UpdateAppointmentRequest struct {
	AppointmentDate *string `json:"appointmentDate"`
	AppointmentTime *string `json:"appointmentTime"`
	Description     *string `json:"description"`
	CancelConfirm   *int    `json:"cancelConfirm"`
}

func (r UpdateAppointmentRequest) toPatch() (appointments.Patch, error) {
	var patch appointments.Patch
	if r.AppointmentDate != nil {
		date, err := parseDate(*r.AppointmentDate)
		if err != nil {
			return patch, err
		}
		d := datatypes.Date(date)
		patch.AppointmentDate = &d
	}
	if r.AppointmentTime != nil {
		tm, err := parseClock(*r.AppointmentTime)
		if err != nil {
			return patch, err
		}
		patch.AppointmentTime = &tm
	}
	patch.Description = r.Description
	if r.CancelConfirm != nil {
		cc := models.CancelConfirmation(*r.CancelConfirm)
		patch.CancelConfirm = &cc
	}
	return patch, nil
}

// UpdateAppointment applies a sparse update. Moving a pending appointment
// schedules it.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if _, ok := h.loadAccessible(c); !ok {
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", updated)
}

// DeleteAppointment removes an appointment.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment deleted successfully", nil)
}

// UpdateAppointmentStatus sets the status given in the status query parameter.
// Patients may only cancel their own appointments.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	status, ok := models.ParseAppointmentStatus(c.Query("status"))
	if !ok {
		utils.BadRequest(c, fmt.Sprintf("Invalid status %q", c.Query("status")))
		return
	}

	if _, ok := h.loadAccessible(c); !ok {
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)
	if role == models.RolePatient && status != models.StatusCancelled {
		utils.Forbidden(c, "Patients can only cancel appointments.")
		return
	}

	updated, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment status updated successfully", updated)
}

// GetAppointmentsByDoctor lists a doctor's appointments, completing past ones.
func (h *AppointmentHandler) GetAppointmentsByDoctor(c *gin.Context) {
	list, err := h.Service.ListByDoctor(c.Request.Context(), c.Param("doctorId"))
	h.respondList(c, list, err)
}

// GetAppointmentsByPatient lists a patient's appointments, completing past ones.
func (h *AppointmentHandler) GetAppointmentsByPatient(c *gin.Context) {
	patientID := c.Param("patientId")
	if !h.ownsPatient(c, patientID) {
		utils.Forbidden(c, "You are not authorized to view these appointments")
		return
	}
	list, err := h.Service.ListByPatient(c.Request.Context(), patientID)
	h.respondList(c, list, err)
}

func (h *AppointmentHandler) GetAppointmentsByStatus(c *gin.Context) {
	list, err := h.Service.ListByStatus(c.Request.Context(), models.AppointmentStatus(c.Param("status")))
	h.respondList(c, list, err)
}

func (h *AppointmentHandler) GetAppointmentsByDate(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	list, err := h.Service.ListByDate(c.Request.Context(), date)
	h.respondList(c, list, err)
}

func (h *AppointmentHandler) GetAppointmentsByDoctorAndDate(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	list, err := h.Service.ListByDoctorAndDate(c.Request.Context(), c.Param("doctorId"), date)
	h.respondList(c, list, err)
}

func (h *AppointmentHandler) GetUpcomingAppointments(c *gin.Context) {
	list, err := h.Service.ListUpcomingByDoctor(c.Request.Context(), c.Param("doctorId"))
	h.respondList(c, list, err)
}

func (h *AppointmentHandler) GetPastAppointments(c *gin.Context) {
	list, err := h.Service.ListPastByDoctor(c.Request.Context(), c.Param("doctorId"))
	h.respondList(c, list, err)
}

func (h *AppointmentHandler) GetTodayAppointments(c *gin.Context) {
	list, err := h.Service.ListTodayByDoctor(c.Request.Context(), c.Param("doctorId"))
	h.respondList(c, list, err)
}

func (h *AppointmentHandler) respondList(c *gin.Context, list []models.Appointment, err error) {
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if list == nil {
		list = []models.Appointment{}
	}
	utils.Success(c, "Appointments fetched successfully", list)
}

// loadAccessible fetches the appointment named by the id path parameter and
// checks the caller may see it. It writes the error response itself.
func (h *AppointmentHandler) loadAccessible(c *gin.Context) (*models.Appointment, bool) {
	appointment, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	if !h.ownsPatient(c, appointment.PatientID) {
		utils.Forbidden(c, "You are not authorized to access this appointment")
		return nil, false
	}
	return appointment, true
}

// ownsPatient reports whether the caller may act on patientID's records.
// Doctors may act on any patient.
func (h *AppointmentHandler) ownsPatient(c *gin.Context, patientID string) bool {
	role, _ := middleware.GetUserRoleFromContext(c)
	if role != models.RolePatient {
		return true
	}
	userID, _ := middleware.GetUserIDFromContext(c)
	return userID == patientID
}

// parseDate reads a calendar date as local midnight. The MySQL DSN uses
// loc=Local, so the driver writes the same calendar day back.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// parseClock accepts HH:MM or HH:MM:SS.
func parseClock(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q, expected HH:MM or HH:MM:SS", s)
}
