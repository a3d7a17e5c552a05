package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hospital-appointments-server/internal/middleware"
	"hospital-appointments-server/internal/models"
	"hospital-appointments-server/internal/utils"
)

// AccountDirectory finds and stores the accounts that can log in. Lookups
// that match nothing return (nil, nil).
type AccountDirectory interface {
	FindPatient(ctx context.Context, id string) (*models.Patient, error)
	FindDoctor(ctx context.Context, id string) (*models.Doctor, error)
	FindPatientByEmail(ctx context.Context, email string) (*models.Patient, error)
	FindDoctorByEmail(ctx context.Context, email string) (*models.Doctor, error)
	CreatePatient(ctx context.Context, p *models.Patient) error
	SavePatientProfile(ctx context.Context, p *models.Patient) error
}

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Accounts  AccountDirectory
	JWTSecret string
	TokenTTL  time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts AccountDirectory, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{Accounts: accounts, JWTSecret: secret, TokenTTL: ttl}
}

// RegisterRequest represents the request body for patient registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Contact  string `json:"contact" binding:"max=30"`
}

// RegisterPatient creates a patient account.
func (h *AuthHandler) RegisterPatient(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)

	existing, err := h.Accounts.FindPatientByEmail(c.Request.Context(), email)
	if err != nil {
		utils.ServerError(c, fmt.Errorf("find patient by email: %w", err))
		return
	}
	if existing != nil {
		utils.Conflict(c, "Patient with this email already exists")
		return
	}

	patient := &models.Patient{
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Contact: strings.TrimSpace(req.Contact),
	}
	if err := patient.SetPassword(req.Password); err != nil {
		utils.ServerError(c, fmt.Errorf("hash password: %w", err))
		return
	}

	if err := h.Accounts.CreatePatient(c.Request.Context(), patient); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Patient registered successfully", patient)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	Role        models.Role `json:"role"`
	User        interface{} `json:"user"`
}

// PatientLogin authenticates a patient.
func (h *AuthHandler) PatientLogin(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Accounts.FindPatientByEmail(c.Request.Context(), req.Email)
	if err != nil {
		utils.ServerError(c, fmt.Errorf("find patient by email: %w", err))
		return
	}
	if patient == nil || !patient.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	h.issue(c, patient.ID, models.RolePatient, patient)
}

// DoctorLogin authenticates a doctor.
func (h *AuthHandler) DoctorLogin(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctor, err := h.Accounts.FindDoctorByEmail(c.Request.Context(), req.Email)
	if err != nil {
		utils.ServerError(c, fmt.Errorf("find doctor by email: %w", err))
		return
	}
	if doctor == nil || !doctor.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	h.issue(c, doctor.ID, models.RoleDoctor, doctor)
}

func (h *AuthHandler) issue(c *gin.Context, userID string, role models.Role, user interface{}) {
	token, err := utils.GenerateAccessToken(userID, role, h.JWTSecret, h.TokenTTL)
	if err != nil {
		utils.ServerError(c, fmt.Errorf("generate access token: %w", err))
		return
	}
	utils.Success(c, "Login successful", LoginResponse{AccessToken: token, Role: role, User: user})
}

// GetProfile handles fetching the currently authenticated account.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	var (
		profile interface{}
		err     error
	)
	switch role {
	case models.RolePatient:
		var p *models.Patient
		if p, err = h.Accounts.FindPatient(c.Request.Context(), userID); p != nil {
			profile = p
		}
	case models.RoleDoctor:
		var d *models.Doctor
		if d, err = h.Accounts.FindDoctor(c.Request.Context(), userID); d != nil {
			profile = d
		}
	default:
		utils.Forbidden(c, "Unknown role: "+string(role))
		return
	}

	if err != nil {
		utils.ServerError(c, fmt.Errorf("load profile: %w", err))
		return
	}
	if profile == nil {
		utils.NotFound(c, "User profile not found")
		return
	}
	utils.Success(c, "Profile fetched successfully", profile)
}

// UpdateProfileRequest represents the request body for updating a profile.
// Empty fields are left unchanged; email and password change elsewhere.
type UpdateProfileRequest struct {
	Name    string `json:"name" binding:"max=100"`
	Contact string `json:"contact" binding:"max=30"`
}

// UpdateProfile updates the signed-in patient's name and contact details.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if role, _ := middleware.GetUserRoleFromContext(c); role != models.RolePatient {
		utils.Forbidden(c, "Only patients can update their profile")
		return
	}

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Accounts.FindPatient(c.Request.Context(), userID)
	if err != nil {
		utils.ServerError(c, fmt.Errorf("load profile: %w", err))
		return
	}
	if patient == nil {
		utils.NotFound(c, "User profile not found")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		patient.Name = name
	}
	if contact := strings.TrimSpace(req.Contact); contact != "" {
		patient.Contact = contact
	}

	if err := h.Accounts.SavePatientProfile(c.Request.Context(), patient); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Profile updated successfully", patient)
}
