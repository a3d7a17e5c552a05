package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"hospital-appointments-server/internal/middleware"
	"hospital-appointments-server/internal/utils"
)

// ResetService issues and redeems password reset tokens and changes the
// password of a signed-in patient.
type ResetService interface {
	InitiateReset(ctx context.Context, email string) error
	CompleteReset(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, patientID, currentPassword, newPassword string) error
}

// PasswordResetHandler exposes the patient password reset and change flows.
type PasswordResetHandler struct {
	Service ResetService
}

func NewPasswordResetHandler(service ResetService) *PasswordResetHandler {
	return &PasswordResetHandler{Service: service}
}

type InitiateResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CompleteResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// InitiateReset emails a reset token to the patient.
func (h *PasswordResetHandler) InitiateReset(c *gin.Context) {
	var req InitiateResetRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if err := h.Service.InitiateReset(c.Request.Context(), req.Email); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Password reset token sent", nil)
}

// CompleteReset sets a new password using an emailed token.
func (h *PasswordResetHandler) CompleteReset(c *gin.Context) {
	var req CompleteResetRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if err := h.Service.CompleteReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Password has been reset", nil)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword replaces the signed-in patient's password.
func (h *PasswordResetHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req ChangePasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if err := h.Service.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Password changed successfully", nil)
}
