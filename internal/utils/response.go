package utils

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hospital-appointments-server/internal/apperrors"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Error:   errorMessage,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// Conflict sends a 409 Conflict error response.
func Conflict(c *gin.Context, errorMessage string) {
	Error(c, http.StatusConflict, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}

// InternalErrorMessage is the only text a 500 response carries.
const InternalErrorMessage = "Internal server error"

// ServerError logs err on the request logger and answers 500 without
// exposing err to the client.
func ServerError(c *gin.Context, err error) {
	requestLogger(c).Error().Err(err).Msg("request failed")
	_ = c.Error(err)
	InternalServerError(c, InternalErrorMessage)
}

// RespondError maps a service error onto an HTTP status. Unknown errors
// become 500 responses through ServerError.
func RespondError(c *gin.Context, err error) {
	var (
		notFound     *apperrors.NotFoundError
		validation   *apperrors.ValidationError
		notification *apperrors.NotificationError
		conflict     *apperrors.ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		NotFound(c, err.Error())
	case errors.As(err, &validation):
		BadRequest(c, err.Error())
	case errors.As(err, &conflict):
		Conflict(c, err.Error())
	case errors.Is(err, apperrors.ErrInvalidToken), errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrIncorrectPassword):
		BadRequest(c, err.Error())
	case errors.As(err, &notification):
		requestLogger(c).Error().Err(err).Msg("notification delivery failed")
		Error(c, http.StatusBadGateway, notification.Kind+" notification could not be delivered")
	default:
		ServerError(c, err)
	}
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	if c.Request == nil {
		return zerolog.Ctx(context.Background())
	}
	return zerolog.Ctx(c.Request.Context())
}
