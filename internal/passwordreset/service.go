// Package passwordreset issues and redeems short-lived password reset tokens
// stored on the patient record.
package passwordreset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hospital-appointments-server/internal/apperrors"
	"hospital-appointments-server/internal/metrics"
	"hospital-appointments-server/internal/models"
	"hospital-appointments-server/internal/notify"
)

// DefaultTTL is how long an issued token stays redeemable.
const DefaultTTL = 15 * time.Minute

// CredentialStore reads and writes the credential columns of a patient.
// The Find methods return a nil patient and a nil error when nothing matches.
type CredentialStore interface {
	FindPatient(ctx context.Context, id string) (*models.Patient, error)
	FindPatientByEmail(ctx context.Context, email string) (*models.Patient, error)
	FindPatientByResetToken(ctx context.Context, token string) (*models.Patient, error)
	SavePatientCredentials(ctx context.Context, p *models.Patient) error
}

// Notifier delivers reset tokens.
type Notifier interface {
	SendPasswordReset(ctx context.Context, r notify.PasswordReset) error
}

// PasswordHasher turns a plain password into its stored form.
type PasswordHasher func(password string) (string, error)

// PasswordVerifier reports whether plain matches a stored password. It is
// the counterpart of the configured PasswordHasher.
type PasswordVerifier func(stored, plain string) bool

// Service implements the reset flow. It holds no per-token state; the patient
// row is the only record of an outstanding token.
type Service struct {
	store    CredentialStore
	notifier Notifier
	now      func() time.Time
	ttl      time.Duration
	token    TokenGenerator
	hash     PasswordHasher
	verify   PasswordVerifier
	logger   zerolog.Logger
	metrics  *metrics.LifecycleMetrics
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithTokenGenerator(gen TokenGenerator) Option {
	return func(s *Service) { s.token = gen }
}

// WithHasher sets how new passwords are stored. Without it the password is
// stored as given.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) { s.hash = h }
}

// WithVerifier sets how a current password is checked on change. Without it
// the stored value is compared as given.
func WithVerifier(v PasswordVerifier) Option {
	return func(s *Service) { s.verify = v }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.LifecycleMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store CredentialStore, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		ttl:      DefaultTTL,
		token:    RandomToken,
		hash:     func(p string) (string, error) { return p, nil },
		verify:   func(stored, plain string) bool { return stored == plain },
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL reports the validity window of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// InitiateReset issues a token for the patient registered under email,
// overwriting any earlier token, and emails it. A delivery failure is
// returned as *apperrors.NotificationError; the token stays stored.
func (s *Service) InitiateReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidation("email", "is required")
	}

	patient, err := s.store.FindPatientByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find patient by email: %w", err)
	}
	if patient == nil {
		return apperrors.NewNotFound("patient", email)
	}

	token, err := s.token()
	if err != nil {
		return err
	}
	expiry := s.now().Add(s.ttl)
	patient.ResetToken = &token
	patient.ResetTokenExpiry = &expiry

	if err := s.store.SavePatientCredentials(ctx, patient); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	log := s.logger.With().Str("patient_id", patient.ID).Logger()
	err = s.notifier.SendPasswordReset(ctx, notify.PasswordReset{
		To:       patient.Email,
		Token:    token,
		ValidFor: s.ttl,
	})
	if err != nil {
		s.metrics.ObserveNotification(metrics.KindPasswordReset, metrics.OutcomeFailed)
		log.Error().Err(err).Msg("error sending password reset email")
		return &apperrors.NotificationError{Kind: metrics.KindPasswordReset, Err: err}
	}
	s.metrics.ObserveNotification(metrics.KindPasswordReset, metrics.OutcomeSent)
	log.Info().Time("expires_at", expiry).Msg("password reset token issued")
	return nil
}

// CompleteReset redeems token and replaces the patient's password. The token
// is single use: success clears it together with its expiry.
func (s *Service) CompleteReset(ctx context.Context, token, newPassword string) error {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return apperrors.ErrInvalidToken
	}
	if newPassword == "" {
		return apperrors.NewValidation("newPassword", "is required")
	}

	patient, err := s.store.FindPatientByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("find patient by reset token: %w", err)
	}
	if patient == nil {
		return apperrors.ErrInvalidToken
	}
	if patient.ResetTokenExpired(s.now()) {
		s.logger.Info().Str("patient_id", patient.ID).Msg("expired password reset token presented")
		return apperrors.ErrTokenExpired
	}

	stored, err := s.hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	patient.Password = stored
	patient.ClearResetToken()

	if err := s.store.SavePatientCredentials(ctx, patient); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	s.logger.Info().Str("patient_id", patient.ID).Msg("password reset completed")
	return nil
}

// ChangePassword replaces the password of a signed-in patient after checking
// the current one. An outstanding reset token is left untouched.
func (s *Service) ChangePassword(ctx context.Context, patientID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.NewValidation("currentPassword", "is required")
	}
	if newPassword == "" {
		return apperrors.NewValidation("newPassword", "is required")
	}

	patient, err := s.store.FindPatient(ctx, patientID)
	if err != nil {
		return fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return apperrors.NewNotFound("patient", patientID)
	}
	if !s.verify(patient.Password, currentPassword) {
		s.logger.Info().Str("patient_id", patient.ID).Msg("password change rejected: current password mismatch")
		return apperrors.ErrIncorrectPassword
	}

	stored, err := s.hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	patient.Password = stored
	if err := s.store.SavePatientCredentials(ctx, patient); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	s.logger.Info().Str("patient_id", patient.ID).Msg("password changed")
	return nil
}
