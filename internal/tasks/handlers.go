package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"benchtime/internal/models"
	"benchtime/internal/services"
	"benchtime/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// TaskHandler handles task processing with improved error handling and logging
type TaskHandler struct {
	db     *gorm.DB
	mailer *services.Mailer
	logger *logger.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, mailer *services.Mailer) *TaskHandler {
	return &TaskHandler{
		db:     db,
		mailer: mailer,
		logger: logger.New("task_handler"),
	}
}

// HandlePasswordResetEmail delivers a password reset email
func (h *TaskHandler) HandlePasswordResetEmail(ctx context.Context, t *asynq.Task) error {
	var payload PasswordResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal password reset payload: %v: %w", err, asynq.SkipRetry)
	}

	if _, err := h.mailer.SendPasswordResetEmail(payload.ToName, payload.ToEmail, payload.ResetURL); err != nil {
		return h.logger.Error("failed to send password reset email", err)
	}

	h.logger.Success("password reset email sent to %s", payload.ToEmail)
	return nil
}

// HandleWelcomeEmail delivers a welcome email to a newly registered user
func (h *TaskHandler) HandleWelcomeEmail(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal welcome payload: %v: %w", err, asynq.SkipRetry)
	}

	if _, err := h.mailer.SendWelcomeEmail(payload.ToName, payload.ToEmail, payload.OrganizationName); err != nil {
		return h.logger.Error("failed to send welcome email", err)
	}

	h.logger.Success("welcome email sent to %s", payload.ToEmail)
	return nil
}

// HandlePurgeSessions deletes expired user sessions
func (h *TaskHandler) HandlePurgeSessions(ctx context.Context, t *asynq.Task) error {
	result := h.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.UserSession{})
	if result.Error != nil {
		return h.logger.Error("failed to purge expired sessions", result.Error)
	}

	h.logger.Info("purged %d expired sessions", result.RowsAffected)
	return nil
}

// HandlePurgeResets deletes expired password reset tokens
func (h *TaskHandler) HandlePurgeResets(ctx context.Context, t *asynq.Task) error {
	result := h.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.PasswordReset{})
	if result.Error != nil {
		return h.logger.Error("failed to purge expired password resets", result.Error)
	}

	h.logger.Info("purged %d expired password resets", result.RowsAffected)
	return nil
}
