package tasks

import "time"

// Task Types
const (
	TaskTypeEmailPasswordReset = "email:password_reset"
	TaskTypeEmailWelcome       = "email:welcome"
	TaskTypePurgeSessions      = "auth:purge_sessions"
	TaskTypePurgeResets        = "auth:purge_password_resets"
)

// Task Queues
const (
	QueueCritical = "critical" // For time-sensitive tasks like email sending
	QueueDefault  = "default"  // For regular tasks
	QueueLow      = "low"      // For background tasks like cleanup
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
)

// Task Retry Settings
const (
	RetryDefault = 3
)

// PasswordResetEmailPayload is the payload for TaskTypeEmailPasswordReset
type PasswordResetEmailPayload struct {
	ToName   string `json:"to_name"`
	ToEmail  string `json:"to_email"`
	ResetURL string `json:"reset_url"`
}

// WelcomeEmailPayload is the payload for TaskTypeEmailWelcome
type WelcomeEmailPayload struct {
	ToName           string `json:"to_name"`
	ToEmail          string `json:"to_email"`
	OrganizationName string `json:"organization_name,omitempty"`
}
