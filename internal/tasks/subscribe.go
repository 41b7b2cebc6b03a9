package tasks

import (
	"benchtime/internal/events"
)

// Domain events that trigger email delivery
const (
	EventPasswordResetRequested = "auth.password_reset_requested"
	EventUserRegistered         = "users.registered"
)

// SubscribeEvents wires domain events to the task queue so that email
// delivery happens outside the request path
func (c *TaskClient) SubscribeEvents() {
	events.On(EventPasswordResetRequested, func(data interface{}) {
		payload, ok := data.(PasswordResetEmailPayload)
		if !ok {
			c.logger.Warn("unexpected payload for %s event", EventPasswordResetRequested)
			return
		}
		if err := c.EnqueuePasswordResetEmail(payload); err != nil {
			c.logger.Error("failed to queue password reset email", err)
		}
	})

	events.On(EventUserRegistered, func(data interface{}) {
		payload, ok := data.(WelcomeEmailPayload)
		if !ok {
			c.logger.Warn("unexpected payload for %s event", EventUserRegistered)
			return
		}
		if err := c.EnqueueWelcomeEmail(payload); err != nil {
			c.logger.Error("failed to queue welcome email", err)
		}
	})
}
