package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"benchtime/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient handles task enqueuing with improved error handling and context support
type TaskClient struct {
	client      *asynq.Client
	logger      *logger.Logger
	redisClient *redis.Client
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
	)

	return &TaskClient{
		client:      asynq.NewClient(redisOpt),
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

// Ping verifies the redis connection the queue runs on
func (c *TaskClient) Ping(ctx context.Context) error {
	return c.redisClient.Ping(ctx).Err()
}

// Close closes the underlying asynq and redis clients
func (c *TaskClient) Close() error {
	if err := c.redisClient.Close(); err != nil {
		c.logger.Warn("Failed to close redis client: %v", err)
	}
	return c.client.Close()
}

// EnqueuePasswordResetEmail queues a password reset email for delivery
func (c *TaskClient) EnqueuePasswordResetEmail(payload PasswordResetEmailPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal password reset payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeEmailPasswordReset, data)
	info, err := c.client.Enqueue(task,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue password reset email: %w", err)
	}

	c.logger.Info("enqueued password reset email task %s queue %s", info.ID, info.Queue)
	return nil
}

// EnqueueWelcomeEmail queues a welcome email for delivery
func (c *TaskClient) EnqueueWelcomeEmail(payload WelcomeEmailPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal welcome payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeEmailWelcome, data)
	info, err := c.client.Enqueue(task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue welcome email: %w", err)
	}

	c.logger.Info("enqueued welcome email task %s queue %s", info.ID, info.Queue)
	return nil
}

// EnqueueInitialPurge schedules the first credential purge run after startup.
// The scheduler takes over the recurring runs once it is up.
func (c *TaskClient) EnqueueInitialPurge() error {
	for _, taskType := range []string{TaskTypePurgeSessions, TaskTypePurgeResets} {
		task := asynq.NewTask(taskType, nil)
		info, err := c.client.Enqueue(task,
			asynq.Queue(QueueLow),
			CronSchedule("0 * * * *"),
		)
		if err != nil {
			return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
		}
		c.logger.Info("scheduled %s task %s at %s", taskType, info.ID, info.NextProcessAt)
	}
	return nil
}
