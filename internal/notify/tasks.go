package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/lojinha-app/backend-lojinha/internal/events"
)

// Task types handled by the worker process.
const (
	TypeOrderConfirmationEmail = "email:order_confirmation"
	TypeOrderStatusEmail       = "email:order_status"
)

// Enqueuer forwards domain events onto the task queue. It implements
// events.Notifier so the bus can fan out without knowing about asynq.
type Enqueuer struct {
	Client *asynq.Client
}

// Notify enqueues the email task matching the event topic. Unknown topics
// are ignored.
func (e Enqueuer) Notify(_ context.Context, event events.Event) error {
	if e.Client == nil {
		return nil
	}
	var taskType string
	switch event.Topic {
	case events.TopicOrderCreated:
		taskType = TypeOrderConfirmationEmail
	case events.TopicOrderStatusChanged:
		taskType = TypeOrderStatusEmail
	default:
		return nil
	}
	task := asynq.NewTask(taskType, event.Payload)
	if _, err := e.Client.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("notify: enqueue %s: %w", taskType, err)
	}
	return nil
}
