package notify

import (
	"context"
	"fmt"

	"task-tracker/models"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Notifier delivers status-changed events to the task's reporter
type Notifier interface {
	NotifyStatusChange(ctx context.Context, event models.StatusChangedEvent) error
}

// EmailLogNotifier stands in for an e-mail sender: it writes the message it
// would have mailed to the structured log.
type EmailLogNotifier struct{}

// NewEmailLogNotifier creates an EmailLogNotifier
func NewEmailLogNotifier() *EmailLogNotifier {
	return &EmailLogNotifier{}
}

// NotifyStatusChange logs the status-change e-mail for event.Reporter
func (n *EmailLogNotifier) NotifyStatusChange(_ context.Context, event models.StatusChangedEvent) error {
	if event.Reporter == "" {
		return fmt.Errorf("task %d has no reporter to notify", event.Task.ID)
	}
	logger.Info(StatusChangeMessage(event),
		zap.String("to", event.Reporter),
		zap.Int("task_id", event.Task.ID),
		zap.String("previous_status", string(event.PreviousStatus)),
		zap.String("status", string(event.Task.Status)),
	)
	return nil
}

// StatusChangeMessage renders the e-mail text for event
func StatusChangeMessage(event models.StatusChangedEvent) string {
	return fmt.Sprintf("Sending email to %s: The status of task '%s' has been changed to `%s`.",
		event.Reporter, event.Task.Title, event.Task.Status)
}
