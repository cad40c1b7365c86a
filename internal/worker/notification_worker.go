package worker

import (
	"github.com/spec-kit/interference-service/internal/events"
	"github.com/spec-kit/interference-service/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a Redis
// mirror is configured, subscribes it to every event type.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, mirror *events.RedisPublisher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if dispatcher != nil && mirror != nil {
		mirror.Attach(dispatcher)
	}
}
