package worker

import (
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/service"
)

// RegisterNotificationWorker subscribes the notification service to the
// grievance events it cares about. Delivery is synchronous with the
// publishing request; handlers must stay cheap.
func RegisterNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService) {
	dispatcher.Subscribe(events.EventGrievanceRaised, notifications.HandleGrievanceRaised)
	dispatcher.Subscribe(events.EventGrievanceStatusChanged, notifications.HandleStatusChanged)
}
