package shared

const (
	ProjectID = "health-fitness-tracker" // Overridden by configuration

	TopicNotifications = "topic-notifications"

	CollectionRecords    = "records"
	CollectionExecutions = "executions"

	SecretIntervalsAPIKey = "intervals-api-key"
	SecretIntervalsUID    = "intervals-uid"

	EventTypeNotification = "com.healthfitnesstracker.notification"
	EventSource           = "/health-fitness-tracker"
)
