package types

// PubSubMessage is the payload of a Pub/Sub event via Cloud Event.
type PubSubMessage struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
}

// Trigger is the optional JSON body Cloud Scheduler publishes to start a run.
// An empty message runs against the current time.
type Trigger struct {
	// Now overrides the run date (YYYY-MM-DD), for backfills.
	Now string `json:"now,omitempty"`
	// FullImport exports the full history instead of the lookback window.
	FullImport bool `json:"full_import,omitempty"`
}

// Notification is the CloudEvent payload published for a report.
type Notification struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}
