package shared

import (
	"context"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// --- Persistence Interfaces ---

// StoredItem is a record as read back from the store: its keys plus the
// JSON-encoded record body.
type StoredItem struct {
	Key  keys.Key
	Data []byte
}

// RecordStore holds normalized records under their composite keys.
type RecordStore interface {
	// Put writes rec if its primary key is unused. An existing key yields
	// errors.ErrAlreadyExists and leaves the stored record untouched.
	Put(ctx context.Context, rec types.Record) error
	// Query returns the records of an index partition whose index sort key
	// lies in [start, end], ordered by that sort key.
	Query(ctx context.Context, index string, partition keys.Composite, start, end string) ([]StoredItem, error)
}

// ExecutionStore records function runs.
type ExecutionStore interface {
	SetExecution(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
}

// --- Source Interfaces ---

// IntervalsAPI reads athlete data from intervals.icu. Dates are YYYY-MM-DD.
// A fetch that exhausts its retries fails with errors.ErrFetchError.
// Activities and Wellness also return the response body as received.
type IntervalsAPI interface {
	Activities(ctx context.Context, athleteID, oldest, newest string) ([]types.RawActivity, []byte, error)
	Wellness(ctx context.Context, athleteID, oldest, newest string) ([]types.RawWellness, []byte, error)
	Athlete(ctx context.Context, athleteID string) (*types.RawAthlete, error)
	Events(ctx context.Context, athleteID, oldest, newest string) ([]types.RawEvent, error)
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// Notifier delivers a report to the athlete.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}

// --- Secrets Interface ---

type SecretStore interface {
	GetSecret(ctx context.Context, projectID, name string) (string, error)
}
