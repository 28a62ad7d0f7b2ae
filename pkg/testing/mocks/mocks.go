package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/goccy/go-json"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// --- Mock Record Store ---
type MockRecordStore struct {
	PutFunc   func(ctx context.Context, rec types.Record) error
	QueryFunc func(ctx context.Context, index string, partition keys.Composite, start, end string) ([]shared.StoredItem, error)
}

func (m *MockRecordStore) Put(ctx context.Context, rec types.Record) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, rec)
	}
	return nil
}

func (m *MockRecordStore) Query(ctx context.Context, index string, partition keys.Composite, start, end string) ([]shared.StoredItem, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, index, partition, start, end)
	}
	return nil, nil
}

// MemoryRecordStore is a map-backed RecordStore with the same conflict and
// range semantics as the real backends.
type MemoryRecordStore struct {
	mu    sync.Mutex
	items map[string]shared.StoredItem
	Puts  []types.Record
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{items: map[string]shared.StoredItem{}}
}

func (m *MemoryRecordStore) Put(ctx context.Context, rec types.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Puts = append(m.Puts, rec)
	key := rec.StoreKey()
	if _, ok := m.items[key.ID()]; ok {
		return apperrors.ErrAlreadyExists.WithMetadata("id", key.ID())
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.items[key.ID()] = shared.StoredItem{Key: key, Data: data}
	return nil
}

func (m *MemoryRecordStore) Query(ctx context.Context, index string, partition keys.Composite, start, end string) ([]shared.StoredItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []shared.StoredItem
	for _, it := range m.items {
		if it.Key.IndexPartition.String() != partition.String() {
			continue
		}
		if it.Key.IndexSort < start || it.Key.IndexSort > end {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.IndexSort != out[j].Key.IndexSort {
			return out[i].Key.IndexSort < out[j].Key.IndexSort
		}
		return out[i].Key.ID() < out[j].Key.ID()
	})
	return out, nil
}

// Len is the number of distinct stored records.
func (m *MemoryRecordStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// --- Mock Execution Store ---
type MockExecutionStore struct {
	SetExecutionFunc    func(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecutionFunc func(ctx context.Context, id string, data map[string]interface{}) error
}

func (m *MockExecutionStore) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, record)
	}
	return nil
}

func (m *MockExecutionStore) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}

// --- Mock intervals.icu API ---
type MockIntervalsAPI struct {
	ActivitiesFunc func(ctx context.Context, athleteID, oldest, newest string) ([]types.RawActivity, []byte, error)
	WellnessFunc   func(ctx context.Context, athleteID, oldest, newest string) ([]types.RawWellness, []byte, error)
	AthleteFunc    func(ctx context.Context, athleteID string) (*types.RawAthlete, error)
	EventsFunc     func(ctx context.Context, athleteID, oldest, newest string) ([]types.RawEvent, error)
}

func (m *MockIntervalsAPI) Activities(ctx context.Context, athleteID, oldest, newest string) ([]types.RawActivity, []byte, error) {
	if m.ActivitiesFunc != nil {
		return m.ActivitiesFunc(ctx, athleteID, oldest, newest)
	}
	return nil, nil, nil
}

func (m *MockIntervalsAPI) Wellness(ctx context.Context, athleteID, oldest, newest string) ([]types.RawWellness, []byte, error) {
	if m.WellnessFunc != nil {
		return m.WellnessFunc(ctx, athleteID, oldest, newest)
	}
	return nil, nil, nil
}

func (m *MockIntervalsAPI) Athlete(ctx context.Context, athleteID string) (*types.RawAthlete, error) {
	if m.AthleteFunc != nil {
		return m.AthleteFunc(ctx, athleteID)
	}
	return nil, apperrors.ErrFetchError
}

func (m *MockIntervalsAPI) Events(ctx context.Context, athleteID, oldest, newest string) ([]types.RawEvent, error) {
	if m.EventsFunc != nil {
		return m.EventsFunc(ctx, athleteID, oldest, newest)
	}
	return nil, nil
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Notifier ---
type Sent struct {
	Subject string
	Body    string
}

type MockNotifier struct {
	NotifyFunc func(ctx context.Context, subject, body string) error
	Sent       []Sent
}

func (m *MockNotifier) Notify(ctx context.Context, subject, body string) error {
	m.Sent = append(m.Sent, Sent{Subject: subject, Body: body})
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, subject, body)
	}
	return nil
}

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}

// --- Mock Secrets ---
type MockSecretStore struct {
	GetSecretFunc func(ctx context.Context, projectID, name string) (string, error)
}

func (m *MockSecretStore) GetSecret(ctx context.Context, projectID, name string) (string, error) {
	if m.GetSecretFunc != nil {
		return m.GetSecretFunc(ctx, projectID, name)
	}
	return "mock-secret-value", nil
}
