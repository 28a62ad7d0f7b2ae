package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	shared "github.com/dickravison/health-fitness-tracker/pkg"
	"github.com/dickravison/health-fitness-tracker/pkg/domain/keys"
	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

// FirestoreAdapter provides record and execution storage using Firestore.
// Records are flat documents carrying PK, SK, GSI1PK and GSI1SK; the GSI1
// range query needs a composite index on (GSI1PK, GSI1SK).
type FirestoreAdapter struct {
	Client     *firestore.Client
	records    string
	executions string
	logger     *slog.Logger
}

func NewFirestoreAdapter(client *firestore.Client, collection string, logger *slog.Logger) *FirestoreAdapter {
	if collection == "" {
		collection = shared.CollectionRecords
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FirestoreAdapter{
		Client:     client,
		records:    collection,
		executions: shared.CollectionExecutions,
		logger:     logger.With("component", "firestore"),
	}
}

// docID is the primary key with "/" escaped, as Firestore reserves it.
func docID(k keys.Key) string {
	return strings.ReplaceAll(k.ID(), "/", "%2F")
}

func (a *FirestoreAdapter) Put(ctx context.Context, rec types.Record) error {
	fields, err := documentFields(rec)
	if err != nil {
		return apperrors.ErrInvalidPayload.WithCause(err)
	}
	key := rec.StoreKey()
	_, err = a.Client.Collection(a.records).Doc(docID(key)).Create(ctx, fields)
	if status.Code(err) == codes.AlreadyExists {
		return apperrors.ErrAlreadyExists.WithCause(err).WithMetadata("id", key.ID())
	}
	if err != nil {
		return apperrors.ErrStorageError.WithCause(err).WithMetadata("id", key.ID())
	}
	return nil
}

func (a *FirestoreAdapter) Query(ctx context.Context, index string, partition keys.Composite, start, end string) ([]shared.StoredItem, error) {
	if index != keys.IndexGSI1 {
		return nil, apperrors.New(apperrors.CodeStorageError, fmt.Sprintf("unknown index %q", index))
	}
	iter := a.Client.Collection(a.records).
		Where(keys.AttrGSI1PK, "==", partition.String()).
		Where(keys.AttrGSI1SK, ">=", start).
		Where(keys.AttrGSI1SK, "<=", end).
		OrderBy(keys.AttrGSI1SK, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var items []shared.StoredItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperrors.ErrStorageError.WithCause(err).WithMetadata("partition", partition.String())
		}
		key, body, err := splitFields(doc.Data())
		if err != nil {
			return nil, apperrors.ErrStorageError.WithCause(fmt.Errorf("document %s: %w", doc.Ref.ID, err))
		}
		items = append(items, shared.StoredItem{Key: key, Data: body})
	}
	a.logger.Debug("Queried index", "partition", partition.String(), "start", start, "end", end, "count", len(items))
	return items, nil
}

// --- Executions ---

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	_, err := a.Client.Collection(a.executions).Doc(record.ExecutionID).Set(ctx, record)
	return err
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	_, err := a.Client.Collection(a.executions).Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}
