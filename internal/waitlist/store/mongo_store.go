/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joyfund/waitlist-reconciler/internal/system/constants"
	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
	"github.com/joyfund/waitlist-reconciler/internal/system/log"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

// WaitlistStore handles MongoDB operations for waitlist collections.
type WaitlistStore struct {
	db        *mongo.Database
	canonical string
	timeout   time.Duration
}

// NewWaitlistStore creates a store over db whose canonical collection is canonical.
func NewWaitlistStore(db *mongo.Database, canonical string, timeout time.Duration) *WaitlistStore {
	if timeout <= 0 {
		timeout = constants.DefaultOperationTimeout
	}
	return &WaitlistStore{
		db:        db,
		canonical: canonical,
		timeout:   timeout,
	}
}

func (s *WaitlistStore) CanonicalCollection() string {
	return s.canonical
}

// ListCollectionNames returns the names of all plain collections, sorted.
func (s *WaitlistStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "type", Value: "collection"}})
	if err != nil {
		return nil, errors2.NewServerErrorf(errors2.LIST_SOURCES, errors.Wrap(err, "listCollections"),
			"Failed to list collections of database %s.", s.db.Name())
	}
	sort.Strings(names)
	return names, nil
}

// FetchDocuments loads every document of a collection into memory.
func (s *WaitlistStore) FetchDocuments(ctx context.Context, collection string) ([]bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, errors2.NewServerErrorf(errors2.FETCH_SOURCE_ENTRIES, errors.Wrap(err, "find"),
			"Failed to query collection %s.", collection)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors2.NewServerErrorf(errors2.FETCH_SOURCE_ENTRIES, errors.Wrap(err, "decode"),
			"Failed to decode documents of collection %s.", collection)
	}
	return docs, nil
}

// EnsureDedupeIndex creates the unique dedupe key index. Creating an index that already exists
// with the same definition is a no-op on the server.
func (s *WaitlistStore) EnsureDedupeIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: constants.DedupeKeyField, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(constants.DedupeKeyIndexName),
	}
	if _, err := s.db.Collection(s.canonical).Indexes().CreateOne(ctx, index); err != nil {
		return errors2.NewServerErrorf(errors2.ENSURE_DEDUPE_INDEX, errors.Wrap(err, "createIndex"),
			"Failed to create index %s on %s.", constants.DedupeKeyIndexName, s.canonical)
	}
	return nil
}

// InsertIfAbsent submits one unordered bulk write of $setOnInsert upserts keyed by dedupe key.
// Duplicate key errors raised by concurrent writers are counted as existing rows.
func (s *WaitlistStore) InsertIfAbsent(ctx context.Context, records []model.CanonicalRecord) (*model.WriteSummary, error) {
	summary := &model.WriteSummary{}
	if len(records) == 0 {
		return summary, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(records))
	for _, record := range records {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{constants.DedupeKeyField: record.DedupeKey}).
			SetUpdate(bson.M{"$setOnInsert": record}).
			SetUpsert(true))
	}

	result, err := s.db.Collection(s.canonical).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if result != nil {
		summary.Inserted = int(result.UpsertedCount)
		summary.Existing = int(result.MatchedCount)
	}
	if err == nil {
		return summary, nil
	}

	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil {
		return summary, errors2.NewServerErrorf(errors2.MERGE_SOURCE_ENTRIES, errors.Wrap(err, "bulkWrite"),
			"Bulk write of %d records into %s failed.", len(records), s.canonical)
	}

	logger := log.GetLogger()
	for _, writeErr := range bulkErr.WriteErrors {
		if writeErr.Code == constants.MongoDuplicateKeyCode {
			summary.Existing++
			continue
		}
		summary.Failed++
		key := ""
		if writeErr.Index >= 0 && writeErr.Index < len(records) {
			key = records[writeErr.Index].DedupeKey
		}
		logger.Warn("Failed to merge waitlist record",
			log.String("dedupe_key", key),
			log.Int("code", writeErr.Code),
			log.String("message", writeErr.Message))
	}
	return summary, nil
}

func (s *WaitlistStore) ExistingKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(keys) == 0 {
		return existing, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{constants.DedupeKeyField: bson.M{"$in": keys}}
	opts := options.Find().SetProjection(bson.M{constants.DedupeKeyField: 1, "_id": 0})
	cursor, err := s.db.Collection(s.canonical).Find(ctx, filter, opts)
	if err != nil {
		return nil, errors2.NewServerErrorf(errors2.FETCH_SOURCE_ENTRIES, errors.Wrap(err, "find"),
			"Failed to look up dedupe keys in %s.", s.canonical)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			DedupeKey string `bson:"_dedupeKey"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, errors2.NewServerErrorf(errors2.FETCH_SOURCE_ENTRIES, errors.Wrap(err, "decode"),
				"Failed to decode dedupe key from %s.", s.canonical)
		}
		existing[row.DedupeKey] = true
	}
	if err := cursor.Err(); err != nil {
		return nil, errors2.NewServerErrorf(errors2.FETCH_SOURCE_ENTRIES, errors.Wrap(err, "cursor"),
			"Failed to read dedupe keys from %s.", s.canonical)
	}
	return existing, nil
}

func (s *WaitlistStore) CountCanonical(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.db.Collection(s.canonical).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors2.NewServerErrorf(errors2.COUNT_CANONICAL, errors.Wrap(err, "countDocuments"),
			"Failed to count %s.", s.canonical)
	}
	return count, nil
}

// InsertDocuments inserts docs unordered and returns how many were written.
func (s *WaitlistStore) InsertDocuments(ctx context.Context, collection string, docs []bson.M) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	batch := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		batch = append(batch, doc)
	}

	result, err := s.db.Collection(collection).InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(result.InsertedIDs), nil
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) && bulkErr.WriteConcernError == nil {
		written := len(docs) - len(bulkErr.WriteErrors)
		return written, errors2.NewServerErrorf(errors2.IMPORT_ENTRIES, errors.Wrap(err, "insertMany"),
			"%d of %d documents were rejected by %s.", len(bulkErr.WriteErrors), len(docs), collection)
	}
	return 0, errors2.NewServerErrorf(errors2.IMPORT_ENTRIES, errors.Wrap(err, "insertMany"),
		"Failed to insert %d documents into %s.", len(docs), collection)
}
