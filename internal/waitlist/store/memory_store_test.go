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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

func record(key, source string) model.CanonicalRecord {
	return model.CanonicalRecord{DedupeKey: key, SourceCollection: source}
}

func TestMemoryStore_InsertIfAbsentFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("waitlist")

	summary, err := s.InsertIfAbsent(ctx, []model.CanonicalRecord{record("k1", "a"), record("k2", "a")})
	require.NoError(t, err)
	assert.Equal(t, &model.WriteSummary{Inserted: 2}, summary)

	summary, err = s.InsertIfAbsent(ctx, []model.CanonicalRecord{record("k1", "b"), record("k3", "b")})
	require.NoError(t, err)
	assert.Equal(t, &model.WriteSummary{Inserted: 1, Existing: 1}, summary)

	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].SourceCollection)
	assert.Equal(t, "b", records[2].SourceCollection)

	count, err := s.CountCanonical(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestMemoryStore_ListCollectionNames(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("waitlist")
	s.AddSource("landing_waitlist", bson.M{"email": "a@b.com"})
	s.AddSource("Waitlist_Old")

	names, err := s.ListCollectionNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Waitlist_Old", "landing_waitlist"}, names)

	require.NoError(t, s.EnsureDedupeIndex(ctx))
	names, err = s.ListCollectionNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "waitlist")
}

func TestMemoryStore_FetchDocumentsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("waitlist")
	s.AddSource("landing_waitlist", bson.M{"email": "a@b.com"})

	docs, err := s.FetchDocuments(ctx, "landing_waitlist")
	require.NoError(t, err)
	docs[0] = bson.M{}

	again, err := s.FetchDocuments(ctx, "landing_waitlist")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", again[0]["email"])

	missing, err := s.FetchDocuments(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestDryRunStore_NeverWritesThrough(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore("waitlist")
	_, err := inner.InsertIfAbsent(ctx, []model.CanonicalRecord{record("k1", "a")})
	require.NoError(t, err)
	writesBefore := inner.Writes()

	dry := NewDryRunStore(inner)
	require.NoError(t, dry.EnsureDedupeIndex(ctx))
	summary, err := dry.InsertIfAbsent(ctx, []model.CanonicalRecord{record("k1", "b"), record("k2", "b")})
	require.NoError(t, err)
	assert.Equal(t, &model.WriteSummary{Inserted: 1, Existing: 1}, summary)

	summary, err = dry.InsertIfAbsent(ctx, []model.CanonicalRecord{record("k2", "c")})
	require.NoError(t, err)
	assert.Equal(t, &model.WriteSummary{Existing: 1}, summary)

	count, err := dry.CountCanonical(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	existing, err := dry.ExistingKeys(ctx, []string{"k1", "k2", "k3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"k1": true, "k2": true}, existing)

	n, err := dry.InsertDocuments(ctx, "csv_waitlist", []bson.M{{"email": "x@y.com"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, writesBefore, inner.Writes())
	assert.False(t, inner.IndexEnsured())
	assert.Len(t, inner.Records(), 1)
}
