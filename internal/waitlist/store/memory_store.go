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
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

// MemoryStore is an in-process WaitlistStoreInterface. Insert-if-absent is atomic per record,
// matching the unique index guarantee of the MongoDB store.
type MemoryStore struct {
	mu           sync.Mutex
	canonical    string
	collections  map[string][]bson.M
	records      map[string]model.CanonicalRecord
	order        []string
	indexEnsured bool
	writes       int
}

// NewMemoryStore returns an empty store whose canonical collection is canonical.
func NewMemoryStore(canonical string) *MemoryStore {
	return &MemoryStore{
		canonical:   canonical,
		collections: make(map[string][]bson.M),
		records:     make(map[string]model.CanonicalRecord),
	}
}

// AddSource creates the collection if needed and appends docs to it.
func (s *MemoryStore) AddSource(name string, docs ...bson.M) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name] = append(s.collections[name], docs...)
}

// Records returns canonical rows in insertion order.
func (s *MemoryStore) Records() []model.CanonicalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CanonicalRecord, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.records[key])
	}
	return out
}

// IndexEnsured reports whether EnsureDedupeIndex has been called.
func (s *MemoryStore) IndexEnsured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexEnsured
}

// Writes returns how many write operations have been submitted.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *MemoryStore) CanonicalCollection() string {
	return s.canonical
}

func (s *MemoryStore) ListCollectionNames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.collections)+1)
	for name := range s.collections {
		names = append(names, name)
	}
	if _, ok := s.collections[s.canonical]; !ok && (len(s.records) > 0 || s.indexEnsured) {
		names = append(names, s.canonical)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) FetchDocuments(_ context.Context, collection string) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]bson.M, len(s.collections[collection]))
	copy(docs, s.collections[collection])
	return docs, nil
}

func (s *MemoryStore) EnsureDedupeIndex(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexEnsured = true
	return nil
}

func (s *MemoryStore) InsertIfAbsent(_ context.Context, records []model.CanonicalRecord) (*model.WriteSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &model.WriteSummary{}
	for _, record := range records {
		s.writes++
		if _, ok := s.records[record.DedupeKey]; ok {
			summary.Existing++
			continue
		}
		s.records[record.DedupeKey] = record
		s.order = append(s.order, record.DedupeKey)
		summary.Inserted++
	}
	return summary, nil
}

func (s *MemoryStore) ExistingKeys(_ context.Context, keys []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := make(map[string]bool)
	for _, key := range keys {
		if _, ok := s.records[key]; ok {
			existing[key] = true
		}
	}
	return existing, nil
}

func (s *MemoryStore) CountCanonical(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

func (s *MemoryStore) InsertDocuments(_ context.Context, collection string, docs []bson.M) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes += len(docs)
	s.collections[collection] = append(s.collections[collection], docs...)
	return len(docs), nil
}
