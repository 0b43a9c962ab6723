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
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

// DryRunStore reads through to another store but never writes to it. Inserts are simulated
// against the keys already present in the underlying canonical collection.
type DryRunStore struct {
	WaitlistStoreInterface
	mu     sync.Mutex
	staged map[string]bool
}

// NewDryRunStore wraps inner.
func NewDryRunStore(inner WaitlistStoreInterface) *DryRunStore {
	return &DryRunStore{
		WaitlistStoreInterface: inner,
		staged:                 make(map[string]bool),
	}
}

func (s *DryRunStore) EnsureDedupeIndex(_ context.Context) error {
	return nil
}

func (s *DryRunStore) InsertIfAbsent(ctx context.Context, records []model.CanonicalRecord) (*model.WriteSummary, error) {
	keys := make([]string, 0, len(records))
	for _, record := range records {
		keys = append(keys, record.DedupeKey)
	}
	existing, err := s.WaitlistStoreInterface.ExistingKeys(ctx, keys)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &model.WriteSummary{}
	for _, key := range keys {
		if existing[key] || s.staged[key] {
			summary.Existing++
			continue
		}
		s.staged[key] = true
		summary.Inserted++
	}
	return summary, nil
}

func (s *DryRunStore) ExistingKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	existing, err := s.WaitlistStoreInterface.ExistingKeys(ctx, keys)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if s.staged[key] {
			existing[key] = true
		}
	}
	return existing, nil
}

func (s *DryRunStore) CountCanonical(ctx context.Context) (int64, error) {
	count, err := s.WaitlistStoreInterface.CountCanonical(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return count + int64(len(s.staged)), nil
}

func (s *DryRunStore) InsertDocuments(_ context.Context, _ string, docs []bson.M) (int, error) {
	return len(docs), nil
}
