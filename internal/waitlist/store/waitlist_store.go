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

	"go.mongodb.org/mongo-driver/bson"

	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

// WaitlistStoreInterface is the document store the reconciler and importer work against.
type WaitlistStoreInterface interface {
	// CanonicalCollection returns the name of the deduplicated destination collection.
	CanonicalCollection() string
	ListCollectionNames(ctx context.Context) ([]string, error)
	FetchDocuments(ctx context.Context, collection string) ([]bson.M, error)
	// EnsureDedupeIndex creates the unique index on the dedupe key if it does not exist.
	EnsureDedupeIndex(ctx context.Context) error
	// InsertIfAbsent inserts every record whose dedupe key is not yet present. Records are
	// independent; one failing does not stop the others.
	InsertIfAbsent(ctx context.Context, records []model.CanonicalRecord) (*model.WriteSummary, error)
	// ExistingKeys returns the subset of keys already present in the canonical collection.
	ExistingKeys(ctx context.Context, keys []string) (map[string]bool, error)
	CountCanonical(ctx context.Context) (int64, error)
	InsertDocuments(ctx context.Context, collection string, docs []bson.M) (int, error)
}
