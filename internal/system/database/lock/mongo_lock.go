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

package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
	"github.com/joyfund/waitlist-reconciler/internal/system/log"
)

type DistributedLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type lockDocument struct {
	Key       string    `bson:"_id"`
	Owner     string    `bson:"owner"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoLock implements DistributedLock with one document per key in a locks collection. Each
// instance has its own owner ID and only releases locks it holds.
type MongoLock struct {
	Collection *mongo.Collection
	owner      string
	now        func() time.Time
}

func NewMongoLock(collection *mongo.Collection) *MongoLock {
	return &MongoLock{
		Collection: collection,
		owner:      uuid.NewString(),
		now:        time.Now,
	}
}

// Acquire inserts the lock document. A lock held past its expiry is taken over.
func (l *MongoLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := l.now().UTC()
	lock := lockDocument{
		Key:       key,
		Owner:     l.owner,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := l.Collection.InsertOne(ctx, lock)
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, errors2.NewServerErrorf(errors2.ACQUIRE_LOCK, errors.Wrap(err, "insertOne"),
			"Failed to insert lock %s.", key)
	}

	// Held: replace it only if it has expired. The expiry filter makes the takeover atomic
	// against another process doing the same.
	filter := bson.M{"_id": key, "expires_at": bson.M{"$lte": now}}
	res := l.Collection.FindOneAndReplace(ctx, filter, lock)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, errors2.NewServerErrorf(errors2.ACQUIRE_LOCK, errors.Wrap(err, "findOneAndReplace"),
			"Failed to take over expired lock %s.", key)
	}
	log.GetLogger().Info("Took over expired lock", log.String("lock", key))
	return true, nil
}

// Release deletes the lock only while this instance still owns it. A lock that expired and was
// taken over by another holder is left alone.
func (l *MongoLock) Release(ctx context.Context, key string) error {
	res, err := l.Collection.DeleteOne(ctx, bson.M{"_id": key, "owner": l.owner})
	if err != nil {
		return errors.Wrap(err, "deleteOne")
	}
	if res.DeletedCount == 0 {
		log.GetLogger().Warn("Lock no longer owned, not released", log.String("lock", key))
	}
	return nil
}
