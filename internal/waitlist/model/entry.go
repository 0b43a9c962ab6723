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

package model

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawEntry is a waitlist document as found in a source collection, with the field casing
// differences between sources already reconciled. Every field is optional.
type RawEntry struct {
	ID        interface{}
	Name      *string
	Email     *string
	Reason    *string
	CreatedAt *time.Time
	// IDTime is the creation time embedded in an ObjectID _id, if the document has one.
	IDTime *time.Time
}

// NormalizedEntry is the cleaned form of a RawEntry. Email is always trimmed and lowercased.
type NormalizedEntry struct {
	Name      *string   `bson:"name" json:"name"`
	Email     *string   `bson:"email" json:"email"`
	Reason    *string   `bson:"reason" json:"reason"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	// KeyTimestamp is the timestamp segment used in the dedupe key. Empty when the source
	// document carried no usable timestamp.
	KeyTimestamp string `bson:"-" json:"-"`
}

// CanonicalRecord is a row of the canonical waitlist collection.
type CanonicalRecord struct {
	NormalizedEntry  `bson:",inline"`
	DedupeKey        string `bson:"_dedupeKey" json:"_dedupeKey"`
	SourceCollection string `bson:"_sourceCollection" json:"_sourceCollection"`
}

// FromDocument decodes an untrusted source document. Lowercase field names win over their
// capitalized variants when both hold a value.
func FromDocument(doc bson.M) RawEntry {
	entry := RawEntry{
		ID:     doc["_id"],
		Name:   stringField(doc, "name", "Name"),
		Email:  stringField(doc, "email", "Email"),
		Reason: stringField(doc, "reason", "Reason"),
	}
	for _, key := range []string{"createdAt", "CreatedAt"} {
		if ts, ok := ParseTimestamp(doc[key]); ok {
			entry.CreatedAt = &ts
			break
		}
	}
	if oid, ok := doc["_id"].(primitive.ObjectID); ok && !oid.IsZero() {
		ts := oid.Timestamp().UTC()
		entry.IDTime = &ts
	}
	return entry
}

func stringField(doc bson.M, keys ...string) *string {
	for _, key := range keys {
		value, ok := doc[key]
		if !ok || value == nil {
			continue
		}
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case int32, int64, float64, bool:
			s = fmt.Sprint(v)
		default:
			continue
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		return &s
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
}

// ParseTimestamp converts the timestamp representations found in waitlist sources: BSON
// datetimes and timestamps, time values, ISO-8601 style strings and epoch milliseconds.
func ParseTimestamp(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time().UTC(), true
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0).UTC(), true
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.UTC(), true
	case int64:
		return time.UnixMilli(v).UTC(), true
	case int32:
		return time.UnixMilli(int64(v)).UTC(), true
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
