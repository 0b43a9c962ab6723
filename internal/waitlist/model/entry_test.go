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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFromDocument_ReconcilesFieldCasing(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	lower := FromDocument(bson.M{
		"name": "Joy", "email": "joy@example.com", "reason": "test", "createdAt": primitive.NewDateTimeFromTime(ts),
	})
	upper := FromDocument(bson.M{
		"Name": "Joy", "Email": "joy@example.com", "Reason": "test", "CreatedAt": primitive.NewDateTimeFromTime(ts),
	})

	require.NotNil(t, lower.Email)
	require.NotNil(t, upper.Email)
	assert.Equal(t, *lower.Name, *upper.Name)
	assert.Equal(t, *lower.Email, *upper.Email)
	assert.Equal(t, *lower.Reason, *upper.Reason)
	assert.True(t, lower.CreatedAt.Equal(*upper.CreatedAt))
}

func TestFromDocument_LowercaseWins(t *testing.T) {
	entry := FromDocument(bson.M{"email": "a@b.com", "Email": "other@b.com", "Name": "Cap", "name": "  "})

	assert.Equal(t, "a@b.com", *entry.Email)
	assert.Equal(t, "Cap", *entry.Name)
}

func TestFromDocument_CreatedAtFallsBackToCapitalized(t *testing.T) {
	entry := FromDocument(bson.M{"createdAt": "", "CreatedAt": "2024-03-01T10:30:00Z"})

	require.NotNil(t, entry.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), *entry.CreatedAt)
}

func TestFromDocument_EmptyDocument(t *testing.T) {
	entry := FromDocument(bson.M{})

	assert.Nil(t, entry.Name)
	assert.Nil(t, entry.Email)
	assert.Nil(t, entry.Reason)
	assert.Nil(t, entry.CreatedAt)
	assert.Nil(t, entry.IDTime)
}

func TestFromDocument_ObjectIDTime(t *testing.T) {
	created := time.Date(2023, 12, 24, 8, 0, 0, 0, time.UTC)
	entry := FromDocument(bson.M{"_id": primitive.NewObjectIDFromTimestamp(created)})

	require.NotNil(t, entry.IDTime)
	assert.Equal(t, created, *entry.IDTime)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input interface{}
		ok    bool
	}{
		{"bson datetime", primitive.NewDateTimeFromTime(want), true},
		{"time value", want.In(time.FixedZone("X", 3600)), true},
		{"rfc3339", "2024-03-01T10:30:00Z", true},
		{"iso millis", "2024-03-01T10:30:00.000Z", true},
		{"space separated", "2024-03-01 10:30:00", true},
		{"epoch millis", want.UnixMilli(), true},
		{"epoch millis float", float64(want.UnixMilli()), true},
		{"garbage", "next tuesday", false},
		{"empty", "  ", false},
		{"nil", nil, false},
		{"zero time", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestReport_FailedSources(t *testing.T) {
	report := Report{Sources: []SourceReport{
		{Source: "a"},
		{Source: "b", Err: assert.AnError},
	}}

	assert.Equal(t, []string{"b"}, report.FailedSources())
}
