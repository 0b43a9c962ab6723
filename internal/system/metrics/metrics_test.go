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

package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

func sampleReport() *model.Report {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &model.Report{
		Sources: []model.SourceReport{
			{Source: "landing_waitlist", Fetched: 4, Inserted: 3, Existing: 1},
			{Source: "csv_waitlist", Fetched: 2, Existing: 2},
		},
		TotalInserted:  3,
		CanonicalTotal: 9,
		StartedAt:      started,
		FinishedAt:     started.Add(1500 * time.Millisecond),
	}
}

func TestObserve(t *testing.T) {
	m := NewRunMetrics()
	m.Observe(sampleReport())

	assert.Equal(t, 3.0, testutil.ToFloat64(m.inserted.WithLabelValues("landing_waitlist")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.existing.WithLabelValues("csv_waitlist")))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.canonicalTotal))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.duration))
	assert.NotZero(t, testutil.ToFloat64(m.lastSuccess))
}

func TestObserve_FailedRunKeepsLastSuccess(t *testing.T) {
	m := NewRunMetrics()
	report := sampleReport()
	report.Sources[1].Err = assert.AnError
	m.Observe(report)

	assert.Zero(t, testutil.ToFloat64(m.lastSuccess))
}

func TestPush(t *testing.T) {
	var gotPath string
	var gotBody []byte
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	m := NewRunMetrics()
	m.Observe(sampleReport())
	require.NoError(t, m.Push(context.Background(), gateway.URL, "waitlist_reconciler"))

	assert.Equal(t, "/metrics/job/waitlist_reconciler", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPush_GatewayError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gateway.Close()

	err := NewRunMetrics().Push(context.Background(), gateway.URL, "waitlist_reconciler")
	assert.Error(t, err)
}
