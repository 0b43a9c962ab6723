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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

// RunMetrics holds the collectors describing one reconcile run.
type RunMetrics struct {
	Registry *prometheus.Registry

	fetched        *prometheus.GaugeVec
	inserted       *prometheus.GaugeVec
	existing       *prometheus.GaugeVec
	failed         *prometheus.GaugeVec
	canonicalTotal prometheus.Gauge
	duration       prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		Registry: prometheus.NewRegistry(),
		fetched: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "waitlist_reconcile_fetched_documents",
			Help: "Documents read from a source collection in the last run.",
		}, []string{"source"}),
		inserted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "waitlist_reconcile_inserted_records",
			Help: "Canonical records inserted from a source in the last run.",
		}, []string{"source"}),
		existing: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "waitlist_reconcile_existing_records",
			Help: "Records skipped because their dedupe key was already present.",
		}, []string{"source"}),
		failed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "waitlist_reconcile_failed_records",
			Help: "Records the store rejected in the last run.",
		}, []string{"source"}),
		canonicalTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "waitlist_canonical_records",
			Help: "Rows in the canonical waitlist collection after the last run.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "waitlist_reconcile_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "waitlist_reconcile_last_success_timestamp_seconds",
			Help: "Unix time of the last run without failed sources.",
		}),
	}
	m.Registry.MustRegister(m.fetched, m.inserted, m.existing, m.failed, m.canonicalTotal, m.duration, m.lastSuccess)
	return m
}

// Observe records a finished run.
func (m *RunMetrics) Observe(report *model.Report) {
	for _, s := range report.Sources {
		m.fetched.WithLabelValues(s.Source).Set(float64(s.Fetched))
		m.inserted.WithLabelValues(s.Source).Set(float64(s.Inserted))
		m.existing.WithLabelValues(s.Source).Set(float64(s.Existing))
		m.failed.WithLabelValues(s.Source).Set(float64(s.Failed))
	}
	m.canonicalTotal.Set(float64(report.CanonicalTotal))
	m.duration.Set(report.FinishedAt.Sub(report.StartedAt).Seconds())
	if len(report.FailedSources()) == 0 {
		m.lastSuccess.Set(float64(report.FinishedAt.Unix()))
	}
}

// Push sends the collected metrics to a Prometheus Pushgateway.
func (m *RunMetrics) Push(ctx context.Context, gatewayURL, job string) error {
	err := push.New(gatewayURL, job).Gatherer(m.Registry).PushContext(ctx)
	if err != nil {
		return errors2.NewServerErrorf(errors2.PUSH_METRICS, err, "Failed to push to %s.", gatewayURL)
	}
	return nil
}
