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

import "time"

// WriteSummary is the outcome of one bulk insert-if-absent batch.
type WriteSummary struct {
	Inserted int
	Existing int
	Failed   int
}

// SourceReport describes what one source contributed to a run.
type SourceReport struct {
	Source             string
	Fetched            int
	Staged             int
	DuplicatesInSource int
	Inserted           int
	Existing           int
	Failed             int
	Skipped            bool
	Err                error
}

// Report is the result of one reconcile run.
type Report struct {
	RunID          string
	DryRun         bool
	// Skipped is set when another run held the reconcile lock.
	Skipped        bool
	Sources        []SourceReport
	TotalInserted  int
	CanonicalTotal int64
	StartedAt      time.Time
	FinishedAt     time.Time
}

// FailedSources returns the names of sources whose processing returned an error.
func (r *Report) FailedSources() []string {
	var failed []string
	for _, s := range r.Sources {
		if s.Err != nil {
			failed = append(failed, s.Source)
		}
	}
	return failed
}
