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

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("WARN", &buf))

	logger := GetLogger()
	logger.Info("hidden")
	logger.Warn("shown", String("source", "waitlist_landing"), Int("inserted", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "source=waitlist_landing")
	assert.Contains(t, out, "inserted=3")
}

func TestInitWithWriter_RejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	err := InitWithWriter("LOUD", &buf)
	assert.Error(t, err)
}

func TestWith_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("DEBUG", &buf))

	GetLogger().With(String("run_id", "r-1")).Debug("step", Error(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "run_id=r-1")
	assert.Contains(t, out, "error=boom")
}

func TestAudit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("INFO", &buf))

	GetLogger().Audit(AuditEvent{
		InitiatorID:   "reconciler",
		InitiatorType: InitiatorTypeSystem,
		TargetID:      "waitlist",
		TargetType:    TargetTypeCollection,
		ActionID:      ActionMergeWaitlist,
		TraceID:       "run-1",
		Data:          map[string]int{"inserted": 2},
	})

	out := buf.String()
	assert.Contains(t, out, "AUDIT")
	assert.Contains(t, out, "merge-waitlist")
	assert.Contains(t, out, "recordedAt")
}
