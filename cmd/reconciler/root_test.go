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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyfund/waitlist-reconciler/internal/system/config"
	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

func TestSetup_MissingConnectionIsFatal(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	err := setup(&rootOptions{home: t.TempDir(), configFile: "absent.yaml"})

	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.MISSING_STORE_URI.Code, clientErr.Code)
}

func TestSetup_LoadsEnvFiles(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "config", "local.env"),
		[]byte("MONGODB_URI=mongodb://from-env-file:27017\nMONGODB_DB=joyfund_dev\n"), 0o600))
	// godotenv does not override variables that are already set.
	require.NoError(t, os.Unsetenv("MONGODB_URI"))
	require.NoError(t, os.Unsetenv("MONGODB_DB"))
	t.Cleanup(func() {
		_ = os.Unsetenv("MONGODB_URI")
		_ = os.Unsetenv("MONGODB_DB")
	})

	require.NoError(t, setup(&rootOptions{home: home, configFile: "absent.yaml", logLevel: "debug"}))

	conf := config.GetRuntime().Config
	assert.Equal(t, "mongodb://from-env-file:27017", conf.MongoDB.URI)
	assert.Equal(t, "joyfund_dev", conf.MongoDB.Database)
	assert.Equal(t, "debug", conf.Log.LogLevel)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	reconcile, _, err := root.Find([]string{"reconcile"})
	require.NoError(t, err)
	assert.NotNil(t, reconcile.Flags().Lookup("dry-run"))

	imp, _, err := root.Find([]string{"import"})
	require.NoError(t, err)
	assert.Equal(t, "csv_waitlist", imp.Flags().Lookup("collection").DefValue)
}

func TestPrintSummary_IncludesFailedSources(t *testing.T) {
	report := &model.Report{
		Sources: []model.SourceReport{
			{Source: "waitlist_landing", Fetched: 3, Inserted: 2, Existing: 1},
			{Source: "waitlist_campaign", Err: errors.New("connection reset")},
		},
		TotalInserted:  2,
		CanonicalTotal: 7,
	}
	var out bytes.Buffer

	printSummary(&out, report)

	assert.Contains(t, out.String(), "waitlist_landing")
	assert.Contains(t, out.String(), "inserted=2 existing=1 failed=0")
	assert.Contains(t, out.String(), `waitlist_campaign`)
	assert.Contains(t, out.String(), `error="connection reset"`)
	assert.Contains(t, out.String(), "total inserted=2 canonical rows=7")
}
