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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
)

func TestLoadConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_MONGODB_URI", "mongodb://db.internal:27017")
	home := t.TempDir()
	content := `
mongodb:
  uri: ${TEST_MONGODB_URI}
  database: joyfund_prod
  timeout: 10s
waitlist:
  sources:
    - landing_waitlist
    - csv_import
  parallelism: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(home, "deployment.yaml"), []byte(content), 0o600))

	cfg, err := LoadConfig(home, "deployment.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db.internal:27017", cfg.MongoDB.URI)
	assert.Equal(t, "joyfund_prod", cfg.MongoDB.Database)
	assert.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	assert.Equal(t, []string{"landing_waitlist", "csv_import"}, cfg.Waitlist.Sources)
	assert.Equal(t, 2, cfg.Waitlist.Parallelism)
	assert.Equal(t, "waitlist", cfg.Waitlist.CanonicalCollection)
	assert.Equal(t, "waitlist", cfg.Waitlist.SourceKeyword)
	assert.Equal(t, "INFO", cfg.Log.LogLevel)
}

func TestLoadConfig_MissingFileFallsBackToEnvironment(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DB", "")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig(t.TempDir(), "absent.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "joyfund", cfg.MongoDB.Database)
	assert.Equal(t, "DEBUG", cfg.Log.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.MongoDB.Timeout)
}

func TestLoadConfig_RejectsMalformedYAML(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "bad.yaml"), []byte("mongodb: [unclosed"), 0o600))

	_, err := LoadConfig(home, "bad.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing uri", Config{}, errors2.MISSING_STORE_URI.Code},
		{"blank source", Config{
			MongoDB:  MongoDBConfig{URI: "mongodb://x"},
			Waitlist: WaitlistConfig{Sources: []string{"a", " "}},
		}, errors2.INVALID_CONFIG.Code},
		{"valid", Config{MongoDB: MongoDBConfig{URI: "mongodb://x"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var clientErr *errors2.ClientError
			require.ErrorAs(t, err, &clientErr)
			assert.Equal(t, tt.wantErr, clientErr.Code)
		})
	}
}
