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
	"path"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/joyfund/waitlist-reconciler/internal/system/constants"
	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
)

// LoadConfig reads the YAML deployment file, expanding ${VAR} references from the environment.
// A missing file is not an error: the configuration is then taken from the environment.
func LoadConfig(home, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(home, filePath))
	if err != nil {
		if os.IsNotExist(err) {
			cfg := FromEnv()
			ApplyDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// FromEnv builds a configuration from environment variables only.
func FromEnv() *Config {
	cfg := &Config{}
	cfg.MongoDB.URI = os.Getenv(constants.EnvMongoURI)
	cfg.MongoDB.Database = os.Getenv(constants.EnvMongoDatabase)
	cfg.Log.LogLevel = os.Getenv(constants.EnvLogLevel)
	return cfg
}

// ApplyDefaults fills every unset value with its default.
func ApplyDefaults(cfg *Config) {
	cfg.MongoDB.URI = strings.TrimSpace(cfg.MongoDB.URI)
	if cfg.MongoDB.Database == "" {
		cfg.MongoDB.Database = constants.DefaultDatabase
	}
	if cfg.MongoDB.Timeout <= 0 {
		cfg.MongoDB.Timeout = constants.DefaultOperationTimeout
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = constants.DefaultLogLevel
	}
	if cfg.Waitlist.CanonicalCollection == "" {
		cfg.Waitlist.CanonicalCollection = constants.DefaultCanonicalCollection
	}
	if cfg.Waitlist.SourceKeyword == "" {
		cfg.Waitlist.SourceKeyword = constants.DefaultSourceKeyword
	}
	if cfg.Waitlist.Parallelism <= 0 {
		cfg.Waitlist.Parallelism = constants.DefaultParallelism
	}
	if cfg.Waitlist.LockTTL <= 0 {
		cfg.Waitlist.LockTTL = constants.DefaultLockTTL
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = constants.DefaultMetricsJob
	}
}

// Validate reports configuration that makes a run impossible. It performs no I/O.
func Validate(cfg *Config) error {
	if cfg.MongoDB.URI == "" {
		return errors2.NewClientError(errors2.MISSING_STORE_URI)
	}
	for _, source := range cfg.Waitlist.Sources {
		if strings.TrimSpace(source) == "" {
			return errors2.NewClientErrorf(errors2.INVALID_CONFIG, "waitlist.sources contains an empty name.")
		}
	}
	return nil
}
