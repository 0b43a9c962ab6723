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

import "time"

type MongoDBConfig struct {
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

// WaitlistConfig controls which collections are merged and where they land.
// When Sources is empty, sources are discovered by SourceKeyword.
type WaitlistConfig struct {
	CanonicalCollection string        `yaml:"canonical_collection"`
	SourceKeyword       string        `yaml:"source_keyword"`
	Sources             []string      `yaml:"sources"`
	Parallelism         int           `yaml:"parallelism"`
	ExclusiveRun        bool          `yaml:"exclusive_run"`
	LockTTL             time.Duration `yaml:"lock_ttl"`
}

type MetricsConfig struct {
	PushGatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

type Config struct {
	MongoDB  MongoDBConfig  `yaml:"mongodb"`
	Log      LogConfig      `yaml:"log"`
	Waitlist WaitlistConfig `yaml:"waitlist"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}
