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

package constants

import "time"

const (
	DefaultConfigFile = "repository/conf/deployment.yaml"
	EnvFilePattern    = "config/*.env"
)

// Environment variables read when no deployment configuration file is present.
const (
	EnvMongoURI      = "MONGODB_URI"
	EnvMongoDatabase = "MONGODB_DB"
	EnvLogLevel      = "LOG_LEVEL"
)

const (
	DefaultDatabase            = "joyfund"
	DefaultCanonicalCollection = "waitlist"
	DefaultSourceKeyword       = "waitlist"
	DefaultLogLevel            = "INFO"
	DefaultOperationTimeout    = 30 * time.Second
	DefaultParallelism         = 1
	DefaultMetricsJob          = "waitlist_reconciler"
	DefaultLockTTL             = 15 * time.Minute
	LocksCollection            = "locks"
	ReconcileLockKey           = "waitlist-reconcile"
)

// Canonical record fields.
const (
	DedupeKeyField        = "_dedupeKey"
	SourceCollectionField = "_sourceCollection"
	DedupeKeyIndexName    = "uniq_dedupe_key"
	DedupeKeyDelimiter    = "|"
)

// ISOTimestampLayout is the millisecond-precision UTC layout used inside dedupe keys.
const ISOTimestampLayout = "2006-01-02T15:04:05.000Z"

// MongoDuplicateKeyCode is the server error code for unique index violations.
const MongoDuplicateKeyCode = 11000
