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

package errors

const errorPrefix = "JFW-"

var (
	// Server error codes

	CONNECT_STORE = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while connecting to the document store.",
	}

	LIST_SOURCES = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while listing waitlist source collections.",
	}

	ENSURE_DEDUPE_INDEX = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while ensuring the dedupe key index.",
	}

	FETCH_SOURCE_ENTRIES = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while fetching waitlist entries.",
	}

	MERGE_SOURCE_ENTRIES = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while merging waitlist entries.",
	}

	COUNT_CANONICAL = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while counting canonical waitlist entries.",
	}

	RECONCILE_FAILED = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Waitlist reconcile finished with failed sources.",
	}

	ACQUIRE_LOCK = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while acquiring the reconcile lock.",
	}

	IMPORT_ENTRIES = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while importing waitlist entries.",
	}

	PUSH_METRICS = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while pushing reconcile metrics.",
	}

	// Client error codes

	MISSING_STORE_URI = ErrorMessage{
		Code:        errorPrefix + "11001",
		Message:     "Document store connection is not configured.",
		Description: "Set mongodb.uri in the deployment configuration or the MONGODB_URI environment variable.",
	}

	INVALID_CONFIG = ErrorMessage{
		Code:    errorPrefix + "11002",
		Message: "Invalid configuration.",
	}

	READ_IMPORT_FILE = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Unable to read import file.",
	}

	INVALID_IMPORT_FILE = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Invalid import file.",
	}

	IMPORT_INTO_CANONICAL = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Import target is the canonical collection.",
		Description: "Rows can only reach the canonical collection through a reconcile run. Import into a source collection instead.",
	}
)
