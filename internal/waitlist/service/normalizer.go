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

package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/joyfund/waitlist-reconciler/internal/system/constants"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
)

// Normalize cleans a raw entry. now is used as createdAt only when the document carries no
// timestamp at all; it never takes part in the dedupe key.
func Normalize(raw model.RawEntry, now time.Time) model.NormalizedEntry {
	entry := model.NormalizedEntry{
		Name:   trimmed(raw.Name),
		Reason: trimmed(raw.Reason),
	}
	if email := trimmed(raw.Email); email != nil {
		lower := strings.ToLower(*email)
		entry.Email = &lower
	}

	switch {
	case raw.CreatedAt != nil:
		entry.CreatedAt = raw.CreatedAt.UTC().Truncate(time.Millisecond)
		entry.KeyTimestamp = entry.CreatedAt.Format(constants.ISOTimestampLayout)
	case raw.IDTime != nil:
		entry.CreatedAt = raw.IDTime.UTC().Truncate(time.Millisecond)
		entry.KeyTimestamp = entry.CreatedAt.Format(constants.ISOTimestampLayout)
	default:
		entry.CreatedAt = now.UTC().Truncate(time.Millisecond)
	}
	return entry
}

// DedupeKey returns the hex SHA-256 of email, name, reason and timestamp joined by "|".
func DedupeKey(entry model.NormalizedEntry) string {
	parts := []string{
		keyPart(entry.Email),
		keyPart(entry.Name),
		keyPart(entry.Reason),
		entry.KeyTimestamp,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, constants.DedupeKeyDelimiter)))
	return hex.EncodeToString(sum[:])
}

// ToCanonical builds the canonical row for an entry read from source.
func ToCanonical(entry model.NormalizedEntry, source string) model.CanonicalRecord {
	return model.CanonicalRecord{
		NormalizedEntry:  entry,
		DedupeKey:        DedupeKey(entry),
		SourceCollection: source,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// keyPart folds compatibility forms and whitespace runs so that visually identical values
// produce the same key.
func keyPart(s *string) string {
	if s == nil {
		return ""
	}
	folded := norm.NFKC.String(*s)
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
