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

package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
	"github.com/joyfund/waitlist-reconciler/internal/system/log"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/store"
)

// Known header spellings, keyed by their lowercase form.
var headerAliases = map[string]string{
	"name":          "name",
	"full name":     "name",
	"email":         "email",
	"e-mail":        "email",
	"email address": "email",
	"reason":        "reason",
	"createdat":     "createdAt",
	"created_at":    "createdAt",
	"created at":    "createdAt",
	"timestamp":     "createdAt",
}

// RowProblem describes a row that was not imported.
type RowProblem struct {
	Line   int
	Reason string
}

// ImportReport summarizes one import.
type ImportReport struct {
	Collection string
	Rows       int
	Imported   int
	Problems   []RowProblem
}

// CSVImporter loads spreadsheet exports of waitlist signups into a source collection.
type CSVImporter struct {
	store store.WaitlistStoreInterface
}

func NewCSVImporter(s store.WaitlistStoreInterface) *CSVImporter {
	return &CSVImporter{store: s}
}

// ImportFile imports the CSV file at path into collection.
func (i *CSVImporter) ImportFile(ctx context.Context, path, collection string) (*ImportReport, error) {
	if err := i.checkTarget(collection); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors2.NewClientErrorf(errors2.READ_IMPORT_FILE, "Cannot open %s: %v.", path, err)
	}
	defer file.Close()

	return i.Import(ctx, file, collection, filepath.Base(path))
}

// Import parses r and inserts one document per data row into collection. Rows are not
// deduplicated here.
func (i *CSVImporter) Import(ctx context.Context, r io.Reader, collection, origin string) (*ImportReport, error) {
	if err := i.checkTarget(collection); err != nil {
		return nil, err
	}
	docs, problems, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	rows := len(docs)
	for _, p := range problems {
		if p.Line > 1 {
			rows++
		}
	}
	report := &ImportReport{
		Collection: collection,
		Rows:       rows,
		Problems:   problems,
	}
	logger := log.GetLogger().With(log.String("collection", collection), log.String("origin", origin))
	for _, p := range problems {
		logger.Warn("Skipping CSV row", log.Int("line", p.Line), log.String("reason", p.Reason))
	}
	if origin != "" {
		for _, doc := range docs {
			doc["_importedFrom"] = origin
		}
	}

	imported, err := i.store.InsertDocuments(ctx, collection, docs)
	report.Imported = imported
	if err != nil {
		return report, err
	}
	logger.Info("Imported waitlist rows", log.Int("rows", report.Rows), log.Int("imported", imported))
	logger.Audit(log.AuditEvent{
		InitiatorID:   origin,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      collection,
		TargetType:    log.TargetTypeCollection,
		ActionID:      log.ActionImportWaitlist,
		Data:          map[string]int{"rows": report.Rows, "imported": imported},
	})
	return report, nil
}

// checkTarget rejects the canonical collection. Canonical rows are only written keyed, by a
// reconcile run.
func (i *CSVImporter) checkTarget(collection string) error {
	if collection == i.store.CanonicalCollection() {
		return errors2.NewClientError(errors2.IMPORT_INTO_CANONICAL)
	}
	return nil
}

// ParseCSV converts a CSV stream with a header row into waitlist documents. Timestamps that
// parse are stored as time values; everything else is kept as text.
func ParseCSV(r io.Reader) ([]bson.M, []RowProblem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors2.NewClientErrorf(errors2.INVALID_IMPORT_FILE, "The file is empty.")
	}
	if err != nil {
		return nil, nil, errors2.NewClientErrorf(errors2.INVALID_IMPORT_FILE, "Cannot read header: %v.", err)
	}
	fields, problems := mapHeader(header)

	var docs []bson.M
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				problems = append(problems, RowProblem{Line: parseErr.Line, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, nil, errors2.NewClientErrorf(errors2.INVALID_IMPORT_FILE, "Read failed: %v.", err)
		}
		if blankRow(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(row) != len(fields) {
			problems = append(problems, RowProblem{
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, found %d", len(fields), len(row)),
			})
			continue
		}
		docs = append(docs, rowToDocument(fields, row))
	}
	return docs, problems, nil
}

// mapHeader resolves column names to document fields. When two columns map to the same field
// the first one wins and the later one is ignored and reported against the header line.
func mapHeader(header []string) ([]string, []RowProblem) {
	fields := make([]string, len(header))
	seen := make(map[string]string, len(header))
	var problems []RowProblem
	for idx, column := range header {
		column = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
		field := column
		if canonical, ok := headerAliases[strings.ToLower(column)]; ok {
			field = canonical
		}
		if field == "" {
			continue
		}
		if first, ok := seen[field]; ok {
			problems = append(problems, RowProblem{
				Line:   1,
				Reason: fmt.Sprintf("column %q duplicates %q and is ignored", column, first),
			})
			continue
		}
		seen[field] = column
		fields[idx] = field
	}
	return fields, problems
}

func rowToDocument(fields, row []string) bson.M {
	doc := bson.M{}
	for idx, field := range fields {
		value := strings.TrimSpace(row[idx])
		if field == "" || value == "" {
			continue
		}
		if field == "createdAt" {
			if ts, ok := model.ParseTimestamp(value); ok {
				doc[field] = ts
				continue
			}
		}
		doc[field] = value
	}
	return doc
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
