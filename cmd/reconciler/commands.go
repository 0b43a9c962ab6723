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
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/joyfund/waitlist-reconciler/internal/system/config"
	"github.com/joyfund/waitlist-reconciler/internal/system/constants"
	"github.com/joyfund/waitlist-reconciler/internal/system/database/client"
	"github.com/joyfund/waitlist-reconciler/internal/system/database/lock"
	"github.com/joyfund/waitlist-reconciler/internal/system/database/provider"
	"github.com/joyfund/waitlist-reconciler/internal/system/log"
	"github.com/joyfund/waitlist-reconciler/internal/system/metrics"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/importer"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/service"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/store"
)

func newReconcileCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Merge waitlist sources into the canonical collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReconcile(cmd.Context(), dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be inserted without writing")
	return cmd
}

func newImportCommand() *cobra.Command {
	var collection string
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load a CSV export of signups into a waitlist source collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], collection)
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "csv_waitlist", "target source collection")
	return cmd
}

func runReconcile(ctx context.Context, dryRun bool) error {
	conf := config.GetRuntime().Config
	logger := log.GetLogger()

	dbClient, err := provider.NewDBProvider().GetDBClient(ctx)
	if err != nil {
		return err
	}
	defer closeClient(dbClient)

	db := dbClient.Database()
	var waitlistStore store.WaitlistStoreInterface = store.NewWaitlistStore(db, conf.Waitlist.CanonicalCollection, conf.MongoDB.Timeout)
	if dryRun {
		waitlistStore = store.NewDryRunStore(waitlistStore)
	}
	runLock := lock.NewMongoLock(db.Collection(constants.LocksCollection))

	report, runErr := service.GetReconcilerService(waitlistStore, runLock, dryRun).Run(ctx)
	if report != nil && !report.Skipped && conf.Metrics.PushGatewayURL != "" {
		m := metrics.NewRunMetrics()
		m.Observe(report)
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.Push(pushCtx, conf.Metrics.PushGatewayURL, conf.Metrics.Job); err != nil {
			logger.Warn("Failed to push reconcile metrics", log.Error(err))
		}
	}
	if report != nil && !report.Skipped {
		printSummary(os.Stdout, report)
	}
	return runErr
}

// printSummary writes one line per source, including sources that failed, and the totals.
func printSummary(w io.Writer, report *model.Report) {
	for _, s := range report.Sources {
		line := fmt.Sprintf("%-32s fetched=%d inserted=%d existing=%d failed=%d",
			s.Source, s.Fetched, s.Inserted, s.Existing, s.Failed)
		if s.Err != nil {
			line += fmt.Sprintf(" error=%q", s.Err.Error())
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "total inserted=%d canonical rows=%d\n", report.TotalInserted, report.CanonicalTotal)
}

func runImport(ctx context.Context, path, collection string) error {
	conf := config.GetRuntime().Config
	logger := log.GetLogger()

	dbClient, err := provider.NewDBProvider().GetDBClient(ctx)
	if err != nil {
		return err
	}
	defer closeClient(dbClient)

	waitlistStore := store.NewWaitlistStore(dbClient.Database(), conf.Waitlist.CanonicalCollection, conf.MongoDB.Timeout)
	svc := service.GetReconcilerService(waitlistStore, nil, true)

	report, err := importer.NewCSVImporter(waitlistStore).ImportFile(ctx, path, collection)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d of %d rows into %s\n", report.Imported, report.Rows, report.Collection)

	sources, err := svc.ResolveSources(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(sources, collection) {
		logger.Warn("Imported collection is not a reconcile source; the next run will not read it",
			log.String("collection", collection),
			log.String("keyword", conf.Waitlist.SourceKeyword))
	}
	return nil
}

func closeClient(dbClient client.DBClientInterface) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dbClient.Close(ctx); err != nil {
		log.GetLogger().Warn("Failed to close document store connection", log.Error(err))
	}
}
