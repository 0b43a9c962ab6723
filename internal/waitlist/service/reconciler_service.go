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
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joyfund/waitlist-reconciler/internal/system/config"
	"github.com/joyfund/waitlist-reconciler/internal/system/constants"
	"github.com/joyfund/waitlist-reconciler/internal/system/database/lock"
	errors2 "github.com/joyfund/waitlist-reconciler/internal/system/errors"
	"github.com/joyfund/waitlist-reconciler/internal/system/log"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/model"
	"github.com/joyfund/waitlist-reconciler/internal/waitlist/store"
)

type ReconcilerServiceInterface interface {
	ResolveSources(ctx context.Context) ([]string, error)
	Run(ctx context.Context) (*model.Report, error)
}

// Options selects the sources of a run. An explicit Sources list takes precedence over
// keyword discovery.
type Options struct {
	Sources       []string
	SourceKeyword string
	Parallelism   int
	DryRun        bool
	Lock          lock.DistributedLock
	LockTTL       time.Duration
}

// ReconcilerService merges waitlist source collections into the canonical collection.
type ReconcilerService struct {
	store    store.WaitlistStoreInterface
	opts     Options
	now      func() time.Time
	newRunID func() string
}

// NewReconcilerService returns a service running against s.
func NewReconcilerService(s store.WaitlistStoreInterface, opts Options) *ReconcilerService {
	if opts.SourceKeyword == "" {
		opts.SourceKeyword = constants.DefaultSourceKeyword
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = constants.DefaultParallelism
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = constants.DefaultLockTTL
	}
	return &ReconcilerService{
		store:    s,
		opts:     opts,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// GetReconcilerService returns a service configured from the runtime configuration.
func GetReconcilerService(s store.WaitlistStoreInterface, l lock.DistributedLock, dryRun bool) ReconcilerServiceInterface {
	waitlistConf := config.GetRuntime().Config.Waitlist
	opts := Options{
		Sources:       waitlistConf.Sources,
		SourceKeyword: waitlistConf.SourceKeyword,
		Parallelism:   waitlistConf.Parallelism,
		DryRun:        dryRun,
		LockTTL:       waitlistConf.LockTTL,
	}
	if waitlistConf.ExclusiveRun && !dryRun {
		opts.Lock = l
	}
	return NewReconcilerService(s, opts)
}

// ResolveSources returns the source collections of a run. The canonical collection is never
// one of them.
func (s *ReconcilerService) ResolveSources(ctx context.Context) ([]string, error) {
	canonical := s.store.CanonicalCollection()
	logger := log.GetLogger()

	if len(s.opts.Sources) > 0 {
		seen := make(map[string]bool, len(s.opts.Sources))
		var sources []string
		for _, name := range s.opts.Sources {
			name = strings.TrimSpace(name)
			if name == canonical {
				logger.Warn("Ignoring canonical collection listed as a source", log.String("collection", name))
				continue
			}
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			sources = append(sources, name)
		}
		return sources, nil
	}

	names, err := s.store.ListCollectionNames(ctx)
	if err != nil {
		return nil, err
	}
	keyword := strings.ToLower(s.opts.SourceKeyword)
	var sources []string
	for _, name := range names {
		if name == canonical {
			continue
		}
		if strings.Contains(strings.ToLower(name), keyword) {
			sources = append(sources, name)
		}
	}
	return sources, nil
}

// Run performs one reconcile. A failing source does not stop the others; the run then
// returns the full report together with an error.
func (s *ReconcilerService) Run(ctx context.Context) (*model.Report, error) {
	report := &model.Report{
		RunID:     s.newRunID(),
		DryRun:    s.opts.DryRun,
		StartedAt: s.now(),
	}
	logger := log.GetLogger().With(log.String("run_id", report.RunID))

	if s.opts.Lock != nil {
		acquired, err := s.opts.Lock.Acquire(ctx, constants.ReconcileLockKey, s.opts.LockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			logger.Info("Another reconcile run holds the lock; skipping", log.String("lock", constants.ReconcileLockKey))
			report.Skipped = true
			report.FinishedAt = s.now()
			return report, nil
		}
		defer s.releaseLock(logger)
	}

	sources, err := s.ResolveSources(ctx)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		logger.Info("No waitlist source collections found; nothing to merge",
			log.String("keyword", s.opts.SourceKeyword))
		report.FinishedAt = s.now()
		return report, nil
	}
	logger.Info("Reconciling waitlist sources",
		log.Any("sources", sources),
		log.String("canonical", s.store.CanonicalCollection()),
		log.Bool("dry_run", s.opts.DryRun))

	if err := s.store.EnsureDedupeIndex(ctx); err != nil {
		return nil, err
	}

	report.Sources = make([]model.SourceReport, len(sources))
	if s.opts.Parallelism == 1 {
		for i, source := range sources {
			report.Sources[i] = s.processSource(ctx, source, logger)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.opts.Parallelism)
		for i, source := range sources {
			i, source := i, source
			g.Go(func() error {
				report.Sources[i] = s.processSource(ctx, source, logger)
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, sourceReport := range report.Sources {
		report.TotalInserted += sourceReport.Inserted
	}

	total, err := s.store.CountCanonical(ctx)
	if err != nil {
		return report, err
	}
	report.CanonicalTotal = total
	report.FinishedAt = s.now()

	logger.Info("Waitlist reconcile finished",
		log.Int("total_inserted", report.TotalInserted),
		log.Int64("canonical_total", report.CanonicalTotal),
		log.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))

	if !s.opts.DryRun && report.TotalInserted > 0 {
		logger.Audit(log.AuditEvent{
			InitiatorID:   "waitlist-reconciler",
			InitiatorType: log.InitiatorTypeSystem,
			TargetID:      s.store.CanonicalCollection(),
			TargetType:    log.TargetTypeCollection,
			ActionID:      log.ActionMergeWaitlist,
			TraceID:       report.RunID,
			Data:          map[string]interface{}{"inserted": report.TotalInserted, "sources": sources},
		})
	}

	if failed := report.FailedSources(); len(failed) > 0 {
		return report, errors2.NewServerErrorf(errors2.RECONCILE_FAILED, firstSourceErr(report.Sources),
			"Sources failed: %s.", strings.Join(failed, ", "))
	}
	return report, nil
}

// processSource merges one source collection. It never returns an error; failures are
// recorded on the report.
func (s *ReconcilerService) processSource(ctx context.Context, source string, logger *log.Logger) model.SourceReport {
	result := model.SourceReport{Source: source}
	logger = logger.With(log.String("source", source))

	docs, err := s.store.FetchDocuments(ctx, source)
	if err != nil {
		logger.Error("Failed to fetch source documents", log.Error(err))
		result.Err = err
		return result
	}
	result.Fetched = len(docs)
	if len(docs) == 0 {
		logger.Info("Source collection is empty; skipping")
		result.Skipped = true
		return result
	}

	now := s.now()
	staged := make(map[string]bool, len(docs))
	records := make([]model.CanonicalRecord, 0, len(docs))
	for _, doc := range docs {
		record := ToCanonical(Normalize(model.FromDocument(doc), now), source)
		if staged[record.DedupeKey] {
			result.DuplicatesInSource++
			continue
		}
		staged[record.DedupeKey] = true
		records = append(records, record)
	}
	result.Staged = len(records)

	summary, err := s.store.InsertIfAbsent(ctx, records)
	if summary != nil {
		result.Inserted = summary.Inserted
		result.Existing = summary.Existing
		result.Failed = summary.Failed
	}
	if err != nil {
		logger.Error("Failed to merge source into canonical collection", log.Error(err))
		result.Err = err
		return result
	}

	logger.Info("Merged source",
		log.Int("fetched", result.Fetched),
		log.Int("duplicates_in_source", result.DuplicatesInSource),
		log.Int("inserted", result.Inserted),
		log.Int("existing", result.Existing),
		log.Int("failed", result.Failed))
	return result
}

func (s *ReconcilerService) releaseLock(logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.Lock.Release(ctx, constants.ReconcileLockKey); err != nil {
		logger.Warn("Failed to release reconcile lock", log.Error(err))
	}
}

func firstSourceErr(sources []model.SourceReport) error {
	for _, s := range sources {
		if s.Err != nil {
			return s.Err
		}
	}
	return nil
}
