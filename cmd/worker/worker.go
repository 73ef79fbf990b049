package main

import (
	"context"
	"time"

	"onghub/internal/config"
	appctx "onghub/internal/core/context"
	"onghub/pkg/logger"
)

const (
	purgeInterval   = time.Hour
	outboxRetention = 7 * 24 * time.Hour
	reportingCheck  = time.Hour
	refetchJob      = "anaf_refetch"
	reportingJob    = "reporting_cycle"
	outboxJob       = "outbox_relay"
	outboxPurgeJob  = "outbox_purge"
)

// OutboxRelay delivers and purges outbox messages.
type OutboxRelay interface {
	ProcessBatch(ctx context.Context) (int, error)
	PurgePublished(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Refetcher reconciles unsynced financial rows with ANAF.
type Refetcher interface {
	RefetchANAFDataForFinancialReports(ctx context.Context) error
}

// ReportingCycle opens a new reporting year for every active organization.
type ReportingCycle interface {
	RunReportingCycle(ctx context.Context) (int, error)
}

// Jobs are the units of work the worker schedules.
type Jobs struct {
	Outbox        OutboxRelay
	Financial     Refetcher
	Organizations ReportingCycle
}

// Worker runs the periodic jobs until its context is cancelled.
type Worker struct {
	jobs Jobs
	cfg  config.WorkerConfig
	log  *logger.Logger
	now  func() time.Time

	// lastCycleYear is the year the reporting cycle last ran in.
	lastCycleYear int
}

func NewWorker(jobs Jobs, cfg config.WorkerConfig, log *logger.Logger) *Worker {
	return &Worker{
		jobs: jobs,
		cfg:  cfg,
		log:  log.WithComponent("worker"),
		now:  time.Now,
	}
}

// Run blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	outboxTicker := time.NewTicker(w.cfg.OutboxPollInterval)
	defer outboxTicker.Stop()

	purgeTicker := time.NewTicker(purgeInterval)
	defer purgeTicker.Stop()

	refetchTicker := time.NewTicker(w.cfg.ANAFRefetchInterval)
	defer refetchTicker.Stop()

	reportingTicker := time.NewTicker(reportingCheck)
	defer reportingTicker.Stop()

	w.reportingCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-outboxTicker.C:
			w.relayOutbox(ctx)
		case <-purgeTicker.C:
			w.purgeOutbox(ctx)
		case <-refetchTicker.C:
			w.refetch(ctx)
		case <-reportingTicker.C:
			w.reportingCycle(ctx)
		}
	}
}

func (w *Worker) relayOutbox(ctx context.Context) {
	ctx = appctx.NewJobTrace(ctx, outboxJob)
	n, err := w.jobs.Outbox.ProcessBatch(ctx)
	if err != nil {
		logger.Error(ctx, "outbox relay failed", "error", err)
		return
	}
	if n > 0 {
		logger.Debug(ctx, "outbox batch delivered", "count", n)
	}
}

func (w *Worker) purgeOutbox(ctx context.Context) {
	ctx = appctx.NewJobTrace(ctx, outboxPurgeJob)
	n, err := w.jobs.Outbox.PurgePublished(ctx, outboxRetention)
	if err != nil {
		logger.Error(ctx, "outbox purge failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info(ctx, "purged published outbox messages", "count", n)
	}
}

func (w *Worker) refetch(ctx context.Context) {
	ctx = appctx.NewJobTrace(ctx, refetchJob)
	start := w.now()
	if err := w.jobs.Financial.RefetchANAFDataForFinancialReports(ctx); err != nil {
		logger.Error(ctx, "ANAF refetch failed", "error", err)
		return
	}
	logger.Info(ctx, "ANAF refetch finished", "duration", w.now().Sub(start).String())
}

func (w *Worker) reportingCycle(ctx context.Context) {
	now := w.now()
	if !reportingDue(now, w.cfg.ReportingCycleMonth, w.cfg.ReportingCycleDay, w.lastCycleYear) {
		return
	}
	ctx = appctx.NewJobTrace(ctx, reportingJob)
	n, err := w.jobs.Organizations.RunReportingCycle(ctx)
	if err != nil {
		logger.Error(ctx, "reporting cycle failed", "error", err)
		return
	}
	w.lastCycleYear = now.Year()
	logger.Info(ctx, "reporting cycle finished", "organizations", n)
}

// reportingDue reports whether the yearly cycle should run at now: on or
// after month/day and not yet run this year. After a restart the cycle runs
// again; organizations that already have the year are skipped.
func reportingDue(now time.Time, month time.Month, day int, lastYear int) bool {
	if lastYear == now.Year() {
		return false
	}
	start := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	return !now.Before(start)
}
