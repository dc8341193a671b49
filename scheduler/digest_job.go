package scheduler

import (
	"context"
	"fmt"

	"cine-lens/catalog"
	"cine-lens/report"
)

// DigestJobName is the registered name of the digest job.
const DigestJobName = "catalog_digest"

// DigestNotifier delivers a built dashboard.
type DigestNotifier interface {
	NotifyDigest(d report.Dashboard) error
}

// DigestJob builds the default dashboard for a catalog and hands it to a notifier.
type DigestJob struct {
	table    *catalog.Table
	notifier DigestNotifier
}

// NewDigestJob creates a digest job over table.
func NewDigestJob(table *catalog.Table, notifier DigestNotifier) *DigestJob {
	return &DigestJob{table: table, notifier: notifier}
}

// Name returns the name of the job
func (j *DigestJob) Name() string {
	return DigestJobName
}

// Run builds and sends the digest.
func (j *DigestJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := report.Build(j.table, report.DefaultFilter(j.table))
	if err := j.notifier.NotifyDigest(d); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	return nil
}
