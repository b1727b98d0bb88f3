// Package scanrunner drives queued scans through the analyzer.
package scanrunner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clausegrade/internal/ports"
)

// ScanProcessor performs the scan work for a job's scan id.
type ScanProcessor interface {
	Process(ctx context.Context, scanID string) error
}

// AnalysisProcessor analyzes the scan's URL and stores the result.
type AnalysisProcessor struct {
	Jobs     ports.JobRepository
	Scans    ports.ScanRepository
	Analyzer ports.Analyzer
}

func (p AnalysisProcessor) Process(ctx context.Context, scanID string) error {
	scan, err := p.Scans.Get(ctx, scanID)
	if err != nil {
		return err
	}
	if err := p.Jobs.UpdateScanProgress(ctx, scanID, 0.1); err != nil {
		return err
	}
	a, err := p.Analyzer.Analyze(ctx, ports.AnalysisRequest{URL: scan.URL})
	if err != nil {
		return fmt.Errorf("scan %s: %w", scanID, err)
	}
	if err := p.Jobs.UpdateScanProgress(ctx, scanID, 0.9); err != nil {
		return err
	}
	if err := p.Scans.SaveResult(ctx, scanID, a.Result); err != nil {
		return err
	}
	return p.Jobs.UpdateScanProgress(ctx, scanID, 1.0)
}

// Run starts worker goroutines that claim jobs and process them. It returns
// immediately; workers stop when ctx is cancelled.
func Run(ctx context.Context, repo ports.JobRepository, processor ScanProcessor, concurrency int, pollInterval time.Duration, log *slog.Logger) {
	if concurrency < 1 {
		return
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "scanrunner")
	jobsCh := make(chan ports.ScanJob, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		defer close(jobsCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						if ctx.Err() == nil {
							log.Error("job claim failed", "error", err)
						}
						break
					}
					if !found {
						break
					}
					select {
					case jobsCh <- job:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	// workers
	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for job := range jobsCh {
				if err := processor.Process(ctx, job.ScanID); err != nil {
					_ = repo.MarkFailed(ctx, job.ID, err.Error())
					log.Warn("job failed", "worker", idx, "job_id", job.ID, "scan_id", job.ScanID, "error", err)
					continue
				}
				if err := repo.MarkCompleted(ctx, job.ID); err != nil {
					log.Error("job completion failed", "worker", idx, "job_id", job.ID, "error", err)
				}
			}
		}(i)
	}
}

// ProcessInline starts and processes a specific scan synchronously using the same processor logic
// as the background workers. It marks the job as running, calls processor.Process, and completes or fails.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor ScanProcessor, scanID string) error {
	jobID, err := repo.StartJobForScan(ctx, scanID)
	if err != nil {
		return err
	}
	if err := processor.Process(ctx, scanID); err != nil {
		_ = repo.MarkFailed(context.WithoutCancel(ctx), jobID, err.Error())
		return err
	}
	return repo.MarkCompleted(ctx, jobID)
}
