package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docpart/internal/parser"
	"github.com/dgallion1/docpart/internal/partition"
	"github.com/dgallion1/docpart/internal/render"
)

// WorkerConfig holds the settings a Worker needs for each conversion.
type WorkerConfig struct {
	Parser         parser.Config
	ValidateOutput bool
	RenderWidth    int
}

// Worker processes a single document job.
type Worker struct {
	cfg   WorkerConfig
	stats *Stats
	log   *slog.Logger
}

func NewWorker(cfg WorkerConfig, stats *Stats, log *slog.Logger) *Worker {
	return &Worker{cfg: cfg, stats: stats, log: log}
}

// Process parses the job's file, checks the exported records and renders
// them in the requested format.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename, "format", job.Format)
	start := time.Now()
	err := w.convert(ctx, job, log)
	if w.stats != nil {
		w.stats.Record(time.Since(start).Milliseconds(), err != nil)
	}
	if err != nil {
		log.Error("conversion failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, job.Snapshot().Phase)
		return
	}
	log.Info("conversion complete", "duration_ms", time.Since(start).Milliseconds())
}

func (w *Worker) convert(ctx context.Context, job *Job, log *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.cfg.Parser)
	if err != nil {
		return err
	}
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	job.SetTitle(doc.Title)

	counts := make(map[string]int)
	for typ, n := range doc.Stats() {
		counts[string(typ)] = n
	}
	job.SetCounts(counts)
	log.Info("parsed document", "partitions", len(doc.Partitions))

	records := doc.Records()
	if w.cfg.ValidateOutput {
		if err := partition.ValidateRecords(records); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Phase 2: Render
	job.SetStatus(StatusRendering, "rendering")
	var buf bytes.Buffer
	opts := render.Options{Title: doc.Title, Width: w.cfg.RenderWidth}
	if err := render.Render(&buf, job.Format, records, opts); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	job.SetResult(&Result{
		Format:      job.Format,
		ContentType: job.Format.ContentType(),
		Data:        buf.Bytes(),
	})
	return nil
}
