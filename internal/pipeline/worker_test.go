package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docpart/internal/config"
	"github.com/dgallion1/docpart/internal/inline"
	"github.com/dgallion1/docpart/internal/parser"
	"github.com/dgallion1/docpart/internal/render"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestWorker_ConvertsMarkdownToJSON(t *testing.T) {
	stats := NewStats(time.Hour)
	w := NewWorker(WorkerConfig{ValidateOutput: true}, stats, testLogger())
	job := NewJob("notes.md", render.FormatJSON, []byte("# Hi\n\nSome *bold* text.\n"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors: %v)", StatusCompleted, snap.Status, snap.Errors)
	}
	if snap.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", snap.Title)
	}
	if snap.Partitions["h1"] != 1 || snap.Partitions["bold"] != 1 {
		t.Errorf("unexpected partition counts: %v", snap.Partitions)
	}

	res := job.Result()
	if res.ContentType != "application/json" {
		t.Errorf("expected json content type, got %q", res.ContentType)
	}
	var out struct {
		Title      string           `json:"title"`
		Partitions []map[string]any `json:"partitions"`
	}
	if err := json.Unmarshal(res.Data, &out); err != nil {
		t.Fatalf("invalid json result: %v", err)
	}
	if len(out.Partitions) != 2 {
		t.Errorf("expected 2 partitions, got %d", len(out.Partitions))
	}
	if stats.Snapshot().Count != 1 {
		t.Errorf("expected 1 latency sample, got %d", stats.Snapshot().Count)
	}
}

func TestWorker_RendersHTML(t *testing.T) {
	w := NewWorker(WorkerConfig{}, nil, testLogger())
	job := NewJob("page.txt", render.FormatHTML, []byte("go to [docs](http://d)"))

	w.Process(context.Background(), job)

	res := job.Result()
	if res == nil {
		t.Fatalf("expected result, errors: %v", job.Snapshot().Errors)
	}
	if !strings.Contains(string(res.Data), `<a href="http://d">docs</a>`) {
		t.Errorf("expected rendered link, got %s", res.Data)
	}
}

func TestWorker_UnsupportedExtensionFails(t *testing.T) {
	stats := NewStats(time.Hour)
	w := NewWorker(WorkerConfig{}, stats, testLogger())
	job := NewJob("sheet.xlsx", render.FormatJSON, []byte("x"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if snap.Phase != "parsing" {
		t.Errorf("expected failure in phase %q, got %q", "parsing", snap.Phase)
	}
	if len(snap.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", snap.Errors)
	}
	if stats.Snapshot().Failures != 1 {
		t.Errorf("expected 1 recorded failure, got %d", stats.Snapshot().Failures)
	}
}

func TestWorker_NestingLimitFails(t *testing.T) {
	cfg := WorkerConfig{Parser: parser.Config{Inline: inline.New(inline.WithMaxDepth(0))}}
	w := NewWorker(cfg, nil, testLogger())
	job := NewJob("deep.txt", render.FormatJSON, []byte("*_deep_*"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if len(snap.Errors) == 0 || !strings.Contains(snap.Errors[0], "nesting too deep") {
		t.Errorf("expected nesting error, got %v", snap.Errors)
	}
}

func TestWorker_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorker(WorkerConfig{}, nil, testLogger())
	job := NewJob("a.txt", render.FormatJSON, []byte("x"))
	w.Process(ctx, job)

	if snap := job.Snapshot(); snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
}

func testConfig() config.Config {
	return config.Config{
		WorkerCount:     2,
		MaxQueueSize:    4,
		JobTTL:          time.Hour,
		MaxNestingDepth: inline.DefaultMaxDepth,
		RenderWidth:     80,
		ValidateOutput:  true,
	}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	o := NewOrchestrator(testConfig(), testLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("a.txt", render.FormatText, []byte("hello *world*"))
	if got, err := o.Submit(job); err != nil || got != job {
		t.Fatalf("expected job to be queued, got %v, %v", got, err)
	}
	if o.GetJob(job.ID) != job {
		t.Fatal("expected job to be tracked")
	}

	deadline := time.Now().Add(5 * time.Second)
	for job.Snapshot().Status != StatusCompleted {
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, status %q", job.Snapshot().Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := string(job.Result().Data); got != "hello world\n" {
		t.Errorf("expected %q, got %q", "hello world\n", got)
	}
	if o.Stats().Snapshot().Count != 1 {
		t.Errorf("expected 1 latency sample, got %d", o.Stats().Snapshot().Count)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, testLogger()) // not started, so nothing drains the queue

	if _, err := o.Submit(NewJob("a.txt", render.FormatJSON, nil)); err != nil {
		t.Fatalf("unexpected error for first job: %v", err)
	}
	second := NewJob("b.txt", render.FormatJSON, nil)
	_, err := o.Submit(second)
	if err == nil || !strings.Contains(err.Error(), ErrQueueFull.Error()) {
		t.Fatalf("expected queue full error, got %v", err)
	}
	if second.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", second.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestrator_ReusesDuplicateUpload(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, testLogger())

	first := NewJob("a.md", render.FormatHTML, []byte("*same*"))
	if _, err := o.Submit(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := o.Submit(NewJob("a.md", render.FormatHTML, []byte("*same*")))
	if err != nil {
		t.Fatalf("expected duplicate to bypass the full queue, got %v", err)
	}
	if got != first {
		t.Errorf("expected duplicate to reuse job %s, got %s", first.ID, got.ID)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}

	// A different format is a different conversion.
	other, err := o.Submit(NewJob("a.md", render.FormatText, []byte("*same*")))
	if other == first {
		t.Error("expected a new job for a different format")
	}
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected queue full error, got %v", err)
	}

	// Failed jobs are never reused.
	retry, _ := o.Submit(NewJob("a.md", render.FormatText, []byte("*same*")))
	if retry == other {
		t.Error("expected failed job to be replaced by a new one")
	}
}
