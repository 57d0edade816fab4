package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DOCPART_API_KEY", "WORKER_COUNT", "MAX_QUEUE_SIZE",
		"MAX_UPLOAD_BYTES", "JOB_TTL", "MAX_NESTING_DEPTH", "RENDER_WIDTH",
		"VALIDATE_OUTPUT", "PDF_FALLBACK_PDFTOTEXT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("expected 4 workers and queue 100, got %d and %d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.MaxUploadBytes != 10485760 {
		t.Errorf("expected 10MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
	if cfg.MaxNestingDepth != 32 || cfg.RenderWidth != 80 {
		t.Errorf("expected depth 32 and width 80, got %d and %d", cfg.MaxNestingDepth, cfg.RenderWidth)
	}
	if !cfg.ValidateOutput || !cfg.PDFFallbackPdftotext {
		t.Error("expected output validation and pdftotext fallback on by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("JOB_TTL", "5m")
	t.Setenv("MAX_NESTING_DEPTH", "0")
	t.Setenv("RENDER_WIDTH", "-3")
	t.Setenv("VALIDATE_OUTPUT", "false")

	cfg := Load()
	if cfg.WorkerCount != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 5*time.Minute {
		t.Errorf("expected 5m TTL, got %v", cfg.JobTTL)
	}
	if cfg.MaxNestingDepth != 0 {
		t.Errorf("expected depth 0 to be kept, got %d", cfg.MaxNestingDepth)
	}
	if cfg.RenderWidth != 80 {
		t.Errorf("expected invalid width to fall back to 80, got %d", cfg.RenderWidth)
	}
	if cfg.ValidateOutput {
		t.Error("expected output validation off")
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("DOCPART_API_KEY", "")
	cfg := Load()
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DOCPART_API_KEY is required") {
		t.Fatalf("expected missing key error, got %v", err)
	}

	cfg.DocpartAPIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.WorkerCount = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero workers")
	}
}
