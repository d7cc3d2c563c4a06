package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_CountsAndWritesTextfile(t *testing.T) {
	r := NewRecorder()
	r.Acquisition("single", "success")
	r.Attempt("aria2c", "retryable")
	r.Attempt("standard", "none")
	r.Item(true, 2*time.Second)
	r.Item(false, time.Second)

	if got := testutil.ToFloat64(r.attempts.WithLabelValues("aria2c", "retryable")); got != 1 {
		t.Errorf("expected 1 aria2c attempt, got %v", got)
	}
	if got := testutil.ToFloat64(r.items.WithLabelValues("failure")); got != 1 {
		t.Errorf("expected 1 failed item, got %v", got)
	}

	path := filepath.Join(t.TempDir(), "shadowbox.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "shadowbox_acquisitions_total") {
		t.Errorf("textfile missing acquisitions counter:\n%s", data)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.Acquisition("single", "success")
	r.Placement()
	r.Item(true, time.Second)
	if err := r.WriteTextfile("/nonexistent/dir/file.prom"); err != nil {
		t.Errorf("nil recorder must not write, got %v", err)
	}
}
