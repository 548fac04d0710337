package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/metrics"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/plane"
	"github.com/Iron-Ham/ctsort/internal/recording"
	"github.com/Iron-Ham/ctsort/internal/testutil"
)

var (
	md1 = recording.ID{Set: "MD1", Number: 1}
	md2 = recording.ID{Set: "MD2", Number: 1}
)

func newTestPipeline(t *testing.T, layout recording.Layout, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(Config{
		Reader:     testutil.FixtureReader{},
		Classifier: orientation.CrossProduct{},
		Layout:     layout,
	}, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestNew_Validation(t *testing.T) {
	layout := recording.Layout{InputRoot: "/in", OutputRoot: "/out"}
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing reader",
			cfg:     Config{Classifier: orientation.CrossProduct{}, Layout: layout},
			wantErr: "Reader is required",
		},
		{
			name:    "missing classifier",
			cfg:     Config{Reader: testutil.FixtureReader{}, Layout: layout},
			wantErr: "Classifier is required",
		},
		{
			name:    "missing output root",
			cfg:     Config{Reader: testutil.FixtureReader{}, Classifier: orientation.CrossProduct{}, Layout: recording.Layout{InputRoot: "/in"}},
			wantErr: "input and output roots",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	p := newTestPipeline(t, testutil.NewLayout(t))
	if p.RunID() == "" {
		t.Error("expected a generated run ID")
	}
	for _, s := range AllStages() {
		if !p.enabled[s] {
			t.Errorf("stage %s not enabled by default", s)
		}
	}

	p = newTestPipeline(t, testutil.NewLayout(t), WithRunID("run-1"))
	if p.RunID() != "run-1" {
		t.Errorf("RunID = %q, want run-1", p.RunID())
	}
}

func TestRun_AllStages(t *testing.T) {
	layout := testutil.NewLayout(t)
	testutil.WriteRecording(t, layout, md1, testutil.MixedRecording())

	result, err := newTestPipeline(t, layout).Run(context.Background(), []recording.ID{md1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Recordings) != 1 || result.Failed() != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	rec := result.Recordings[0]
	if rec.Summary == nil || rec.Summary.Success() != 9 || rec.Summary.MissingLabels != 1 {
		t.Errorf("Summary = %+v", rec.Summary)
	}
	if rec.Validation == nil || !rec.Validation.Consistent() {
		t.Errorf("Validation = %+v, want consistent", rec.Validation)
	}

	wantCounts := map[plane.Plane]int{plane.Axial: 5, plane.Coronal: 2, plane.Sagittal: 3}
	for p, n := range wantCounts {
		if rec.Counts[p] != n {
			t.Errorf("Counts[%s] = %d, want %d", p, rec.Counts[p], n)
		}
	}

	if len(rec.Shapes) != 3 {
		t.Fatalf("Shapes = %v, want 3 planes", rec.Shapes)
	}
	for _, set := range rec.Shapes {
		if !set.Uniform() {
			t.Errorf("%s shapes not uniform: %s", set.Plane, set)
		}
	}

	if _, err := os.Stat(filepath.Join(layout.OutputDir(md1), recording.LockFileName)); !os.IsNotExist(err) {
		t.Errorf("run lock left behind: %v", err)
	}

	log, err := os.ReadFile(layout.LogPath(md1))
	if err != nil {
		t.Fatalf("failed to read log artifact: %v", err)
	}
	for _, want := range []string{
		"Validating the orientation of the categorized slices",
		"Validating number of slices per plane",
		"Inspecting volume shapes per plane",
	} {
		if !strings.Contains(string(log), want) {
			t.Errorf("log artifact missing %q", want)
		}
	}
}

func TestRun_ContinuesAfterFailedRecording(t *testing.T) {
	layout := testutil.NewLayout(t)
	testutil.WriteRecording(t, layout, md2, testutil.MixedRecording())

	var buf bytes.Buffer
	logger := logging.NewWriterLogger(&buf, logging.LevelDebug)
	result, err := newTestPipeline(t, layout, WithLogger(logger)).Run(context.Background(), []recording.ID{md1, md2})
	if err == nil {
		t.Fatal("expected error for missing recording")
	}
	if !errors.Is(err, errors.ErrRecordingNotFound) {
		t.Errorf("error = %v, want ErrRecordingNotFound", err)
	}
	if !strings.Contains(err.Error(), "MD1/recording1") {
		t.Errorf("error %q does not name the recording", err)
	}

	if len(result.Recordings) != 2 || result.Failed() != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Recordings[1].Summary == nil || result.Recordings[1].Summary.Total != 10 {
		t.Errorf("second recording not processed: %+v", result.Recordings[1])
	}
	if _, err := os.Stat(layout.OutputDir(md1)); !os.IsNotExist(err) {
		t.Errorf("output created for missing recording: %v", err)
	}

	// A missing recording is reported at the severity of its error.
	entries, err := logging.ParseEntries(&buf)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	var level string
	for _, e := range entries {
		if e.Message == "recording not found" && e.Recording == md1.Name() {
			level = e.Level
		}
	}
	if level != logging.LevelWarn {
		t.Errorf("recording not found logged at %q, want %q", level, logging.LevelWarn)
	}
}

func TestRun_LockedRecording(t *testing.T) {
	layout := testutil.NewLayout(t)
	testutil.WriteRecording(t, layout, md1, testutil.MixedRecording())

	outDir := layout.OutputDir(md1)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(recording.Lock{RunID: "other", PID: os.Getpid(), StartedAt: time.Now()})
	if err := os.WriteFile(filepath.Join(outDir, recording.LockFileName), data, 0644); err != nil {
		t.Fatal(err)
	}

	result, err := newTestPipeline(t, layout).Run(context.Background(), []recording.ID{md1})
	if !errors.Is(err, errors.ErrRecordingLocked) {
		t.Fatalf("error = %v, want ErrRecordingLocked", err)
	}
	if result.Recordings[0].Summary != nil {
		t.Error("locked recording should not be categorized")
	}
	if _, err := os.Stat(filepath.Join(outDir, recording.LockFileName)); err != nil {
		t.Errorf("foreign lock removed: %v", err)
	}
}

func TestRun_StagesWithoutCategorize(t *testing.T) {
	layout := testutil.NewLayout(t)
	testutil.WriteRecording(t, layout, md1, testutil.MixedRecording())

	p := newTestPipeline(t, layout, WithStages(StageCount))
	if _, err := p.Run(context.Background(), []recording.ID{md1}); !errors.Is(err, errors.ErrRecordingNotFound) {
		t.Fatalf("error = %v, want ErrRecordingNotFound before categorization", err)
	}

	if _, err := newTestPipeline(t, layout, WithStages(StageCategorize)).Run(context.Background(), []recording.ID{md1}); err != nil {
		t.Fatalf("categorize failed: %v", err)
	}

	result, err := p.Run(context.Background(), []recording.ID{md1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	rec := result.Recordings[0]
	if rec.Summary != nil || rec.Validation != nil || rec.Shapes != nil {
		t.Errorf("stages ran that were not selected: %+v", rec)
	}
	if rec.Counts[plane.Axial] != 5 {
		t.Errorf("Counts[axial] = %d, want 5", rec.Counts[plane.Axial])
	}
}

func TestRun_Cancelled(t *testing.T) {
	layout := testutil.NewLayout(t)
	testutil.WriteRecording(t, layout, md1, testutil.MixedRecording())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestPipeline(t, layout).Run(ctx, []recording.ID{md1, md2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(result.Recordings) != 0 {
		t.Errorf("processed %d recordings after cancellation", len(result.Recordings))
	}
}

func TestRun_Metrics(t *testing.T) {
	layout := testutil.NewLayout(t)
	testutil.WriteRecording(t, layout, md1, testutil.MixedRecording())

	rec := metrics.NewRecorder()
	textfile := filepath.Join(t.TempDir(), "ctsort.prom")
	p := newTestPipeline(t, layout, WithMetrics(rec), WithTextfile(textfile))
	if _, err := p.Run(context.Background(), []recording.ID{md1, md2}); err == nil {
		t.Fatal("expected error for missing MD2 recording")
	}

	want := strings.NewReader(`
# HELP ctsort_recordings_total Recordings processed by result
# TYPE ctsort_recordings_total counter
ctsort_recordings_total{result="failed"} 1
ctsort_recordings_total{result="ok"} 1
`)
	if err := promtest.GatherAndCompare(rec.Registry(), want, "ctsort_recordings_total"); err != nil {
		t.Error(err)
	}

	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("textfile not written: %v", err)
	}
	if !strings.Contains(string(data), `ctsort_slices_total{outcome="success",set="MD1"} 9`) {
		t.Errorf("textfile missing slice counts:\n%s", data)
	}
}
