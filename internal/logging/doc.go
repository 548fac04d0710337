// Package logging provides structured logging for ctsort runs.
//
// Logs are JSON lines written through log/slog to ctsort.log under the
// output root. Each line can carry the run ID, the recording being
// processed, and the pipeline stage, so a single file covering many runs
// can be filtered after the fact with [ReadEntries] and [FilterEntries].
//
// This debug log is separate from the per-recording log.txt artifact,
// which is deterministic and owned by the runlog package.
//
// # Context Propagation
//
//	logger, err := logging.NewLogger(outputRoot, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	recLog := logger.WithRun(runID).WithRecording("MD1/recording3")
//	recLog.WithStage("categorize").Warn("label mismatch", "path", path)
//
// Output:
//
//	{"time":"...","level":"WARN","msg":"label mismatch","run_id":"...","recording":"MD1/recording3","stage":"categorize","path":"..."}
//
// # Rotation
//
// [NewLoggerWithRotation] rotates ctsort.log by size. Backups are named
// ctsort.log.1 (newest) through ctsort.log.N, gzipped when Compress is set.
//
// # Testing
//
// [NopLogger] discards everything; [NewWriterLogger] over a bytes.Buffer
// lets tests assert on emitted entries.
package logging
