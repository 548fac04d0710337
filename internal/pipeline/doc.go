// Package pipeline runs the per-recording stages of ctsort over a list of
// recordings.
//
// # Stages
//
// Each recording passes through up to four stages, always in this order:
//
//	categorize  sort input slices into axial, coronal, and sagittal dirs
//	validate    re-check stored slices against the directory they sit in
//	count       record the number of stored slices per plane
//	inspect     collect the distinct pixel shapes per plane
//
// [WithStages] selects a subset. Without the categorize stage the recording
// must already have categorized output.
//
// # Locking and Failure
//
// A recording is processed under a run lock in its output directory (see
// recording.AcquireLock), so two runs never write the same recording. A
// fatal error stops only the recording it belongs to; the run continues
// with the next one and [Pipeline.Run] joins every recording error.
//
// # Usage
//
//	p, err := pipeline.New(pipeline.Config{
//	    Reader:     dicomread.NewFileReader(),
//	    Classifier: orientation.CrossProduct{},
//	    Layout:     layout,
//	}, pipeline.WithLogger(logger), pipeline.WithMetrics(metrics.NewRecorder()))
//	if err != nil { ... }
//	result, err := p.Run(ctx, recording.IDs(map[string]int{"MD1": 24}))
package pipeline
