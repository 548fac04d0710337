package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// SliceError Tests
// -----------------------------------------------------------------------------

func TestNewSliceError(t *testing.T) {
	err := NewSliceError("cannot read header", ErrCorruptSlice)

	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
	if !errors.Is(err, ErrCorruptSlice) {
		t.Error("expected errors.Is(err, ErrCorruptSlice)")
	}
}

func TestSliceError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SliceError
		want string
	}{
		{
			name: "no context",
			err:  NewSliceError("cannot read header", nil),
			want: "slice error: cannot read header",
		},
		{
			name: "path and cause",
			err:  NewSliceError("cannot read header", ErrCorruptSlice).WithPath("s001.dcm"),
			want: "slice error [path=s001.dcm]: cannot read header: slice file is corrupt",
		},
		{
			name: "recording and path",
			err:  NewSliceError("missing orientation", ErrAttributeMissing).WithRecording("MD1/recording3").WithPath("s002.dcm"),
			want: "slice error [recording=MD1/recording3, path=s002.dcm]: missing orientation: slice attribute missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSliceError_As(t *testing.T) {
	wrapped := fmt.Errorf("categorize: %w", NewSliceError("bad", ErrCorruptSlice).WithPath("x.dcm"))

	var sliceErr *SliceError
	if !As(wrapped, &sliceErr) {
		t.Fatal("expected errors.As to find SliceError")
	}
	if sliceErr.Path != "x.dcm" {
		t.Errorf("Path = %q, want %q", sliceErr.Path, "x.dcm")
	}
}

// -----------------------------------------------------------------------------
// RecordingError Tests
// -----------------------------------------------------------------------------

func TestRecordingError_Error(t *testing.T) {
	err := NewRecordingError("cannot create plane directory", ErrDirectoryUnavailable).
		WithRecording("MD1", 3).
		WithDir("/out/MD1/recording3/axial")

	want := "recording error [recording=MD1/recording3, dir=/out/MD1/recording3/axial]: cannot create plane directory: output directory unavailable"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityError)
	}
	if !Is(err, &RecordingError{}) {
		t.Error("expected Is to match *RecordingError")
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("recording set", "MD3")
	if got := err.Error(); got != "recording set 'MD3' not found" {
		t.Errorf("Error() = %q", got)
	}

	withCause := NewNotFoundError("recording", "MD1/recording9").WithCause(ErrRecordingNotFound)
	if !Is(withCause, ErrRecordingNotFound) {
		t.Error("expected cause to be matched")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("recording number out of range").WithField("recording").WithValue(30)

	want := "validation error [field=recording, value=30]: recording number out of range"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsSkippable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"corrupt", NewSliceError("x", ErrCorruptSlice), true},
		{"missing attribute", fmt.Errorf("read: %w", ErrAttributeMissing), true},
		{"directory", ErrDirectoryUnavailable, false},
		{"plain", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSkippable(tt.err); got != tt.want {
				t.Errorf("IsSkippable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"directory", NewRecordingError("mkdir", ErrDirectoryUnavailable), true},
		{"locked", fmt.Errorf("acquire: %w", ErrRecordingLocked), true},
		{"not found", ErrRecordingNotFound, true},
		{"corrupt slice", NewSliceError("x", ErrCorruptSlice), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	if GetSeverity(nil) != SeverityDebug {
		t.Error("nil error should have debug severity")
	}
	if GetSeverity(New("plain")) != SeverityError {
		t.Error("plain error should default to error severity")
	}
	if GetSeverity(NewSliceError("x", nil).WithSeverity(SeverityInfo)) != SeverityInfo {
		t.Error("WithSeverity should override")
	}
}

func TestGetSeverity_Wrapped(t *testing.T) {
	err := fmt.Errorf("MD1/recording1: %w", NewNotFoundError("recording directory", "/in/MD1/recording1"))
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want %v", GetSeverity(err), SeverityWarning)
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "context") != nil {
		t.Error("Wrapf(nil) should be nil")
	}
	err := Wrapf(ErrCorruptSlice, "reading %s", "a.dcm")
	if err.Error() != "reading a.dcm: slice file is corrupt" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !Is(err, ErrCorruptSlice) {
		t.Error("Wrapf should preserve the chain")
	}
}
