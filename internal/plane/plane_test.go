package plane

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		plane Plane
		want  bool
	}{
		{Axial, true},
		{Coronal, true},
		{Sagittal, true},
		{Unknown, false},
		{Invalid, false},
		{Plane(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.plane), func(t *testing.T) {
			if got := tt.plane.Valid(); got != tt.want {
				t.Errorf("Plane(%q).Valid() = %v, want %v", tt.plane, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("coronal")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p != Coronal {
		t.Errorf("Parse(coronal) = %q, want %q", p, Coronal)
	}

	if _, err := Parse("oblique"); err == nil {
		t.Error("expected error for unknown plane name")
	}
}

func TestAllOrder(t *testing.T) {
	all := All()
	want := []Plane{Axial, Coronal, Sagittal}
	if len(all) != len(want) {
		t.Fatalf("All() returned %d planes, want %d", len(all), len(want))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, all[i], want[i])
		}
	}
}
