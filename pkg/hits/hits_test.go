package hits

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestHitCylindrical(t *testing.T) {
	h := Hit{X: 3, Y: 4, Z: 7}
	if got := h.R(); got != 5 {
		t.Errorf("R() = %v, want 5", got)
	}
	if got := (Hit{X: 0, Y: 2}).Phi(); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("Phi() = %v, want %v", got, math.Pi/2)
	}
}

func TestNewDoublets(t *testing.T) {
	hs := []Hit{{X: 1, Y: 0, Z: 1}, {X: 2, Y: 0, Z: 2}, {X: 0, Y: 3, Z: 3}}
	d, err := NewDoublets(hs, []Pair{{Inner: 0, Outer: 1}, {Inner: 1, Outer: 2}})
	if err != nil {
		t.Fatalf("NewDoublets() error: %v", err)
	}

	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if got := d.R(1, Outer); got != 3 {
		t.Errorf("R(1, Outer) = %v, want 3", got)
	}
	if got := d.Z(0, Inner); got != 1 {
		t.Errorf("Z(0, Inner) = %v, want 1", got)
	}
	if got := d.HitIndex(1, Inner); got != 1 {
		t.Errorf("HitIndex(1, Inner) = %d, want 1", got)
	}
	if got := d.Hit(1, Outer); got != hs[2] {
		t.Errorf("Hit(1, Outer) = %v, want %v", got, hs[2])
	}

	// The source keeps its own copy of the hits.
	hs[0].X = 100
	if got := d.X(0, Inner); got != 1 {
		t.Errorf("X(0, Inner) after caller mutation = %v, want 1", got)
	}
}

func TestNewDoubletsErrors(t *testing.T) {
	hs := []Hit{{X: 1}, {X: 2}}
	tests := []struct {
		name  string
		pairs []Pair
		want  error
	}{
		{"inner out of range", []Pair{{Inner: 5, Outer: 1}}, ErrHitIndexOutOfRange},
		{"outer negative", []Pair{{Inner: 0, Outer: -1}}, ErrHitIndexOutOfRange},
		{"same hit", []Pair{{Inner: 1, Outer: 1}}, ErrDegenerateDoublet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDoublets(hs, tt.pairs)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewDoublets() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	in := `{"hits":[{"x":1,"y":0,"z":0},{"x":2,"y":0,"z":1}],"doublets":[{"inner":0,"outer":1}]}`
	d, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
	if got := d.R(0, Outer); got != 2 {
		t.Errorf("R(0, Outer) = %v, want 2", got)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("ReadJSON() should fail on malformed input")
	}
	in := `{"hits":[{"x":1}],"doublets":[{"inner":0,"outer":3}]}`
	if _, err := ReadJSON(strings.NewReader(in)); !errors.Is(err, ErrHitIndexOutOfRange) {
		t.Errorf("ReadJSON() error = %v, want ErrHitIndexOutOfRange", err)
	}
}

func TestExportImportJSON(t *testing.T) {
	d, err := NewDoublets([]Hit{{X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}, []Pair{{Inner: 0, Outer: 1}})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"doublets"`) {
		t.Errorf("WriteJSON() output missing doublets: %s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "event.json")
	if err := ExportJSON(d, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if got.Len() != 1 || got.Hit(0, Outer) != d.Hit(0, Outer) {
		t.Errorf("ImportJSON() = %+v, want %+v", got.Pairs(), d.Pairs())
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON() should fail for a missing file")
	}
}
