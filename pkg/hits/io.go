package hits

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Event is the serialised form of a doublet collection.
type Event struct {
	Hits     []Hit  `json:"hits"`
	Doublets []Pair `json:"doublets"`
}

// Build validates the event and builds the doublet collection.
func (e Event) Build() (*Doublets, error) {
	return NewDoublets(e.Hits, e.Doublets)
}

// EventOf returns the serialisable form of d.
func EventOf(d *Doublets) Event {
	return Event{Hits: d.Hits(), Doublets: d.Pairs()}
}

// ReadJSON decodes an event from r and builds its doublets.
//
// ReadJSON returns an error if the JSON is malformed or a doublet references
// a missing hit. Use errors.Is with [ErrHitIndexOutOfRange] or
// [ErrDegenerateDoublet] to tell validation failures apart. ReadJSON does
// not close r.
func ReadJSON(r io.Reader) (*Doublets, error) {
	var e Event
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return e.Build()
}

// ImportJSON reads an event file at path.
func ImportJSON(path string) (*Doublets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes d as an indented JSON event.
// The output can be read back with [ReadJSON].
func WriteJSON(d *Doublets, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(EventOf(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes d to a JSON file at path.
func ExportJSON(d *Doublets, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}
