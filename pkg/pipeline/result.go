package pipeline

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/tricktrack/pkg/automaton"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// EventHash is the content hash of the input event.
	EventHash string `json:"event_hash"`

	// Ntuplets are the extracted chains, grouped by root in ascending root
	// order. In triplets-only mode every entry has two cells.
	Ntuplets []Track `json:"ntuplets"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheHit reports whether the result came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// Track is one chain, as cell indices and as the hit indices they cover.
// Hits has one more entry than Cells.
type Track struct {
	Cells automaton.Ntuplet `json:"cells"`
	Hits  []int             `json:"hits"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cells      int `json:"cells"`
	Edges      int `json:"edges"`
	Iterations int `json:"iterations"`
	Roots      int `json:"roots"`
	Ntuplets   int `json:"ntuplets"`

	GrowTime    time.Duration `json:"grow_ns"`
	EvolveTime  time.Duration `json:"evolve_ns"`
	ExtractTime time.Duration `json:"extract_ns"`
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.GrowTime + s.EvolveTime + s.ExtractTime
}

// tracks pairs every chain with its hit indices.
func tracks(cells []automaton.Cell, found []automaton.Ntuplet) []Track {
	out := make([]Track, len(found))
	for i, nt := range found {
		out[i] = Track{Cells: nt, Hits: nt.Hits(cells)}
	}
	return out
}

// MarshalResult encodes a result as JSON.
func MarshalResult(r *Result) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalResult decodes a result produced by MarshalResult.
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Ntuplets == nil {
		r.Ntuplets = []Track{}
	}
	return &r, nil
}
