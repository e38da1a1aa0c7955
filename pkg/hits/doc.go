// Package hits holds measurement points and the doublets built from them.
//
// A [Hit] is a single spatial measurement in a layered detector. A doublet
// pairs an inner and an outer hit on adjacent layers. [Doublets] stores the
// pairs as indices into a hit slice and precomputes the per-side geometric
// attributes (x, y, z, cylindrical radius, azimuth) consumed by the
// cellular automaton in package automaton.
//
// # Data Format
//
// Events are exchanged as JSON:
//
//	{
//	  "hits": [{"x": 1.0, "y": 0.0, "z": 0.5}, {"x": 2.0, "y": 0.1, "z": 1.0}],
//	  "doublets": [{"inner": 0, "outer": 1}]
//	}
//
// Use [ReadJSON] and [WriteJSON] for streams, [ImportJSON] and [ExportJSON]
// for files.
//
// Doublets are read-only once built and safe for concurrent readers.
package hits
