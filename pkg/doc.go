// Package pkg provides the core libraries for tricktrack track seeding.
//
// # Overview
//
// Tricktrack finds track seeds in the hits of a tracking detector. Every
// doublet (a pair of hits on neighboring layers) becomes a cell. Cells whose
// doublets line up in the transverse and longitudinal planes are linked, a
// cellular automaton assigns every cell the length of the longest chain
// starting at it, and chains of enough hits are extracted as ntuplets.
//
// # Architecture
//
//	event.json (hits + doublets)
//	         ↓
//	    [hits] package (doublet columns)
//	         ↓
//	    [automaton] package (grow → evolve → extract)
//	         ↓
//	    [pipeline] package (defaults, caching, logging, hooks)
//	         ↓
//	    ntuplets as JSON, a table, or a DOT/SVG cell graph
//
// # Quick Start
//
//	d, _ := hits.ImportJSON("event.json")
//
//	g := automaton.NewGraph(d)
//	g.Grow(automaton.Params{PtMin: 0.8, RegionOriginRadius: 0.1, ThetaCut: 0.002, PhiCut: 0.2})
//	g.EvolveUntilStable(0)
//
//	const minHits = 4
//	for _, nt := range g.FindNtuplets(g.Roots(minHits-2), minHits) {
//	    fmt.Println(nt.Hits(g.Cells))
//	}
//
// # Main Packages
//
// [hits] - Hits, doublets and the event JSON format.
//
// [automaton] - Cells, the compatibility cuts, graph growth, the automaton
// update and chain extraction, sequential and parallel.
//
// [pipeline] - The complete run used by the CLI and the HTTP API.
//
// [render/nodelink] - Cell graph diagrams using Graphviz.
//
// [cache] - Result caching with file, Redis and null backends.
//
// [store] - Run storage for the HTTP API, in memory or in MongoDB.
//
// [config] - TOML configuration.
//
// [observability] - Hook registry, with Prometheus metrics in
// [observability/prom].
//
// [errors] - Error codes shared by the CLI and the HTTP API.
//
// [hits]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/hits
// [automaton]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/automaton
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/pipeline
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/tricktrack/pkg/errors
package pkg
