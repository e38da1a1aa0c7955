// Package nodelink renders the cell graph of an event as a node-link diagram.
//
// # Overview
//
// Every cell becomes a node labelled with its doublet index and automaton
// level, and every outer-neighbor link becomes an arrow from the inner cell
// to the outer one. Root cells (level at or above [Options.MinimumLevel])
// are filled so that chain starting points stand out.
//
// # Usage
//
// Convert a grown and evolved graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{MinimumLevel: 2})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: labels also show hit indices and inner (r, z)
//   - MinimumLevel: level from which cells are drawn as roots
//   - HideIsolated: drop cells without any link, which dominate large events
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) so that chains
// read from the beam outwards. The DOT source can be saved and processed
// with external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
