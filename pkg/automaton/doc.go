// Package automaton implements the cellular automaton that chains doublets
// into candidate trajectories.
//
// # Overview
//
// Every doublet of a [hits.Source] becomes a [Cell]. Cells are stored in a
// stable slice and refer to each other by index: a cell's outer neighbors
// are the cells whose inner hit is this cell's outer hit and that passed the
// geometric compatibility tests. The mutable automaton state lives in a
// parallel slice of [Status] values so that one generation can read every
// cell's previous state before any cell's state is written.
//
// A typical round:
//
//  1. Grow: for each cell, test the cells ending on its inner hit with
//     [Cell.CheckAlignmentAndTag] (or [Graph.Grow]).
//  2. Evolve: call [Graph.Evolve] until it reports no change.
//  3. Extract: choose roots with [Status.IsRootCell] and enumerate chains of
//     a fixed length with [Cell.FindNtuplets].
//
// When only triplets are wanted, step 1 can emit them directly with
// [Cell.CheckAlignmentAndPushTriplet] and steps 2 and 3 are skipped.
//
// # Compatibility
//
// Two cells chain when their three hits are aligned in the r-z plane
// ([Cell.AreAlignedRZ]) and lie on a circle in the x-y plane that is
// compatible with the beam region ([Cell.HaveSimilarCurvature]).
//
// # Concurrency
//
// The core never blocks and holds no locks. [Cell.Evolve] reads shared
// statuses and writes only its own; [Status.Update] must not start on any
// cell before Evolve has run on every cell. Tagging appends to the
// candidate's neighbor list, so concurrent growth must not let two cells
// tag the same candidate at once; [Graph.GrowParallel] computes matches in
// parallel with [Cell.CompatibleInner] and applies them in cell order.
// Extraction only reads the frozen graph and is parallel across roots.
package automaton
