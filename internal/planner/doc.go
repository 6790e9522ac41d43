// Package planner drives the planning pipeline for a goal mashup.
//
// A [Planner] bundles a graph factory, a graph extender and a plan extractor.
// A [Process] uses them to grow a graph one level at a time and to hand the
// plans of each depth to a collector, and a [Job] wires a planner from a
// repository and a [CompositionStrategy], runs a process to completion and
// reports progress on an event bus.
//
// # Basic Usage
//
//	job, err := planner.NewJob(planner.JobConfig{
//	    Repository: repo,
//	    Problem:    problem,
//	    Strategy:   planner.DefaultCompositionStrategy(),
//	}, planner.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	result, err := job.Run(ctx)
package planner
