// Package pipeline wires several intcode machines together.
//
// Chain runs machines one after another, feeding each one's first output
// to the next. Ring runs them concurrently, one goroutine per stage,
// connected by Links into a feedback loop, and joins every stage before
// reading the result. MaxChain and MaxRing search all permutations of a
// set of phase settings for the largest result.
package pipeline
