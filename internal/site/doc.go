// Package site orchestrates a documentation build as an ordered pipeline of
// typed stages. Each stage either succeeds, records a warning and lets the
// build continue, or fails fatally and aborts it. Output is written to a
// staging directory that only replaces the output folder once every stage has
// run, so a failed build leaves the previous site untouched.
//
// The outcome of every build is captured in a BuildReport, which can be
// persisted as JSON alongside a one-line text summary.
package site
