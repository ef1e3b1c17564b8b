// Package workspace provides the staging directory used to replace the output
// folder as a whole.
//
// A build writes every file into a timestamped sibling of the output folder.
// Only when all stages succeed is the old output folder moved aside and the
// staging directory renamed into its place, so a failed build never leaves a
// half-written site behind.
package workspace
