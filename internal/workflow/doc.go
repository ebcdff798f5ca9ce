// Package workflow runs a complete translation of one subtitle file: parse,
// optional advertisement removal, chunked concurrent translation and output
// composition.
//
// Each run gets a uuid run ID carried in the context so every log line of
// the run, including per-block lines from worker goroutines, can be
// correlated. Stages are tagged parse, translate and compose. Files are only
// written after the translate stage succeeds for every block, so a failed run
// leaves the output directory untouched.
package workflow
