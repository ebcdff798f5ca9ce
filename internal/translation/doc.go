// Package translation splits a caption track into blocks, sends each block to
// a Backend with its neighbouring context, and stitches the responses back in
// document order.
//
// Blocks are dispatched concurrently through a fixed worker pool; responses
// are collected on one channel and sorted by block position before
// reassembly, so output order never depends on backend latency. A backend
// error aborts the whole run. A response with fewer lines than captions is
// tolerated: the uncovered captions keep their original text and the Reporter
// is told about each one.
package translation
