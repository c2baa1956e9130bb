// Package framegraph is the core of framegraphd: a thread-safe tree of
// named coordinate frames, queried and mutated by absolute or
// relative path, with weak handles (FrameRef, RelativePose) that
// survive concurrent structural edits without dangling.
package framegraph
