// Package naming maps discovered source files to their mirrored destination
// paths, creates destination directories, and tracks which source claimed
// each destination within a run.
//
// Mapping rule:
//
//	<inputRoot>/<rel>/<name>.<ext>  ->  <outputRoot>/<rel>/<name>.<format>
//
// Only the final extension is replaced, so "loop.120bpm.wav" becomes
// "loop.120bpm.mp3".
package naming
