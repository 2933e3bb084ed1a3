// Package folder provides stable folder identities and project tree scanning.
//
// An [ID] is an opaque handle that survives renames and process restarts when
// it is backed by a sidecar `.meta` file, and falls back to a deterministic
// hash of the folder path otherwise.
package folder
