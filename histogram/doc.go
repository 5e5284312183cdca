// Package histogram counts byte values with exact, thread-count independent
// results.
//
// Compute splits the sample buffer across a fork-join region and counts
// either with atomic increments on one shared counter array (ModeAtomic,
// the default) or with a private histogram per worker that is merged into
// the shared result once the worker is done (ModePrivate). Both produce the
// same counts as a sequential pass for every ThreadSpec and schedule.
package histogram
