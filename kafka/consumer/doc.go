// Package consumer reads a topic as a member of a consumer group and
// commits each record only after it was processed.
//
// The delivery guarantee is at-least-once: a crash between processing and
// commit, or a failed commit, makes the record come back after a restart.
// Records whose value does not decode follow the configured MalformedPolicy.
package consumer
