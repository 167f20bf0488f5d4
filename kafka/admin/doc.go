// Package admin provisions the topics a producer writes to.
//
// Provisioning is idempotent: a topic that already exists counts as ready.
// Any other failure is fatal for the caller, which must not send into a
// topic whose existence is unconfirmed.
package admin
