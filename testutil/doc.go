// Package testutil runs in-memory test components for the lifetime of a
// test. See kafka/testutil for the in-memory broker.
package testutil
