// Package user defines the user record, its key and codec, and a generator
// of synthetic users.
package user
