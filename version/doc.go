// Package version reports build information for the producer and consumer
// commands. Values are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/kafkasample/version.Version=1.2.0 \
//	    -X github.com/kbukum/kafkasample/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/producer
//
// Anything left unset falls back to the VCS stamp the Go toolchain embeds.
package version
