// Package component defines lifecycle-managed parts of a process: the broker
// connection, the ops HTTP server and the telemetry exporters. A Registry
// starts them in registration order, stops them in reverse and aggregates
// their health for the readiness endpoint.
package component
