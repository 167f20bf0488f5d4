// Package server runs the optional ops HTTP server of a command: a gin engine
// exposing health, liveness, readiness, build info and runtime metrics. It is
// registered with the bootstrap app as a component, so it starts before the
// Kafka loops and stops after them.
//
//	srv := server.New(cfg.Server, log)
//	srv.RegisterOpsEndpoints(cfg.Name, app.Components.HealthAll)
//	app.RegisterComponent(server.NewComponent(srv))
//
// Endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /liveness: process is up
//   - /readiness: every component is healthy
//   - /info: build version and uptime
//   - /metrics: goroutines and memory
package server
