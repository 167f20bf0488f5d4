// Package kafka holds the pieces shared by the user-stream producer and
// consumer: broker connection settings, the record codec, error
// classification, the run loop and the lifecycle component.
//
// Delivery is at-least-once. The producer awaits each delivery report before
// sending the next record; the consumer commits a record's offset only after
// the record was processed.
//
// # Architecture
//
//   - kafka/admin: idempotent topic provisioning
//   - kafka/producer: single-record publisher and the batch loop
//   - kafka/consumer: group reader and the poll-process-commit loop
//   - kafka/testutil: in-memory broker for tests
//
// # Configuration
//
//	kafka:
//	  brokers: ["localhost:9092"]
//	  client_id: "user-producer"
//	  properties:
//	    request.timeout.ms: "5000"
//
// Properties are validated per client role with ValidateProperties.
package kafka
