// Package testutil provides an in-memory broker for the kafka packages.
//
// Broker can stand in for the admin client (CreateTopic), the sender (Send)
// and, through Broker.Consumer, the group reader (Poll, Commit, Close).
// Failures are injected per operation with FailCreate, FailSends,
// FailCommits and FailPolls.
//
// # Quick Start
//
//	broker := testutil.NewBroker()
//	_ = broker.CreateTopic(ctx, kafka.TopicSpec{Name: "users", Partitions: 1, ReplicationFactor: 1})
//	msg, _ := broker.Send(ctx, kafka.Message{Topic: "users", Key: "k", Value: []byte(`{}`)})
//
//	c := broker.Consumer("users", "group")
//	got, ok, err := c.Poll(ctx, time.Second)
//	_ = c.Commit(ctx, got)
package testutil
