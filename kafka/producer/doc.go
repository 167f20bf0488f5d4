// Package producer publishes records one at a time with at-least-once
// delivery.
//
// Producer.Publish encodes a record, sends it and waits for its delivery
// report before returning; a failed send is reported, never raised. Loop
// sends fixed-size batches and waits on a Pacer between them.
//
//	sender, _ := producer.NewSender(&kafkaCfg, producerCfg, log)
//	p := producer.New[user.User](sender, user.NewCodec(), user.Key, log)
//	loop := producer.NewLoop[user.User](p, user.NewGenerator(seed), topic, producerCfg, producer.IntervalPacer(time.Second), log)
//	res := loop.Run(ctx)
package producer
