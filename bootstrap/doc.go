// Package bootstrap runs a command through a uniform lifecycle: config
// defaults and validation, logger setup, component start, hooks, the task
// itself, and a graceful stop on completion or SIGINT/SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.RegisterComponent(kafkaComponent)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return loop.Run(ctx).Error()
//	})
//
// Dependencies are wired with explicit constructors in the command's main.
package bootstrap
