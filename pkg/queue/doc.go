// Package queue provides a distributed, PostgreSQL-backed task queue with
// worker pools, parent/child dependency ordering, a cron scheduler, and
// NOTIFY/LISTEN-driven wake-up across multiple cooperating servers.
//
// queue does not wrap a third-party job runner: it owns its schema, its
// trigger, and its scheduling loop, because those are exactly the pieces
// this package needs to control directly (parent cascades, per-server
// heartbeats, the pre/post hook pipeline).
//
// # Task Definition
//
// Tasks are registered by name against a typed payload, resolved at
// execution time by name rather than by reflecting over a language-level
// module/function pair:
//
//	queue.RegisterTyped("send_welcome", func(ctx context.Context, p SendWelcomePayload) error {
//	    return mailer.Send(ctx, "welcome", p.Email)
//	})
//
// # Submission
//
//	store := queue.NewStore(pool)
//	tasks := queue.NewQueuedTasks(store, nil, nil)
//	ref := tasks.AddTask(ctx, "send_welcome", SendWelcomePayload{Email: "a@b.com"})
//	child := tasks.AddTask(ctx, "send_followup", FollowupPayload{}, queue.WithParent(ref))
//
// # Manager
//
//	mgr, err := queue.NewManager(pool, queue.WithMaxWorkers(10), queue.WithLogger(log))
//	go mgr.Start(ctx) // Start blocks until ctx is cancelled or Stop is called
//	defer mgr.Stop(context.Background())
//
// # Scheduled tasks
//
//	mgr, _ := queue.NewManager(pool,
//	    queue.WithScheduledTask("daily-rollup", "0 3 * * *", func(ctx context.Context) error {
//	        return rollup.Run(ctx)
//	    }),
//	)
//
// # Health Checks
//
//	qtask.WithHealthChecks(
//	    qtask.WithReadinessCheck("queue", queue.Healthcheck(mgr)),
//	)
package queue
