package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtflow/auth"
	"courtflow/casefile"
	"courtflow/config"
	"courtflow/db"
	"courtflow/directory"
	"courtflow/escalation"
	"courtflow/jobs"
	"courtflow/judge"
	"courtflow/notify"
	"courtflow/order"
	"courtflow/submission"

	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("bootstrap config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("bootstrap redis: %v", err)
	}
	defer rdb.Close()

	judgeService := judge.NewService(judge.NewRepository(pool))
	judgeCache := directory.NewCache(rdb, judgeService, time.Duration(cfg.CacheExpiryMinutes)*time.Minute)
	caseService := casefile.NewService(casefile.NewRepository(pool), cfg.HandledFamily)

	var delivery notify.Delivery = notify.LogDelivery{}
	if cfg.SMTPAddr != "" {
		delivery = notify.NewSMTPDelivery(cfg.SMTPAddr, cfg.SMTPFrom)
	}
	mailer, err := notify.NewTemplateMailer(delivery)
	if err != nil {
		log.Fatalf("bootstrap mailer: %v", err)
	}
	dispatcher := notify.NewDispatcher(judgeCache, mailer)

	orderRepo := order.NewRepository(pool)
	queue := submission.NewRedisQueue(rdb)
	orderService := order.NewService(orderRepo, caseService, judgeCache, dispatcher, queue)

	worker := submission.NewWorker(orderRepo, submission.NewHTTPTarget(cfg.SubmitEndpoint), db.NewAdvisoryLockManager(pool))
	drainer := submission.NewDrainer(queue, worker, cfg.DrainWorkers)
	retrySweep := submission.NewRetrySweep(orderRepo, queue, cfg.MaxRetries)

	escalationSweep, err := escalation.NewSweep(orderRepo, judgeService, dispatcher, cfg.ReminderDays, cfg.ReassignDays, cfg.OpsContact)
	if err != nil {
		log.Fatalf("bootstrap escalation sweep: %v", err)
	}

	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret)

	interceptor := jobs.NewInterceptor(mailer, cfg.FailureAlertRecipients)
	runner := jobs.NewRunner(ctx, interceptor)

	descriptors := []jobs.Descriptor{
		{Name: "submission-drain", Schedule: jobs.StaticSchedule(cfg.DrainSchedule), Run: drainer.Run},
		{Name: "submission-retry-sweep", Schedule: jobs.StaticSchedule(cfg.RetrySchedule), Run: retrySweep.Run},
		{Name: "escalation-sweep", Schedule: jobs.StaticSchedule(cfg.EscalationSchedule), Run: escalationSweep.Run},
		{
			Name: "directory-cache-prime",
			// Re-reads the environment each cycle so a changed cache
			// expiry shifts the priming cadence without a restart.
			Schedule: func() (string, error) {
				return jobs.CacheRefreshSchedule(config.Load().CacheExpiryMinutes)
			},
			Run: judgeCache.Prime,
		},
	}
	for _, d := range descriptors {
		if err := runner.Register(d); err != nil {
			log.Fatalf("register job %s: %v", d.Name, err)
		}
	}

	runner.Start()
	log.Printf("courtflow ready: order service %v, auth service %v, %d jobs scheduled",
		orderService != nil, authService != nil, len(descriptors))

	<-ctx.Done()
	log.Println("courtflow shutting down gracefully...")
	runner.Stop()
	log.Println("courtflow shutdown complete.")
}
