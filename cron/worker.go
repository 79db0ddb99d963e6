package cron

import (
	"context"
	"time"

	"github.com/tech282/ecosystem-platform-api/config"
	"github.com/tech282/ecosystem-platform-api/services/booking"
	"github.com/tech282/ecosystem-platform-api/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeLifecycleSweep = "booking:lifecycle_sweep"

// InitLifecycleWorker starts the background worker and scheduler that
// periodically completes confirmed bookings whose end time has passed. The
// booking core exposes the sweep; all scheduling lives here.
func InitLifecycleWorker(svc booking.BookingService) (*asynq.Server, *asynq.Scheduler) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	}

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeLifecycleSweep, handleLifecycleSweep(svc))

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Fatal("lifecycle worker failed to start", zap.Error(err))
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(config.AppConfig.SweepInterval, asynq.NewTask(TypeLifecycleSweep, nil)); err != nil {
		logger.Fatal("failed to register lifecycle sweep", zap.Error(err))
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Fatal("lifecycle scheduler failed to start", zap.Error(err))
		}
	}()

	return srv, scheduler
}

func handleLifecycleSweep(svc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()
		asOf := time.Now().UTC()

		completed, err := svc.SweepLifecycle(ctx, asOf)
		if err != nil {
			logger.Error("lifecycle sweep failed", zap.Error(err))
			return err
		}
		if completed > 0 {
			logger.Info("lifecycle sweep completed bookings",
				zap.Int("count", completed), zap.Time("asOf", asOf))
		}
		return nil
	}
}
