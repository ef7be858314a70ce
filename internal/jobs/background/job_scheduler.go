package background

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"chlsync/internal/services"
)

// JobScheduler runs the order sync on an interval in daemon mode.
type JobScheduler struct {
	scheduler gocron.Scheduler
	syncSvc   *services.SyncService
}

// NewJobScheduler creates a scheduler with the sync job registered.
func NewJobScheduler(syncSvc *services.SyncService, interval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		syncSvc:   syncSvc,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.runSync, context.Background()),
		gocron.WithName("vtex-order-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) runSync(ctx context.Context) {
	log.Printf("Scheduled sync run starting")
	if err := js.syncSvc.Run(ctx); err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			log.Printf("Skipping scheduled run: previous run still in progress")
			return
		}
		log.Printf("Scheduled sync run failed: %v", err)
		return
	}
	log.Printf("Scheduled sync run finished")
}
