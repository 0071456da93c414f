package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/gommon/log"
)

// TaskFunc is a unit of background work. ctx is cancelled when the scheduler stops.
type TaskFunc func(ctx context.Context) error

// JobScheduler runs the periodic maintenance jobs of the service.
type JobScheduler struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler with the low-stock alert job registered
// when alerts is non-nil and interval is positive.
func NewJobScheduler(alerts *jobs.InventoryAlertService, interval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	if alerts != nil && interval > 0 {
		if err := js.AddJob("inventory-low-stock", interval, alerts.ScheduledLowStockCheck); err != nil {
			cancel()
			return nil, err
		}
	}

	return js, nil
}

func (js *JobScheduler) Start() {
	log.Infof("Starting background job scheduler (%d jobs)", len(js.jobs))
	js.scheduler.Start()
}

// Stop cancels running tasks and waits for them to return.
func (js *JobScheduler) Stop() error {
	log.Info("Stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

// AddJob runs task every interval, starting immediately. A run still in
// progress when the next one is due pushes that run back.
func (js *JobScheduler) AddJob(name string, interval time.Duration, task TaskFunc) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := task(js.ctx); err != nil {
				log.Errorf("job %s failed: %v", name, err)
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}

	js.jobs[name] = job
	log.Debugf("Added job %s every %s", name, interval)
	return nil
}

func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, exists := js.jobs[name]
	if !exists {
		return nil
	}
	delete(js.jobs, name)
	return js.scheduler.RemoveJob(job.ID())
}

// JobNames lists the registered jobs in name order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
