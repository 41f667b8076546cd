package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/tourism-forecast/internal/tourism"
)

// Retrainer is the part of the service the scheduler drives.
type Retrainer interface {
	Retrain(ctx context.Context) (tourism.ModelSummary, error)
}

// Scheduler periodically refits the forecasting model from the dataset source.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Retrainer
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. An interval <= 0 disables it.
func New(interval time.Duration, service Retrainer) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		timeout:   2 * time.Minute,
	}
}

// Start schedules the retrain job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: retrain interval not set; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	log.Println("scheduler: running model retrain job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	summary, err := s.service.Retrain(ctx)
	switch {
	case errors.Is(err, tourism.ErrNoSource):
		log.Println("scheduler: no dataset source configured; skipping retrain")
	case err != nil:
		log.Printf("scheduler: retrain failed, keeping previous model: %v", err)
	default:
		log.Printf("scheduler: retrain completed, model %s covers %d-%d",
			summary.Order, summary.FirstYear, summary.LastYear)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
