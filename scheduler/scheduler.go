package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"dld_finder/refresh"
)

// Scheduler runs periodic snapshot refreshes so long-lived lookup daemons
// pick up newly published datasets without restarts.
type Scheduler struct {
	refresher *refresh.Refresher
	spec      string
	interval  time.Duration
	cron      *cron.Cron
	ticker    *time.Ticker
	stopCh    chan struct{}
}

func New(refresher *refresh.Refresher, cronSpec string, interval time.Duration) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		spec:      cronSpec,
		interval:  interval,
		cron:      cron.New(),
		stopCh:    make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec != "" {
		log.Printf("Starting refresh scheduler with cron: %s", s.spec)
		_, err := s.cron.AddFunc(s.spec, func() {
			if err := s.refresher.Run(ctx); err != nil {
				log.Printf("Scheduled refresh error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
		return nil
	}

	if s.interval > 0 {
		log.Printf("Starting refresh scheduler with interval: %s", s.interval)
		s.ticker = time.NewTicker(s.interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.refresher.Run(ctx); err != nil {
						log.Printf("Scheduled refresh error: %v", err)
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
		return nil
	}

	log.Println("No refresh schedule configured, dataset will stay on the loaded snapshot")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// TriggerNow runs a refresh immediately, outside the schedule.
func (s *Scheduler) TriggerNow(ctx context.Context) error {
	return s.refresher.Run(ctx)
}
