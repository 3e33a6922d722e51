// Package services contains the expiry sweeper: the batch pass that
// deactivates postings whose deadline has elapsed.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/streadway/amqp"

	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/models"
	"github.com/devhire/job-board/internal/rabbitmq"
)

var sweptJobsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "jobboard_swept_jobs_total",
	Help: "Number of expired job postings deactivated by the sweeper.",
})

// JobSweepRepository is the persistence contract for the sweep pass.
type JobSweepRepository interface {
	DeactivateExpiredJobs(ctx context.Context, now time.Time) ([]models.ExpiredJobInfo, error)
}

// SweeperService deactivates expired postings and publishes one event per
// swept posting for the notifier. Safe to call concurrently: the store
// flips each posting at most once.
type SweeperService struct {
	repo    JobSweepRepository
	channel *amqp.Channel
	log     *slog.Logger
}

// NewSweeperService creates a SweeperService. A nil channel disables event
// publishing; sweeping itself still runs.
func NewSweeperService(repo JobSweepRepository, channel *amqp.Channel, log *slog.Logger) *SweeperService {
	return &SweeperService{
		repo:    repo,
		channel: channel,
		log:     log,
	}
}

// Sweep deactivates every active posting whose deadline is in the past and
// returns how many were flipped. Postings are never deleted. A second call
// under an unchanged clock finds nothing more to do.
func (s *SweeperService) Sweep(ctx context.Context) (int, error) {
	const op = "sweeper.Sweep"

	swept, err := s.repo.DeactivateExpiredJobs(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(swept) == 0 {
		return 0, nil
	}

	s.log.Info("deactivated expired jobs", slog.Int("count", len(swept)))
	sweptJobsTotal.Add(float64(len(swept)))

	if s.channel != nil {
		for _, info := range swept {
			if err := rabbitmq.PublishMessage(s.channel, rabbitmq.Exchange, "expired", info); err != nil {
				s.log.Error("failed to publish expired-job event",
					slog.String("job_uid", info.JobUID), sl.Err(err))
			}
		}
	}
	return len(swept), nil
}

// Run sweeps once immediately and then on every tick until the context is
// canceled.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	if _, err := s.Sweep(ctx); err != nil {
		s.log.Error("sweep failed", sl.Err(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Error("sweep failed", sl.Err(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
