// Package jobs runs periodic background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const defaultJobTimeout = 10 * time.Second

// AccountCounter reports how many accounts are registered.
type AccountCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Scheduler wraps a cron runner whose jobs never overlap themselves.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler(log zerolog.Logger) *Scheduler {
	cl := cronLogger{log: log.With().Str("component", "cron").Logger()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(
				cron.Recover(cl),
				cron.SkipIfStillRunning(cl),
			),
		),
		log: log,
	}
}

// cronLogger routes cron's own logging into zerolog. Scheduling chatter goes
// to debug; recovered panics go to error.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// ScheduleGaugeRefresh keeps gauge in sync with counter on spec (standard cron
// syntax or descriptors such as "@every 1m"). An empty spec or "off" disables
// the job.
func (s *Scheduler) ScheduleGaugeRefresh(spec string, counter AccountCounter, gauge prometheus.Gauge, timeout time.Duration) error {
	if spec == "" || spec == "off" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}

	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := RefreshGauge(ctx, counter, gauge); err != nil {
			s.log.Warn().Err(err).Msg("accounts gauge refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule gauge refresh %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs or ctx, whichever is first.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RefreshGauge sets gauge to the current account count.
func RefreshGauge(ctx context.Context, counter AccountCounter, gauge prometheus.Gauge) error {
	n, err := counter.Count(ctx)
	if err != nil {
		return err
	}
	gauge.Set(float64(n))
	return nil
}
