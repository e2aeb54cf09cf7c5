package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/config"
)

const defaultJobTimeout = 10 * time.Minute

// Job is a scheduled unit of work. Spec is a six-field cron expression
// (seconds first); an empty Spec disables the job.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules in the studio time zone. Each run
// takes a Redis lock first so that, with several instances deployed, a job
// fires once.
type Scheduler struct {
	cron   *cron.Cron
	rdb    *redis.Client
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	jobs   []string
}

func New(rdb *redis.Client, loc *time.Location, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger{log: log})),
		),
		rdb:    rdb,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers a job. Disabled jobs are skipped without error.
func (s *Scheduler) Add(job Job) error {
	if job.Spec == "" {
		s.log.Info().Str("job", job.Name).Msg("Job disabled")
		return nil
	}
	if job.Timeout <= 0 {
		job.Timeout = defaultJobTimeout
	}
	if _, err := s.cron.AddFunc(job.Spec, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name, err)
	}
	s.jobs = append(s.jobs, job.Name)
	s.log.Info().Str("job", job.Name).Str("spec", job.Spec).Msg("Job scheduled")
	return nil
}

// Jobs returns the names of the registered jobs.
func (s *Scheduler) Jobs() []string {
	return s.jobs
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
}

// Stop prevents new runs and waits for running jobs until ctx expires,
// after which their contexts are cancelled.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("Timed out waiting for running jobs")
	}
	s.cancel()
	s.log.Info().Msg("Scheduler stopped")
}

// run executes one firing of job under its lock.
func (s *Scheduler) run(job Job) {
	jobLog := s.log.With().Str("job", job.Name).Logger()
	key := config.CacheKey.CronLockKey(job.Name)

	ok, err := s.rdb.SetNX(s.ctx, key, time.Now().Unix(), job.Timeout).Result()
	if err != nil {
		jobLog.Error().Err(err).Msg("Failed to take job lock")
		return
	}
	if !ok {
		jobLog.Debug().Msg("Job already running elsewhere, skipping")
		return
	}
	defer func() {
		if err := s.rdb.Del(context.WithoutCancel(s.ctx), key).Err(); err != nil {
			jobLog.Warn().Err(err).Msg("Failed to release job lock")
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, job.Timeout)
	defer cancel()

	start := time.Now()
	jobLog.Info().Msg("Job started")
	if err := job.Run(ctx); err != nil {
		jobLog.Error().Err(err).Dur("took", time.Since(start)).Msg("Job failed")
		return
	}
	jobLog.Info().Dur("took", time.Since(start)).Msg("Job finished")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
