package scheduler

import (
	"context"
	"fmt"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"stockreport/internal/model"
)

// DefaultSchedule fires at 07:00 on weekdays. The first field is seconds.
const DefaultSchedule = "0 0 7 * * 1-5"

// Runner executes one report run.
type Runner interface {
	Run(ctx context.Context, inv model.Invocation, ev model.Event) model.Result
}

// Scheduler triggers report runs on a cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Ctx    context.Context
}

// NewScheduler creates a seconds-aware scheduler bound to ctx.
func NewScheduler(ctx context.Context, runner Runner) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Ctx:    ctx,
	}
}

// Register adds the report job. An empty expression uses DefaultSchedule.
func (s *Scheduler) Register(expr string) error {
	if expr == "" {
		expr = DefaultSchedule
	}
	if _, err := s.Cron.AddFunc(expr, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the report task immediately.
func (s *Scheduler) RunNow() model.Result {
	return s.run()
}

func (s *Scheduler) reportTask() {
	s.run()
}

func (s *Scheduler) run() model.Result {
	inv := model.DefaultInvocation()
	inv.FunctionName = "scheduled"
	log.Info().Msg("running scheduled report")
	res := s.Runner.Run(s.Ctx, inv, model.Event{})
	log.Info().Int("status_code", res.StatusCode).Str("body", res.Body).Msg("scheduled report finished")
	return res
}
