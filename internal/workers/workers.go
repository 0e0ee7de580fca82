package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const (
	reminderJobName = "daily-reminders"
	visitorJobName  = "visitor-cleanup"

	reminderTimeout = 5 * time.Minute
	visitorMaxIdle  = 3 * time.Minute
)

// ReminderSender pushes the daily "log your progress" reminder and reports
// how many users were targeted.
type ReminderSender interface {
	SendDailyReminders(ctx context.Context) (int, error)
}

// Scheduler runs the periodic background jobs in UTC.
type Scheduler struct {
	sched gocron.Scheduler
}

// NewScheduler registers the reminder job on reminderCron (five fields) and a
// minute-by-minute sweep that calls cleanupVisitors. Neither job starts until
// Start is called.
func NewScheduler(reminders ReminderSender, reminderCron string, cleanupVisitors func(maxIdle time.Duration) int) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.CronJob(reminderCron, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), reminderTimeout)
			defer cancel()

			n, err := reminders.SendDailyReminders(ctx)
			if err != nil {
				log.Printf("[Scheduler] daily reminders failed: %v", err)
				return
			}
			log.Printf("[Scheduler] daily reminders queued for %d users", n)
		}),
		gocron.WithName(reminderJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", reminderCron, err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			if n := cleanupVisitors(visitorMaxIdle); n > 0 {
				log.Printf("[Scheduler] dropped %d idle rate limiters", n)
			}
		}),
		gocron.WithName(visitorJobName),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule visitor cleanup: %w", err)
	}

	return &Scheduler{sched: sched}, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	log.Println("[Scheduler] started")
}

// RunNow triggers the named job outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	for _, j := range s.sched.Jobs() {
		if j.Name() == name {
			return j.RunNow()
		}
	}
	return fmt.Errorf("no job named %q", name)
}

// Shutdown waits for running jobs to finish.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
