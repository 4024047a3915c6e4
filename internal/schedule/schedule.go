package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/logx"
)

const (
	weekdaysSpec = "1-5"
	saturdaySpec = "6"
)

// Jobs holds the callbacks run on each slot of the schedule.
type Jobs struct {
	PreMarket  func()
	PostMarket func()
	Weekly     func()
}

// Scheduler runs the report jobs on market-local wall-clock times.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
}

func NewScheduler(cfg *config.Config) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		loc:  loc,
	}, nil
}

// Location reports the market timezone the scheduler runs in.
func (s *Scheduler) Location() *time.Location { return s.loc }

// Register wires the three report jobs at their configured times.
// Pre and post market runs fire on weekdays only, the weekly summary
// fires on Saturday.
func (s *Scheduler) Register(cfg *config.Config, jobs Jobs) error {
	entries := []struct {
		name string
		at   string
		days string
		fn   func()
	}{
		{"premarket", cfg.PreMarketTime, weekdaysSpec, jobs.PreMarket},
		{"postmarket", cfg.PostMarketTime, weekdaysSpec, jobs.PostMarket},
		{"weekly", cfg.WeeklyTime, saturdaySpec, jobs.Weekly},
	}
	for _, e := range entries {
		if e.fn == nil {
			continue
		}
		spec, err := timeToCron(e.at, e.days)
		if err != nil {
			return fmt.Errorf("schedule %s: %w", e.name, err)
		}
		name, fn := e.name, e.fn
		if _, err := s.cron.AddFunc(spec, func() {
			logx.Info("scheduled run starting", "job", name)
			fn()
		}); err != nil {
			return fmt.Errorf("schedule %s (%s): %w", e.name, spec, err)
		}
		logx.Info("job scheduled", "job", e.name, "cron", spec, "timezone", s.loc.String())
	}
	return nil
}

// Start begins dispatching jobs in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts dispatch and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// timeToCron converts an "HH:MM" wall-clock time plus a day-of-week
// field into a five-field cron spec.
func timeToCron(hhmm, days string) (string, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, want HH:MM", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", hhmm)
	}
	return fmt.Sprintf("%d %d * * %s", minute, hour, days), nil
}

// IsMarketDay reports whether t falls on a weekday. Exchange holidays
// are not tracked; a holiday run produces a thin report rather than
// being suppressed.
func IsMarketDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
