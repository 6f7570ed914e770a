package jobs

import (
	"context"

	"github.com/wonny/vantage/internal/external/nyse"
	"github.com/wonny/vantage/pkg/logger"
)

// CalendarRefreshJob re-scrapes the NYSE holiday schedule. The
// schedule changes at most a few times a year, so weekly is plenty.
type CalendarRefreshJob struct {
	calendar *nyse.Calendar
	logger   *logger.Logger
}

// NewCalendarRefreshJob creates a new calendar refresh job
func NewCalendarRefreshJob(calendar *nyse.Calendar, log *logger.Logger) *CalendarRefreshJob {
	return &CalendarRefreshJob{
		calendar: calendar,
		logger:   log,
	}
}

// Name returns the job name
func (j *CalendarRefreshJob) Name() string {
	return "calendar_refresh"
}

// Schedule returns the cron schedule (Sunday 6 AM)
func (j *CalendarRefreshJob) Schedule() string {
	return "0 0 6 * * 0"
}

// Run executes the refresh
func (j *CalendarRefreshJob) Run(ctx context.Context) error {
	return j.calendar.Refresh(ctx)
}
