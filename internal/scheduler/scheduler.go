package scheduler

import (
	"context"
	"time"

	"taxclarity/internal/logger"
	"taxclarity/internal/service"
)

// Daily runs the reminder batch once a day at a fixed local hour.
type Daily struct {
	reminders service.ReminderService
	hour      int
	loc       *time.Location
	now       func() time.Time
	log       *logger.Logger
}

func NewDaily(reminders service.ReminderService, hour int, loc *time.Location, log *logger.Logger) *Daily {
	return &Daily{
		reminders: reminders,
		hour:      hour,
		loc:       loc,
		now:       time.Now,
		log:       log.With("component", "scheduler"),
	}
}

// Run blocks until ctx is canceled.
func (d *Daily) Run(ctx context.Context) {
	for {
		next := nextRun(d.now(), d.hour, d.loc)
		d.log.Info("next reminder run scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			d.log.Info("scheduler stopping")
			return
		case <-timer.C:
			d.tick(ctx)
		}
	}
}

func (d *Daily) tick(ctx context.Context) {
	summary, err := d.reminders.Run(ctx)
	if err != nil {
		d.log.Error("reminder run failed", "error", err)
		return
	}
	d.log.Info("reminder run finished",
		"users_notified", summary.UsersNotified,
		"notifications_sent", summary.NotificationsSent,
		"items_scanned", summary.ItemsScanned)
}

// nextRun returns the first instant strictly after now at hour:00 in loc.
func nextRun(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}
