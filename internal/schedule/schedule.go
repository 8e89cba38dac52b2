// Package schedule fires a job once per day at a fixed wall-clock
// time in a fixed timezone.
package schedule

import (
	"context"
	"log/slog"
	"time"
)

// Daily describes the firing time.
type Daily struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// Next returns the first firing instant strictly after now. Kept pure
// so tests pin the clock; recomputing after each fire also absorbs
// DST shifts.
func (d Daily) Next(now time.Time) time.Time {
	local := now.In(d.Location)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.Hour, d.Minute, 0, 0, d.Location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks, invoking job at each daily firing time until ctx ends.
func (d Daily) Run(ctx context.Context, job func(context.Context)) {
	for {
		next := d.Next(time.Now())
		slog.Info("next scheduled run", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			job(ctx)
		}
	}
}
