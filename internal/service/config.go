package service

import "time"

// Config carries the engine's tunables.  It is built once by the host
// process and passed to each service constructor.
type Config struct {
	// Location is the business's local calendar.  All "today" and month
	// boundary decisions use it.
	Location *time.Location

	// DefaultSeriesDays is the window used by DailyRevenue when no explicit
	// range or day count is given.
	DefaultSeriesDays int
	// MaxSeriesDays bounds the length of a daily series.
	MaxSeriesDays int

	// GoalAlertStartDay and GoalAlertEndDay delimit (inclusive) the
	// days-of-month on which the mid-month goal check may fire.
	GoalAlertStartDay int
	GoalAlertEndDay   int
	// GoalAlertPercent is the progress below which the goal alert fires.
	GoalAlertPercent float64

	// CancellationWindowDays is the trailing window for the cancellation rate.
	CancellationWindowDays int
	// CancellationRatePercent is the rate above which the alert fires.
	CancellationRatePercent float64

	// SyncLockTTL is how long a sync run may hold the distributed lock.
	SyncLockTTL time.Duration
}

// DefaultConfig returns the settings the back office has always run with.
func DefaultConfig() Config {
	return Config{
		Location:                time.Local,
		DefaultSeriesDays:       7,
		MaxSeriesDays:           366,
		GoalAlertStartDay:       14,
		GoalAlertEndDay:         16,
		GoalAlertPercent:        50,
		CancellationWindowDays:  30,
		CancellationRatePercent: 20,
		SyncLockTTL:             2 * time.Minute,
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Location == nil {
		c.Location = d.Location
	}
	if c.DefaultSeriesDays <= 0 {
		c.DefaultSeriesDays = d.DefaultSeriesDays
	}
	if c.MaxSeriesDays <= 0 {
		c.MaxSeriesDays = d.MaxSeriesDays
	}
	if c.GoalAlertStartDay <= 0 {
		c.GoalAlertStartDay = d.GoalAlertStartDay
	}
	if c.GoalAlertEndDay < c.GoalAlertStartDay {
		c.GoalAlertEndDay = c.GoalAlertStartDay + (d.GoalAlertEndDay - d.GoalAlertStartDay)
	}
	if c.GoalAlertPercent <= 0 {
		c.GoalAlertPercent = d.GoalAlertPercent
	}
	if c.CancellationWindowDays <= 0 {
		c.CancellationWindowDays = d.CancellationWindowDays
	}
	if c.CancellationRatePercent <= 0 {
		c.CancellationRatePercent = d.CancellationRatePercent
	}
	if c.SyncLockTTL <= 0 {
		c.SyncLockTTL = d.SyncLockTTL
	}
	return c
}
