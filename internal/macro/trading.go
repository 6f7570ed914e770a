package macro

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HolidaySource answers whether a given date is an exchange holiday.
// The NYSE calendar client implements it; a nil source means weekends only.
type HolidaySource interface {
	IsHoliday(date time.Time) bool
}

// TradingWindow decides whether a point in time falls inside regular
// trading hours. Outside the window the snapshot cache switches to its
// extended TTL, since the tracked series do not update.
type TradingWindow struct {
	loc       *time.Location
	openMins  int // minutes since midnight, exchange-local
	closeMins int
	holidays  HolidaySource
}

// NewTradingWindow builds a window from HH:MM bounds and a timezone name
func NewTradingWindow(timezone, open, close string, holidays HolidaySource) (*TradingWindow, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	openMins, err := parseClock(open)
	if err != nil {
		return nil, fmt.Errorf("invalid open time %q: %w", open, err)
	}

	closeMins, err := parseClock(close)
	if err != nil {
		return nil, fmt.Errorf("invalid close time %q: %w", close, err)
	}

	if closeMins <= openMins {
		return nil, fmt.Errorf("close %q must be after open %q", close, open)
	}

	return &TradingWindow{
		loc:       loc,
		openMins:  openMins,
		closeMins: closeMins,
		holidays:  holidays,
	}, nil
}

// Contains reports whether t falls inside the trading window
func (w *TradingWindow) Contains(t time.Time) bool {
	local := t.In(w.loc)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	if w.holidays != nil && w.holidays.IsHoliday(local) {
		return false
	}

	mins := local.Hour()*60 + local.Minute()
	return mins >= w.openMins && mins < w.closeMins
}

// parseClock parses "HH:MM" into minutes since midnight
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM")
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute %q", parts[1])
	}

	return hour*60 + minute, nil
}
