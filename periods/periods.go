package periods

import (
	"fmt"
	"time"
)

const (
	// Length of one pricing period as published by the spot market.
	Length  = 15 * time.Minute
	Minutes = 15
	PerHour = 4
	PerDay  = 24 * PerHour

	dateLayout = "2006-01-02"
)

var (
	marketLoc   *time.Location
	guiLocation *time.Location = time.UTC
)

func init() {
	var err error
	marketLoc, err = time.LoadLocation("Europe/Stockholm")
	if err != nil {
		panic(fmt.Sprintf("failed to load Stockholm location: %v", err))
	}
}

func SetGuiTimezone(timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %v", timezone, err)
	}
	guiLocation = loc
	return nil
}

// DayLabel is the calendar day a period belongs to, in market-local time.
// Used for display grouping and as the cache freshness key.
func DayLabel(t time.Time) string {
	return t.In(marketLoc).Format(dateLayout)
}

// HourOf is the market-local hour of a period start, 0-23.
func HourOf(t time.Time) int {
	return t.In(marketLoc).Hour()
}

// End is the exclusive end of the period starting at t.
func End(t time.Time) time.Time {
	return t.Add(Length)
}

// Count converts minutes to a whole-period count. A remainder below one
// period is dropped, so 20 minutes still means one period.
func Count(minutes int) int {
	return minutes / Minutes
}

func FormatInGuiTimezone(t time.Time) string {
	return t.In(guiLocation).Format("2006-01-02 15:04")
}
