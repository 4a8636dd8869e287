package responder

import "time"

// Event is a scheduled happening in the city.
type Event struct {
	Name     string
	Date     string // YYYY-MM-DD
	Location string
}

// Events lists the known events in date order.
var Events = []Event{
	{Name: "Bastille Day Celebration", Date: "2025-07-14", Location: "French Quarter"},
	{Name: "International Yoga Festival", Date: "2025-12-21", Location: "Auroville"},
}

// nextEvent returns the first event on or after now's date, or the first event when all
// are past.
func nextEvent(now time.Time) Event {
	today := now.Format(time.DateOnly)
	for _, ev := range Events {
		if ev.Date >= today {
			return ev
		}
	}
	return Events[0]
}
