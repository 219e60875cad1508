package core

// DayTotal is the intake aggregated for one calendar day.
type DayTotal struct {
	Day   Date
	Total int // milliliters
}
