package planner

import "fmt"

// PlanDuration returns the whole days between two YYYY-MM-DD dates. It fails
// with ErrInvalidDateRange if either date is unparsable or the range is
// shorter than one day.
func PlanDuration(startDate, endDate string) (int, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDateRange, err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDateRange, err)
	}

	duration := DaysBetween(start, end)
	if duration < 1 {
		return 0, fmt.Errorf("%w: %s to %s spans %d days", ErrInvalidDateRange, startDate, endDate, duration)
	}
	return duration, nil
}

// PagesPerDay is ceil(totalPages / duration). duration must be at least 1.
func PagesPerDay(totalPages, duration int) int {
	return (totalPages + duration - 1) / duration
}
