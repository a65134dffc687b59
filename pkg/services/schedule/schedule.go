package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
)

var (
	ErrDayOfWeekRequired  = errors.New("day of week must be specified for weekly schedules")
	ErrDayOfMonthRequired = errors.New("day of month must be specified for monthly schedules")
	ErrInvalidTime        = errors.New("schedule time must be HH:MM")
	ErrUnknownFrequency   = errors.New("unknown schedule frequency")
	ErrRecipientName      = errors.New("recipient name is required")
	ErrRecipientEmail     = errors.New("recipient email is invalid")
)

const clockLayout = "15:04"

// Validate checks an enabled schedule. Disabled schedules are never sent to
// the service and always pass.
func Validate(s domain.ScheduleSettings) error {
	if !s.Enabled {
		return nil
	}
	s = s.WithDefaults()

	switch s.Frequency {
	case domain.FrequencyDaily, domain.FrequencyQuarterly:
	case domain.FrequencyWeekly:
		if !isWeekday(s.DayOfWeek) {
			return ErrDayOfWeekRequired
		}
	case domain.FrequencyMonthly:
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return ErrDayOfMonthRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrequency, s.Frequency)
	}

	if _, err := time.Parse(clockLayout, s.Time); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, s.Time)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", s.Timezone, err)
	}
	return nil
}

// ValidateRecipients requires a name and an address for every recipient of an
// enabled distribution.
func ValidateRecipients(recipients []domain.Recipient) error {
	for i, r := range recipients {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("recipient %d: %w", i+1, ErrRecipientName)
		}
		if !strings.Contains(r.Email, "@") {
			return fmt.Errorf("recipient %d (%s): %w", i+1, r.Name, ErrRecipientEmail)
		}
	}
	return nil
}

func DayIndex(name string) int {
	return domain.WeekdayIndex(name)
}

func isWeekday(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range domain.Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// NextRun previews the first execution time after now, in the schedule's
// timezone. Quarterly schedules advance a flat 90 days.
func NextRun(s domain.ScheduleSettings, now time.Time) (time.Time, error) {
	s = s.WithDefaults()

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", s.Timezone, err)
	}
	clock, err := time.Parse(clockLayout, s.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s.Time)
	}

	now = now.In(loc)
	candidate := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	passed := !candidate.After(now)

	switch s.Frequency {
	case domain.FrequencyWeekly:
		target := DayIndex(s.DayOfWeek)
		today := (int(candidate.Weekday()) + 6) % 7
		ahead := ((target-today)%7 + 7) % 7
		if ahead == 0 && passed {
			ahead = 7
		}
		candidate = candidate.AddDate(0, 0, ahead)
	case domain.FrequencyMonthly:
		day := s.DayOfMonth
		if day == 0 {
			day = 1
		}
		year, month := candidate.Year(), candidate.Month()
		due := min(day, daysIn(year, month))
		if candidate.Day() > due || (candidate.Day() == due && passed) {
			month++
			if month > time.December {
				month = time.January
				year++
			}
			due = min(day, daysIn(year, month))
		}
		candidate = time.Date(year, month, due, clock.Hour(), clock.Minute(), 0, 0, loc)
	case domain.FrequencyQuarterly:
		if passed {
			candidate = candidate.AddDate(0, 0, 90)
		}
	default:
		if passed {
			candidate = candidate.AddDate(0, 0, 1)
		}
	}
	return candidate, nil
}

// Summary renders the one-line description shown next to a report.
func Summary(s domain.ScheduleSettings) string {
	if !s.Enabled {
		return "No scheduling"
	}
	s = s.WithDefaults()

	freq := string(s.Frequency)
	if freq != "" {
		freq = strings.ToUpper(freq[:1]) + freq[1:]
	}
	switch s.Frequency {
	case domain.FrequencyWeekly:
		day := domain.Weekdays[DayIndex(s.DayOfWeek)]
		freq += fmt.Sprintf(" on %ss", strings.ToUpper(day[:1])+day[1:])
	case domain.FrequencyMonthly:
		freq += fmt.Sprintf(" on day %d", s.DayOfMonth)
	}
	return fmt.Sprintf("%s at %s %s", freq, s.Time, s.Timezone)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
