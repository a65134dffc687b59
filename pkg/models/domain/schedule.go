package domain

import "strings"

type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

type ScheduleSettings struct {
	Enabled    bool
	Frequency  Frequency
	DayOfWeek  string // monday..sunday
	DayOfMonth int
	Time       string // HH:MM
	Timezone   string
}

type Recipient struct {
	Name  string
	Email string
}

type EmailSettings struct {
	Enabled      bool
	Subject      string
	Body         string
	AttachFormat ReportFormat
	Recipients   []Recipient
}

const DefaultScheduleTime = "09:00"

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayIndex maps monday..sunday to 0..6. Unknown names map to 0.
func WeekdayIndex(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, d := range Weekdays {
		if d == name {
			return i
		}
	}
	return 0
}

func (s ScheduleSettings) WithDefaults() ScheduleSettings {
	if s.Time == "" {
		s.Time = DefaultScheduleTime
	}
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
	return s
}

const (
	DefaultEmailSubject = "Report"
	DefaultEmailBody    = "Attached is your requested report."
)

func (e EmailSettings) WithDefaults() EmailSettings {
	if e.Subject == "" {
		e.Subject = DefaultEmailSubject
	}
	if e.Body == "" {
		e.Body = DefaultEmailBody
	}
	if e.AttachFormat == "" {
		e.AttachFormat = ReportFormatPDF
	}
	return e
}
