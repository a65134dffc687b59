package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/services/schedule"
	"github.com/spf13/cobra"
)

func NewScheduleCmd(now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Preview report schedules",
	}

	var (
		s     domain.ScheduleSettings
		count int
	)
	next := &cobra.Command{
		Use:   "next",
		Short: "Print the next run times of a schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s.Enabled = true
			if err := schedule.Validate(s); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, schedule.Summary(s))
			at := now()
			for i := 0; i < count; i++ {
				run, err := schedule.NextRun(s, at)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, run.Format("Mon 2006-01-02 15:04 MST"))
				at = run
			}
			return nil
		},
	}

	next.Flags().StringVar((*string)(&s.Frequency), "frequency", string(domain.FrequencyDaily), "daily, weekly, monthly or quarterly")
	next.Flags().StringVar(&s.DayOfWeek, "day-of-week", "", "Weekday for weekly schedules")
	next.Flags().IntVar(&s.DayOfMonth, "day-of-month", 0, "Day for monthly schedules")
	next.Flags().StringVar(&s.Time, "time", domain.DefaultScheduleTime, "Time of day HH:MM")
	next.Flags().StringVar(&s.Timezone, "timezone", "UTC", "IANA timezone")
	next.Flags().IntVar(&count, "count", 3, "Number of runs to print")
	cmd.AddCommand(next)

	return cmd
}
