package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
)

func newMonthlyCmd(flags *rootFlags) *cobra.Command {
	var month string
	var unlocked int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Show the monthly wrapped",
		Long:  `Summarize one calendar month (default: current month in --tz) and print the share text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := flags.location()
			if err != nil {
				return err
			}
			events, err := loadEvents(flags.file, cmd.InOrStdin(), loc)
			if err != nil {
				return err
			}

			now := time.Now().In(loc)
			ref := now
			if v := strings.TrimSpace(month); v != "" {
				ref, err = time.ParseInLocation("2006-01", v, loc)
				if err != nil {
					return errors.New("--month must be YYYY-MM")
				}
			}

			s := insights.BuildMonthlySummary(events, ref, now)
			s.AchievementsUnlocked = unlocked
			printMonthly(cmd, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to summarize (YYYY-MM)")
	cmd.Flags().IntVar(&unlocked, "unlocked", 0, "achievements unlocked during the month")
	return cmd
}

func printMonthly(cmd *cobra.Command, s insights.MonthlySummary) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(out, "\n%s\n\n", cyan(fmt.Sprintf("=== %s ===", s.Month.Format("January 2006"))))

	if s.TotalLogs == 0 {
		fmt.Fprintf(out, "  %s\n\n", gray("No logs this month"))
	} else {
		fmt.Fprintf(out, "  Logs:            %d\n", s.TotalLogs)
		fmt.Fprintf(out, "  Throne time:     %s\n", insights.FormatDuration(s.TotalDurationSeconds))
		fmt.Fprintf(out, "  Avg duration:    %s\n", insights.FormatDuration(s.AvgDurationSeconds))
		fmt.Fprintf(out, "  Avg consistency: %.1f\n", s.AvgConsistency)
		fmt.Fprintf(out, "  Favorite hour:   %s\n", s.MostCommonTime)
		fmt.Fprintf(out, "  Health score:    %s\n\n", scoreColor(s.HealthScore)(fmt.Sprintf("%d/100", s.HealthScore)))
		printAlerts(cmd, s.HealthAlerts)
	}

	fmt.Fprintf(out, "%s\n%s\n", yellow("Share:"), insights.MonthlyShareText(s))
}
