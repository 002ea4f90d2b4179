package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
)

func newHealthCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the health score and alerts",
		Long:  `Score the whole history (0-100) and list alerts from the last 7 days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := flags.location()
			if err != nil {
				return err
			}
			events, err := loadEvents(flags.file, cmd.InOrStdin(), loc)
			if err != nil {
				return err
			}

			score := insights.HealthScore(events)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Health score: %s\n\n", scoreColor(score)(fmt.Sprintf("%d/100", score)))
			printAlerts(cmd, insights.HealthAlerts(events, time.Now().In(loc)))
			return nil
		},
	}
}

func scoreColor(score int) func(a ...interface{}) string {
	switch {
	case score >= 70:
		return color.New(color.FgGreen).SprintFunc()
	case score >= 40:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed).SprintFunc()
	}
}

func printAlerts(cmd *cobra.Command, alerts []insights.HealthAlert) {
	out := cmd.OutOrStdout()
	if len(alerts) == 0 {
		fmt.Fprintf(out, "  %s\n\n", color.New(color.FgGreen).Sprint("✓ No alerts this week"))
		return
	}

	for _, a := range alerts {
		icon := color.New(color.FgCyan).Sprint("ℹ")
		switch a.Severity {
		case insights.SeverityCaution:
			icon = color.New(color.FgYellow).Sprint("⚠")
		case insights.SeverityWarning:
			icon = color.New(color.FgRed).Sprint("🚨")
		}
		fmt.Fprintf(out, "  %s %s\n", icon, a.Message)
		fmt.Fprintf(out, "    %s\n", a.Recommendation)
	}
	fmt.Fprintln(out)
}
