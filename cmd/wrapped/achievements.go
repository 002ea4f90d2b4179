package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
)

func newAchievementsCmd(flags *rootFlags) *cobra.Command {
	var (
		unlockedCSV string
		aux         insights.AuxStats
	)

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Evaluate the achievement catalog",
		Long: `Evaluate the 11 achievements against the export. Achievements passed with
--unlocked are shown as already unlocked; the rest are marked NEW when their rule holds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := flags.location()
			if err != nil {
				return err
			}
			events, err := loadEvents(flags.file, cmd.InOrStdin(), loc)
			if err != nil {
				return err
			}

			have, err := parseUnlocked(unlockedCSV)
			if err != nil {
				return err
			}
			fresh := insights.NewlyUnlocked(events, have, aux)

			printAchievements(cmd, have, fresh)
			return nil
		},
	}
	cmd.Flags().StringVar(&unlockedCSV, "unlocked", "", "already unlocked achievement ids (CSV)")
	cmd.Flags().IntVar(&aux.FriendCount, "friends", 0, "accepted friends")
	cmd.Flags().IntVar(&aux.BidetVenuesRated, "bidet", 0, "bidet venues rated")
	cmd.Flags().IntVar(&aux.LongestStreak, "streak", 0, "longest streak in days")
	return cmd
}

func parseUnlocked(csv string) ([]insights.AchievementID, error) {
	out := make([]insights.AchievementID, 0)
	for _, p := range strings.Split(csv, ",") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		id, ok := insights.ParseAchievementID(p)
		if !ok {
			return nil, fmt.Errorf("unknown achievement %q", strings.TrimSpace(p))
		}
		out = append(out, id)
	}
	return out, nil
}

func printAchievements(cmd *cobra.Command, have, fresh []insights.AchievementID) {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	magenta := color.New(color.FgMagenta, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	state := make(map[insights.AchievementID]string, len(have)+len(fresh))
	for _, id := range have {
		state[id] = "have"
	}
	for _, id := range fresh {
		state[id] = "new"
	}

	catalog := insights.Catalog()
	for _, a := range catalog {
		switch state[a.ID] {
		case "have":
			fmt.Fprintf(out, "  %s %s %s\n", green("✓"), a.Emoji, a.Name)
		case "new":
			fmt.Fprintf(out, "  %s %s %s %s\n", green("✓"), a.Emoji, a.Name, magenta("NEW"))
		default:
			fmt.Fprintf(out, "  %s %s %s\n", gray("○"), gray(a.Emoji), gray(a.Name+" - "+a.Description))
		}
	}

	fmt.Fprintf(out, "\n%s\n", insights.AchievementsShareText(len(state), len(catalog)))
}
