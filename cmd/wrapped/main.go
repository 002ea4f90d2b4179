// Command wrapped calcula el resumen mensual, los logros y el puntaje de
// bienestar a partir de un export JSON de registros, sin servidor ni base.
package main

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	file string
	tz   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "wrapped",
		Short:         "PooPals offline reports",
		Long:          `Compute the monthly wrapped, achievements and health score from a JSON export of logs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.file, "file", "f", "", "JSON export of logs (\"-\" for stdin)")
	root.PersistentFlags().StringVar(&flags.tz, "tz", "UTC", "IANA timezone of the user")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(newMonthlyCmd(flags))
	root.AddCommand(newAchievementsCmd(flags))
	root.AddCommand(newHealthCmd(flags))
	return root
}

func (f *rootFlags) location() (*time.Location, error) {
	loc, err := time.LoadLocation(f.tz)
	if err != nil {
		return nil, fmt.Errorf("invalid --tz %q: %w", f.tz, err)
	}
	return loc, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
