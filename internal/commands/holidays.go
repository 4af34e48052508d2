package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"nlpayroll/internal/domain/calendar"
)

func newHolidaysCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the Dutch public holidays of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year < 1583 || year > 9999 {
				return fmt.Errorf("year %d is outside the Gregorian range", year)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, holiday := range calendar.PublicHolidays(year) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", holiday.Date.Format("2006-01-02"), holiday.Date.Weekday(), holiday.Name)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year")

	return cmd
}
