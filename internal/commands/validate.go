package commands

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"nlpayroll/internal/domain/payroll"
)

type validationReport struct {
	Status   string                    `json:"status"`
	Totals   payroll.Totals            `json:"totals"`
	Findings []payroll.ValidationError `json:"findings"`
}

func newValidateCommand() *cobra.Command {
	var flags returnFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Build a return and report its validation findings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ret, findings, err := flags.prepare(cmd)
			if err != nil {
				return err
			}
			if findings == nil {
				findings = []payroll.ValidationError{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(validationReport{Status: ret.Status, Totals: ret.Totals, Findings: findings}); err != nil {
				return err
			}
			if payroll.HasBlockingFindings(findings) {
				return errBlockingFindings
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
