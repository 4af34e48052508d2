package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nlpayroll/internal/domain/payroll"
)

func newXMLCommand() *cobra.Command {
	var flags returnFlags
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "xml",
		Short: "Render the loonaangifte submission file for a return request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, ret, findings, err := flags.prepare(cmd)
			if err != nil {
				return err
			}

			writeFindings(cmd.ErrOrStderr(), findings)
			if payroll.HasBlockingFindings(findings) && !force {
				return errBlockingFindings
			}

			doc := payroll.GenerateLoonaangifteXML(ret, req.Company)
			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(output, []byte(doc), 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the XML to this file instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "render even when validation reports errors")

	return cmd
}
