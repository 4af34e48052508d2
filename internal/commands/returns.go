package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"nlpayroll/internal/domain/payroll"
)

var errBlockingFindings = errors.New("tax return has blocking findings")

type returnFlags struct {
	input     string
	ratesFile string
}

func (f *returnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "input", "", "return request JSON file, - for stdin (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVar(&f.ratesFile, "rates", os.Getenv("RATES_FILE"), "YAML file with extra rate tables")
}

// prepare reads the request and builds the validated return.
func (f *returnFlags) prepare(cmd *cobra.Command) (payroll.ReturnRequest, payroll.TaxReturn, []payroll.ValidationError, error) {
	req, err := readReturnRequest(cmd.InOrStdin(), f.input)
	if err != nil {
		return payroll.ReturnRequest{}, payroll.TaxReturn{}, nil, err
	}

	rates := payroll.DefaultRegistry()
	if err := rates.RegisterFile(f.ratesFile); err != nil {
		return payroll.ReturnRequest{}, payroll.TaxReturn{}, nil, fmt.Errorf("loading rates: %w", err)
	}

	ret, findings := payroll.NewService(nil, rates, nil, nil).Prepare(req)
	return req, ret, findings, nil
}

func readReturnRequest(stdin io.Reader, path string) (payroll.ReturnRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return payroll.ReturnRequest{}, fmt.Errorf("reading input: %w", err)
	}

	var req payroll.ReturnRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return payroll.ReturnRequest{}, fmt.Errorf("parsing input: %w", err)
	}
	periodType, err := payroll.ParsePeriodType(string(req.PeriodType))
	if err != nil {
		return payroll.ReturnRequest{}, err
	}
	req.PeriodType = periodType
	if periodType == payroll.PeriodYearly {
		req.PeriodNumber = 0
	}
	return req, nil
}

func writeFindings(w io.Writer, findings []payroll.ValidationError) {
	for _, f := range findings {
		subject := f.Field
		if f.EmployeeID != "" {
			subject = f.EmployeeID + " " + f.Field
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Severity, f.Code, subject, f.Message)
	}
}
