package payroll

import "errors"

var (
	ErrReturnNotFound    = errors.New("tax return not found")
	ErrInvalidRates      = errors.New("invalid rate table")
	ErrUnknownPeriodType = errors.New("unknown period type")
	ErrArchiveDisabled   = errors.New("tax return archive is not configured")
)
