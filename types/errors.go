package types

import (
	"fmt"
	"strings"
	"time"
)

// IncompleteStatementError reports required line items missing from a
// statement. It is fatal to that statement's use only; other statement
// types still produce partial results.
type IncompleteStatementError struct {
	StatementType StatementType
	Missing       []string
}

func (e *IncompleteStatementError) Error() string {
	return fmt.Sprintf("incomplete %s statement: missing %s", e.StatementType, strings.Join(e.Missing, ", "))
}

// InvalidPeriodError reports a statement whose period_end is not
// strictly after its period_start.
type InvalidPeriodError struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid statement period: end %s is not after start %s",
		e.PeriodEnd.Format("2006-01-02"), e.PeriodStart.Format("2006-01-02"))
}

// NoDataAvailableError reports that no usable statement of any type
// exists for the company. It is the only condition fatal to a whole
// assessment request.
type NoDataAvailableError struct {
	CompanyID string
}

func (e *NoDataAvailableError) Error() string {
	return fmt.Sprintf("no usable financial statements available for company %s", e.CompanyID)
}
