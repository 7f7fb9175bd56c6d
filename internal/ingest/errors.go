package ingest

import (
	"fmt"
	"strings"
)

// Validation rule identifiers, in enforcement order.
const (
	RuleRequiredColumns = "required-columns"
	RuleRequiredValues  = "required-values"
	RuleTimeOrder       = "time-order"
	RuleSideDomain      = "side-domain"
	RulePositiveNumbers = "positive-numbers"
	RuleNonNegativeFees = "non-negative-fees"
)

// SchemaError reports that the file matches neither supported format, or that
// required columns are missing. Ingestion aborts and no rows are returned.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 {
		return "unrecognized CSV format"
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseError reports a field that could not be coerced to its required type.
// Row is the 1-based position of the data row in the file, header excluded.
type ParseError struct {
	Row   int
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse %s value %q", e.Row, e.Field, e.Value)
}

// ValidationError reports one violated schema rule together with every row
// that violates it. Rows holds trade ids where the source provided them,
// otherwise row positions.
type ValidationError struct {
	Rule string
	Rows []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule %s violated by: %s", e.Rule, strings.Join(e.Rows, ", "))
}
