package ingest

// validate enforces the six schema rules over the fully normalized table.
// Rules are checked in order and the first violated rule fails the whole
// ingestion, reporting every row that violates it.
func validate(format Format, header []string, rows []tradeRow) error {
	// Rule 1: required columns present. Structural problems already fail
	// during detection; kept as a final check for the native path.
	if format == FormatNative {
		if _, err := DetectFormat(header); err != nil {
			return &ValidationError{Rule: RuleRequiredColumns, Rows: schemaMissing(err)}
		}
	}

	// Rule 2: no empty values in required columns.
	if bad := collect(rows, func(r tradeRow) bool { return len(r.missing) > 0 }); len(bad) > 0 {
		return &ValidationError{Rule: RuleRequiredValues, Rows: bad}
	}

	// Rule 3: entry_time <= exit_time, equality allowed.
	if bad := collect(rows, func(r tradeRow) bool {
		return r.trade.ExitTime.Before(r.trade.EntryTime)
	}); len(bad) > 0 {
		return &ValidationError{Rule: RuleTimeOrder, Rows: bad}
	}

	// Rule 4: side is exactly long or short.
	if bad := collect(rows, func(r tradeRow) bool {
		return r.trade.Side != SideLong && r.trade.Side != SideShort
	}); len(bad) > 0 {
		return &ValidationError{Rule: RuleSideDomain, Rows: bad}
	}

	// Rule 5: qty and both prices strictly positive.
	if bad := collect(rows, func(r tradeRow) bool {
		return r.trade.Qty <= 0 || r.trade.EntryPrice <= 0 || r.trade.ExitPrice <= 0
	}); len(bad) > 0 {
		return &ValidationError{Rule: RulePositiveNumbers, Rows: bad}
	}

	// Rule 6: fees non-negative.
	if bad := collect(rows, func(r tradeRow) bool { return r.trade.Fees < 0 }); len(bad) > 0 {
		return &ValidationError{Rule: RuleNonNegativeFees, Rows: bad}
	}

	return nil
}

func collect(rows []tradeRow, violates func(tradeRow) bool) []string {
	var bad []string
	for _, r := range rows {
		if violates(r) {
			bad = append(bad, r.ident())
		}
	}
	return bad
}

func schemaMissing(err error) []string {
	if se, ok := err.(*SchemaError); ok {
		return se.Missing
	}
	return nil
}
