package models

import "fmt"

// Report is the field-by-field reconciliation of a candidate against an entry.
// Observed nullable/pii are present when that field was compared; expected values
// only when it mismatched.
type Report struct {
	ColumnName       string       `json:"columnName"`
	ColumnType       string       `json:"columnType"`
	ExpectedType     string       `json:"expectedType"`
	IsNullable       OptionalBool `json:"isNullable,omitzero"`
	ExpectedNullable OptionalBool `json:"expectedNullable,omitzero"`
	IsPII            OptionalBool `json:"isPII,omitzero"`
	ExpectedPII      OptionalBool `json:"expectedPII,omitzero"`
	Reason           []string     `json:"reason"`
}

// Passed reports whether no field disagreed.
func (r *Report) Passed() bool {
	return len(r.Reason) == 0
}

// NotFoundReport is the two-field body returned for an undeclared column.
type NotFoundReport struct {
	Error      string `json:"error"`
	ColumnName string `json:"columnName"`
}

// Reconcile compares observed against expected. Reasons are appended in the order
// type, nullable, pii. A side that is absent is skipped, never a mismatch.
func Reconcile(expected Entry, observed Candidate) *Report {
	r := &Report{
		ColumnName:   observed.Name,
		ColumnType:   observed.Type,
		ExpectedType: expected.Type,
		Reason:       []string{},
	}

	if observed.Type != "" && !SameType(observed.Type, expected.Type) {
		r.Reason = append(r.Reason, fmt.Sprintf(
			"column type %s does not match expected type %s", observed.Type, expected.Type))
	}

	if expected.Nullable.Set && observed.Nullable.Set {
		r.IsNullable = observed.Nullable
		if observed.Nullable.Value != expected.Nullable.Value {
			r.ExpectedNullable = expected.Nullable
			r.Reason = append(r.Reason, fmt.Sprintf(
				"column nullability %t does not match expected nullability %t",
				observed.Nullable.Value, expected.Nullable.Value))
		}
	}

	if expected.PII.Set && observed.PII.Set {
		r.IsPII = observed.PII
		if observed.PII.Value != expected.PII.Value {
			r.ExpectedPII = expected.PII
			r.Reason = append(r.Reason, fmt.Sprintf(
				"column PII flag %t does not match expected PII flag %t",
				observed.PII.Value, expected.PII.Value))
		}
	}

	return r
}
