package grading

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SchoolSubject is one subject of a school exam.
type SchoolSubject struct {
	Name  string `json:"name"`
	Mark  Score  `json:"mark,omitzero"`
	OutOf Score  `json:"outOf,omitzero"`
}

// Failed reports whether the mark is strictly below half the maximum.
// Both values must be numeric for a subject to be classified as failed.
func (s SchoolSubject) Failed() bool {
	if !s.Mark.Valid() || !s.OutOf.Valid() {
		return false
	}
	return s.Mark.Decimal().LessThan(s.OutOf.Decimal().Div(decimal.NewFromInt(2)))
}

// SchoolSummary holds the derived fields of a school exam.
type SchoolSummary struct {
	Percentage decimal.Decimal
	Failed     []string
}

// SchoolResult computes the exam percentage and the failed subject names.
// Percentage is 100 * sum(mark) / sum(outOf) rounded to two places, and zero
// when the total maximum is zero. Failed names keep input order.
func SchoolResult(subjects []SchoolSubject) SchoolSummary {
	total := decimal.Zero
	outOf := decimal.Zero
	failed := make([]string, 0)

	for _, s := range subjects {
		total = total.Add(s.Mark.Decimal())
		outOf = outOf.Add(s.OutOf.Decimal())
		if s.Failed() {
			failed = append(failed, s.Name)
		}
	}

	return SchoolSummary{
		Percentage: Percentage(total, outOf),
		Failed:     failed,
	}
}

// Percentage returns 100 * part / whole rounded to two places, or zero when
// whole is zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}

// AveragePercentage is the plain mean of exam percentages, rounded to two
// places, and zero for no exams.
func AveragePercentage(percentages []decimal.Decimal) decimal.Decimal {
	return mean(percentages)
}
