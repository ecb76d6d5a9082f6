package grading

import "github.com/shopspring/decimal"

// PassMark is the lowest college mark that earns grade points.
var PassMark = decimal.NewFromInt(50)

// CollegeSubject is one subject of a college semester. Marks are out of 100.
type CollegeSubject struct {
	Name   string `json:"name"`
	Mark   Score  `json:"mark,omitzero"`
	Credit Score  `json:"credit,omitzero"`
}

// InArrears reports whether a numeric mark is below the pass mark. Blank
// marks read as zero and are in arrears; text marks never are.
func (s CollegeSubject) InArrears() bool {
	return s.Mark.Valid() && s.Mark.Decimal().LessThan(PassMark)
}

type breakpoint struct {
	min   decimal.Decimal
	point decimal.Decimal
}

var breakpoints = []breakpoint{
	{decimal.NewFromInt(90), decimal.NewFromInt(10)},
	{decimal.NewFromInt(80), decimal.NewFromInt(9)},
	{decimal.NewFromInt(70), decimal.NewFromInt(8)},
	{decimal.NewFromInt(60), decimal.NewFromInt(7)},
	{decimal.NewFromInt(50), decimal.NewFromInt(6)},
}

// GradePoint maps a mark to its grade point. ok is false below the pass mark.
func GradePoint(mark decimal.Decimal) (point decimal.Decimal, ok bool) {
	for _, bp := range breakpoints {
		if mark.GreaterThanOrEqual(bp.min) {
			return bp.point, true
		}
	}
	return decimal.Zero, false
}

// SemesterSummary holds the derived fields of a college semester.
type SemesterSummary struct {
	GPA     decimal.Decimal
	Arrears int
}

// SemesterResult computes GPA and arrears for a semester.
//
// A subject contributes to GPA only when its mark is numeric and at least the
// pass mark and its credit is numeric; everything else adds neither credit nor
// weighted score. Arrears counts numeric marks below the pass mark and does
// not depend on credits.
func SemesterResult(subjects []CollegeSubject) SemesterSummary {
	weighted := decimal.Zero
	credits := decimal.Zero
	arrears := 0

	for _, s := range subjects {
		if s.InArrears() {
			arrears++
		}
		if !s.Mark.Valid() || !s.Credit.Valid() {
			continue
		}
		point, ok := GradePoint(s.Mark.Decimal())
		if !ok {
			continue
		}
		weighted = weighted.Add(point.Mul(s.Credit.Decimal()))
		credits = credits.Add(s.Credit.Decimal())
	}

	gpa := decimal.Zero
	if !credits.IsZero() {
		gpa = weighted.Div(credits).Round(2)
	}
	return SemesterSummary{GPA: gpa, Arrears: arrears}
}

// CGPA is the plain mean of the stored semester GPAs, rounded to two places.
// It is not weighted by credits.
func CGPA(gpas []decimal.Decimal) decimal.Decimal {
	return mean(gpas)
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values)))).Round(2)
}
