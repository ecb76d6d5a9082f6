package academic

import (
	"strings"

	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	maxSubjects          = 50
	maxSubjectNameLength = 100
)

var maxCollegeMark = decimal.NewFromInt(100)

func validateSubjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError("INVALID_SUBJECT", "Subject name is required")
	}
	if len(name) > maxSubjectNameLength {
		return "", shared.NewDomainError("INVALID_SUBJECT", "Subject name cannot exceed 100 characters")
	}
	return name, nil
}

// normalizeSchoolSubjects validates names and numeric ranges. Non-numeric
// marks are kept as they are; grading counts them as zero.
func normalizeSchoolSubjects(subjects []grading.SchoolSubject) ([]grading.SchoolSubject, error) {
	if len(subjects) > maxSubjects {
		return nil, shared.NewDomainError("TOO_MANY_SUBJECTS", "An exam cannot have more than 50 subjects")
	}
	out := make([]grading.SchoolSubject, 0, len(subjects))
	for _, s := range subjects {
		name, err := validateSubjectName(s.Name)
		if err != nil {
			return nil, err
		}
		if s.Mark.IsNegative() || s.OutOf.IsNegative() {
			return nil, shared.NewDomainError("INVALID_MARK", "Marks cannot be negative")
		}
		s.Name = name
		out = append(out, s)
	}
	return out, nil
}

func normalizeCollegeSubjects(subjects []grading.CollegeSubject) ([]grading.CollegeSubject, error) {
	if len(subjects) > maxSubjects {
		return nil, shared.NewDomainError("TOO_MANY_SUBJECTS", "A semester cannot have more than 50 subjects")
	}
	out := make([]grading.CollegeSubject, 0, len(subjects))
	for _, s := range subjects {
		name, err := validateSubjectName(s.Name)
		if err != nil {
			return nil, err
		}
		if s.Mark.IsNegative() || s.Mark.GreaterThan(maxCollegeMark) {
			return nil, shared.NewDomainError("INVALID_MARK", "College marks must be between 0 and 100")
		}
		if s.Credit.IsNegative() {
			return nil, shared.NewDomainError("INVALID_CREDIT", "Credits cannot be negative")
		}
		s.Name = name
		out = append(out, s)
	}
	return out, nil
}
