package academic

import (
	"strings"

	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxSemesterLabelLength = 50

// CollegeSemester is one semester owned by a single user. A user holds at
// most one semester per label; GPA and Arrears are derived from Subjects.
type CollegeSemester struct {
	shared.OwnedAggregateRoot
	Semester string
	Subjects []grading.CollegeSubject
	GPA      decimal.Decimal
	Arrears  int
}

// NewCollegeSemester records a semester and computes its summary.
func NewCollegeSemester(ownerID uuid.UUID, label string, subjects []grading.CollegeSubject) (*CollegeSemester, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Semester owner is required")
	}
	label, err := NormalizeSemesterLabel(label)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeCollegeSubjects(subjects)
	if err != nil {
		return nil, err
	}

	sem := &CollegeSemester{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Semester:           label,
	}
	sem.apply(normalized)
	sem.AddDomainEvent(NewSemesterRecordedEvent(sem))
	return sem, nil
}

// ReplaceSubjects edits the semester in place.
func (s *CollegeSemester) ReplaceSubjects(subjects []grading.CollegeSubject) error {
	normalized, err := normalizeCollegeSubjects(subjects)
	if err != nil {
		return err
	}
	s.apply(normalized)
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSemesterUpdatedEvent(s))
	return nil
}

// MarkDeleted raises the deletion event before the repository removes the row.
func (s *CollegeSemester) MarkDeleted() {
	s.AddDomainEvent(NewSemesterDeletedEvent(s))
}

func (s *CollegeSemester) apply(subjects []grading.CollegeSubject) {
	summary := grading.SemesterResult(subjects)
	s.Subjects = subjects
	s.GPA = summary.GPA
	s.Arrears = summary.Arrears
}

// NormalizeSemesterLabel canonicalizes numbered labels to "Sem N" and
// rejects empty or oversized labels.
func NormalizeSemesterLabel(label string) (string, error) {
	label = grading.CanonicalSemesterLabel(label)
	if strings.TrimSpace(label) == "" {
		return "", shared.NewDomainError("INVALID_SEMESTER", "Semester label is required")
	}
	if len(label) > maxSemesterLabelLength {
		return "", shared.NewDomainError("INVALID_SEMESTER", "Semester label cannot exceed 50 characters")
	}
	return label, nil
}
