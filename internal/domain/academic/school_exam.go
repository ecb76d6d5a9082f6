package academic

import (
	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxExamNumber is the highest exam number a user can record.
const MaxExamNumber = 1000

// SchoolExam is one school exam owned by a single user. Percentage and
// Failed are always derived from Subjects.
type SchoolExam struct {
	shared.OwnedAggregateRoot
	ExamNumber int
	Subjects   []grading.SchoolSubject
	Percentage decimal.Decimal
	Failed     []string
}

// NewSchoolExam records an exam and computes its summary.
func NewSchoolExam(ownerID uuid.UUID, examNumber int, subjects []grading.SchoolSubject) (*SchoolExam, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Exam owner is required")
	}
	if examNumber < 1 || examNumber > MaxExamNumber {
		return nil, shared.NewDomainError("INVALID_EXAM_NUMBER", "Exam number must be between 1 and 1000")
	}
	normalized, err := normalizeSchoolSubjects(subjects)
	if err != nil {
		return nil, err
	}

	exam := &SchoolExam{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ExamNumber:         examNumber,
	}
	exam.apply(normalized)
	exam.AddDomainEvent(NewExamRecordedEvent(exam))
	return exam, nil
}

// ReplaceSubjects swaps the whole subject list and recomputes the summary.
func (e *SchoolExam) ReplaceSubjects(subjects []grading.SchoolSubject) error {
	normalized, err := normalizeSchoolSubjects(subjects)
	if err != nil {
		return err
	}
	e.apply(normalized)
	e.Touch()
	e.IncrementVersion()
	e.AddDomainEvent(NewExamUpdatedEvent(e))
	return nil
}

// MarkDeleted raises the deletion event before the repository removes the row.
func (e *SchoolExam) MarkDeleted() {
	e.AddDomainEvent(NewExamDeletedEvent(e))
}

func (e *SchoolExam) apply(subjects []grading.SchoolSubject) {
	summary := grading.SchoolResult(subjects)
	e.Subjects = subjects
	e.Percentage = summary.Percentage
	e.Failed = summary.Failed
}
