package academic

import (
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSchoolExam      = "SchoolExam"
	AggregateTypeCollegeSemester = "CollegeSemester"
)

// Record event types
const (
	EventTypeExamRecorded     = "ExamRecorded"
	EventTypeExamUpdated      = "ExamUpdated"
	EventTypeExamDeleted      = "ExamDeleted"
	EventTypeSemesterRecorded = "SemesterRecorded"
	EventTypeSemesterUpdated  = "SemesterUpdated"
	EventTypeSemesterDeleted  = "SemesterDeleted"
)

// ExamEvent carries the summary of a school exam at the time of the change.
type ExamEvent struct {
	shared.BaseDomainEvent
	ExamNumber  int             `json:"exam_number"`
	Percentage  decimal.Decimal `json:"percentage"`
	FailedCount int             `json:"failed_count"`
}

func newExamEvent(eventType string, e *SchoolExam) *ExamEvent {
	return &ExamEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSchoolExam, e.ID, e.OwnerID),
		ExamNumber:      e.ExamNumber,
		Percentage:      e.Percentage,
		FailedCount:     len(e.Failed),
	}
}

func NewExamRecordedEvent(e *SchoolExam) *ExamEvent { return newExamEvent(EventTypeExamRecorded, e) }
func NewExamUpdatedEvent(e *SchoolExam) *ExamEvent  { return newExamEvent(EventTypeExamUpdated, e) }
func NewExamDeletedEvent(e *SchoolExam) *ExamEvent  { return newExamEvent(EventTypeExamDeleted, e) }

// SemesterEvent carries the summary of a college semester at the time of
// the change.
type SemesterEvent struct {
	shared.BaseDomainEvent
	Semester string          `json:"semester"`
	GPA      decimal.Decimal `json:"gpa"`
	Arrears  int             `json:"arrears"`
}

func newSemesterEvent(eventType string, s *CollegeSemester) *SemesterEvent {
	return &SemesterEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCollegeSemester, s.ID, s.OwnerID),
		Semester:        s.Semester,
		GPA:             s.GPA,
		Arrears:         s.Arrears,
	}
}

func NewSemesterRecordedEvent(s *CollegeSemester) *SemesterEvent {
	return newSemesterEvent(EventTypeSemesterRecorded, s)
}

func NewSemesterUpdatedEvent(s *CollegeSemester) *SemesterEvent {
	return newSemesterEvent(EventTypeSemesterUpdated, s)
}

func NewSemesterDeletedEvent(s *CollegeSemester) *SemesterEvent {
	return newSemesterEvent(EventTypeSemesterDeleted, s)
}
