package academic

import "github.com/acadtrack/backend/internal/domain/shared"

// Record faults surfaced to callers.
var (
	ErrExamNotFound      = shared.NewDomainError("NOT_FOUND", "Exam not found")
	ErrSemesterNotFound  = shared.NewDomainError("NOT_FOUND", "Semester not found")
	ErrDuplicateSemester = shared.NewDomainError("SEMESTER_EXISTS", "Semester already recorded")
	ErrDuplicateExam     = shared.NewDomainError("EXAM_EXISTS", "Exam number already recorded")
)
