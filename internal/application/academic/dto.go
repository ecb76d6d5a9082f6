package academic

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/grading"
)

// CreateExamInput records a school exam. A nil ExamNumber takes the lowest
// free number.
type CreateExamInput struct {
	ExamNumber *int
	Subjects   []grading.SchoolSubject
}

// ExamResponse is the public view of a school exam.
type ExamResponse struct {
	ID         uuid.UUID               `json:"id"`
	ExamNumber int                     `json:"exam_number"`
	Subjects   []grading.SchoolSubject `json:"subjects"`
	Percentage decimal.Decimal         `json:"percentage"`
	Failed     []string                `json:"failed"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

func toExamResponse(e *academic.SchoolExam) ExamResponse {
	return ExamResponse{
		ID:         e.ID,
		ExamNumber: e.ExamNumber,
		Subjects:   e.Subjects,
		Percentage: e.Percentage,
		Failed:     e.Failed,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// SchoolSummary aggregates every exam of one user.
type SchoolSummary struct {
	ExamCount         int             `json:"exam_count"`
	NextExamNumber    int             `json:"next_exam_number"`
	AveragePercentage decimal.Decimal `json:"average_percentage"`
	TotalFailed       int             `json:"total_failed"`
}

// CreateSemesterInput records a college semester. An empty Semester takes
// the lowest free "Sem N".
type CreateSemesterInput struct {
	Semester string
	Subjects []grading.CollegeSubject
}

// SemesterResponse is the public view of a college semester.
type SemesterResponse struct {
	ID        uuid.UUID                `json:"id"`
	Semester  string                   `json:"semester"`
	Subjects  []grading.CollegeSubject `json:"subjects"`
	GPA       decimal.Decimal          `json:"gpa"`
	Arrears   int                      `json:"arrears"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

func toSemesterResponse(s *academic.CollegeSemester) SemesterResponse {
	return SemesterResponse{
		ID:        s.ID,
		Semester:  s.Semester,
		Subjects:  s.Subjects,
		GPA:       s.GPA,
		Arrears:   s.Arrears,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// CollegeSummary aggregates every semester of one user.
type CollegeSummary struct {
	SemesterCount int             `json:"semester_count"`
	CGPA          decimal.Decimal `json:"cgpa"`
	TotalArrears  int             `json:"total_arrears"`
	NextSemester  string          `json:"next_semester"`
}
