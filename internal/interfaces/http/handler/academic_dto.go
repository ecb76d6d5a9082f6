package handler

import "github.com/acadtrack/backend/internal/domain/grading"

// CreateExamRequest records a school exam. Omit exam_number to take the
// lowest free number.
type CreateExamRequest struct {
	ExamNumber *int                    `json:"exam_number" binding:"omitempty,gte=1,lte=1000"`
	Subjects   []grading.SchoolSubject `json:"subjects" binding:"required,max=50"`
}

// UpdateExamRequest replaces the subjects of an exam
type UpdateExamRequest struct {
	Subjects []grading.SchoolSubject `json:"subjects" binding:"required,max=50"`
}

// CreateSemesterRequest records a college semester. Omit semester to take
// the lowest free "Sem N".
type CreateSemesterRequest struct {
	Semester string                   `json:"semester" binding:"omitempty,max=50"`
	Subjects []grading.CollegeSubject `json:"subjects" binding:"required,max=50"`
}

// UpdateSemesterRequest replaces the subjects of a semester
type UpdateSemesterRequest struct {
	Subjects []grading.CollegeSubject `json:"subjects" binding:"required,max=50"`
}
