package models

import (
	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Unique index names on the record tables.
const (
	SchoolExamsUserNumberIndex     = "uq_school_exams_user_exam_number"
	CollegeSemestersUserLabelIndex = "uq_college_semesters_user_semester"
)

// SchoolExamModel stores one exam; subjects and failed names are JSON.
type SchoolExamModel struct {
	AggregateModel
	UserID     uuid.UUID                                   `gorm:"type:uuid;not null;index;uniqueIndex:uq_school_exams_user_exam_number,priority:1"`
	ExamNumber int                                         `gorm:"not null;uniqueIndex:uq_school_exams_user_exam_number,priority:2"`
	Subjects   datatypes.JSONType[[]grading.SchoolSubject] `gorm:"not null"`
	Percentage decimal.Decimal                             `gorm:"type:numeric;not null;default:0"`
	Failed     datatypes.JSONSlice[string]                 `gorm:"not null"`
}

func (SchoolExamModel) TableName() string {
	return "school_exams"
}

func (m *SchoolExamModel) ToDomain() *academic.SchoolExam {
	failed := []string(m.Failed)
	if failed == nil {
		failed = []string{}
	}
	subjects := m.Subjects.Data()
	if subjects == nil {
		subjects = []grading.SchoolSubject{}
	}
	return &academic.SchoolExam{
		OwnedAggregateRoot: shared.OwnedAggregateRoot{
			BaseAggregateRoot: m.toDomain(),
			OwnerID:           m.UserID,
		},
		ExamNumber: m.ExamNumber,
		Subjects:   subjects,
		Percentage: m.Percentage,
		Failed:     failed,
	}
}

func SchoolExamModelFromDomain(e *academic.SchoolExam) *SchoolExamModel {
	failed := e.Failed
	if failed == nil {
		failed = []string{}
	}
	subjects := e.Subjects
	if subjects == nil {
		subjects = []grading.SchoolSubject{}
	}
	m := &SchoolExamModel{
		UserID:     e.OwnerID,
		ExamNumber: e.ExamNumber,
		Subjects:   datatypes.NewJSONType(subjects),
		Percentage: e.Percentage,
		Failed:     datatypes.JSONSlice[string](failed),
	}
	m.fromDomain(e.BaseAggregateRoot)
	return m
}

// CollegeSemesterModel stores one semester; (user_id, semester) is unique.
type CollegeSemesterModel struct {
	AggregateModel
	UserID   uuid.UUID                                    `gorm:"type:uuid;not null;index;uniqueIndex:uq_college_semesters_user_semester,priority:1"`
	Semester string                                       `gorm:"type:varchar(50);not null;uniqueIndex:uq_college_semesters_user_semester,priority:2"`
	Subjects datatypes.JSONType[[]grading.CollegeSubject] `gorm:"not null"`
	GPA      decimal.Decimal                              `gorm:"column:gpa;type:numeric(4,2);not null;default:0"`
	Arrears  int                                          `gorm:"not null;default:0"`
}

func (CollegeSemesterModel) TableName() string {
	return "college_semesters"
}

func (m *CollegeSemesterModel) ToDomain() *academic.CollegeSemester {
	subjects := m.Subjects.Data()
	if subjects == nil {
		subjects = []grading.CollegeSubject{}
	}
	return &academic.CollegeSemester{
		OwnedAggregateRoot: shared.OwnedAggregateRoot{
			BaseAggregateRoot: m.toDomain(),
			OwnerID:           m.UserID,
		},
		Semester: m.Semester,
		Subjects: subjects,
		GPA:      m.GPA,
		Arrears:  m.Arrears,
	}
}

func CollegeSemesterModelFromDomain(s *academic.CollegeSemester) *CollegeSemesterModel {
	subjects := s.Subjects
	if subjects == nil {
		subjects = []grading.CollegeSubject{}
	}
	m := &CollegeSemesterModel{
		UserID:   s.OwnerID,
		Semester: s.Semester,
		Subjects: datatypes.NewJSONType(subjects),
		GPA:      s.GPA,
		Arrears:  s.Arrears,
	}
	m.fromDomain(s.BaseAggregateRoot)
	return m
}
