package academic

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/shared"
)

// MockSchoolExamRepository is a mock implementation of academic.SchoolExamRepository
type MockSchoolExamRepository struct {
	mock.Mock
}

func (m *MockSchoolExamRepository) Create(ctx context.Context, exam *academic.SchoolExam) error {
	return m.Called(ctx, exam).Error(0)
}

func (m *MockSchoolExamRepository) Update(ctx context.Context, exam *academic.SchoolExam) error {
	return m.Called(ctx, exam).Error(0)
}

func (m *MockSchoolExamRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*academic.SchoolExam, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.SchoolExam), args.Error(1)
}

func (m *MockSchoolExamRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]academic.SchoolExam, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]academic.SchoolExam), args.Error(1)
}

func (m *MockSchoolExamRepository) ExamNumbers(ctx context.Context, ownerID uuid.UUID) ([]int, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockSchoolExamRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

// MockCollegeSemesterRepository is a mock implementation of academic.CollegeSemesterRepository
type MockCollegeSemesterRepository struct {
	mock.Mock
}

func (m *MockCollegeSemesterRepository) Create(ctx context.Context, sem *academic.CollegeSemester) error {
	return m.Called(ctx, sem).Error(0)
}

func (m *MockCollegeSemesterRepository) Update(ctx context.Context, sem *academic.CollegeSemester) error {
	return m.Called(ctx, sem).Error(0)
}

func (m *MockCollegeSemesterRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*academic.CollegeSemester, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.CollegeSemester), args.Error(1)
}

func (m *MockCollegeSemesterRepository) FindByLabel(ctx context.Context, ownerID uuid.UUID, label string) (*academic.CollegeSemester, error) {
	args := m.Called(ctx, ownerID, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.CollegeSemester), args.Error(1)
}

func (m *MockCollegeSemesterRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]academic.CollegeSemester, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]academic.CollegeSemester), args.Error(1)
}

func (m *MockCollegeSemesterRepository) Labels(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCollegeSemesterRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

// recordingPublisher keeps every published event type.
type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.types = append(p.types, e.EventType())
	}
	return nil
}

func schoolSubject(name string, mark, outOf float64) grading.SchoolSubject {
	return grading.SchoolSubject{Name: name, Mark: grading.NewScore(mark), OutOf: grading.NewScore(outOf)}
}

func collegeSubject(name string, mark, credit float64) grading.CollegeSubject {
	return grading.CollegeSubject{Name: name, Mark: grading.NewScore(mark), Credit: grading.NewScore(credit)}
}
