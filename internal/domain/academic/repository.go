package academic

import (
	"context"

	"github.com/google/uuid"
)

// SchoolExamRepository persists school exams. Every query is scoped to the
// owning user; a record owned by someone else is reported as not found.
type SchoolExamRepository interface {
	Create(ctx context.Context, exam *SchoolExam) error
	Update(ctx context.Context, exam *SchoolExam) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*SchoolExam, error)
	FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]SchoolExam, error)
	ExamNumbers(ctx context.Context, ownerID uuid.UUID) ([]int, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// CollegeSemesterRepository persists college semesters. Create returns
// ErrDuplicateSemester when the (owner, label) unique index rejects it.
type CollegeSemesterRepository interface {
	Create(ctx context.Context, semester *CollegeSemester) error
	Update(ctx context.Context, semester *CollegeSemester) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*CollegeSemester, error)
	FindByLabel(ctx context.Context, ownerID uuid.UUID, label string) (*CollegeSemester, error)
	FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]CollegeSemester, error)
	Labels(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
