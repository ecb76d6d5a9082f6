package academic

import (
	"strings"
	"testing"

	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collegeSubject(name string, mark, credit float64) grading.CollegeSubject {
	return grading.CollegeSubject{Name: name, Mark: grading.NewScore(mark), Credit: grading.NewScore(credit)}
}

func TestNewCollegeSemester(t *testing.T) {
	owner := uuid.New()

	t.Run("derives gpa and arrears", func(t *testing.T) {
		sem, err := NewCollegeSemester(owner, "Sem 1", []grading.CollegeSubject{
			collegeSubject("DSA", 95, 4),
			collegeSubject("OS", 45, 3),
		})

		require.NoError(t, err)
		assert.Equal(t, "Sem 1", sem.Semester)
		assert.Equal(t, "10.00", sem.GPA.StringFixed(2))
		assert.Equal(t, 1, sem.Arrears)
		require.Len(t, sem.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeSemesterRecorded, sem.GetDomainEvents()[0].EventType())
	})

	t.Run("canonicalizes numbered labels", func(t *testing.T) {
		sem, err := NewCollegeSemester(owner, "semester 3", nil)
		require.NoError(t, err)
		assert.Equal(t, "Sem 3", sem.Semester)
	})

	t.Run("requires a label", func(t *testing.T) {
		_, err := NewCollegeSemester(owner, "  ", nil)
		require.Error(t, err)
	})

	t.Run("rejects oversized labels", func(t *testing.T) {
		_, err := NewCollegeSemester(owner, strings.Repeat("x", 51), nil)
		require.Error(t, err)
	})

	t.Run("rejects marks above 100", func(t *testing.T) {
		_, err := NewCollegeSemester(owner, "Sem 1", []grading.CollegeSubject{collegeSubject("DSA", 101, 4)})
		require.Error(t, err)
	})

	t.Run("rejects negative credits", func(t *testing.T) {
		_, err := NewCollegeSemester(owner, "Sem 1", []grading.CollegeSubject{collegeSubject("DSA", 80, -1)})
		require.Error(t, err)
	})

	t.Run("tolerates non-numeric credit", func(t *testing.T) {
		sem, err := NewCollegeSemester(owner, "Sem 1", []grading.CollegeSubject{
			{Name: "Lab", Mark: grading.NewScore(88), Credit: grading.ParseScore("two")},
		})
		require.NoError(t, err)
		assert.True(t, sem.GPA.IsZero())
	})
}

func TestCollegeSemester_ReplaceSubjects(t *testing.T) {
	sem, err := NewCollegeSemester(uuid.New(), "Sem 2", []grading.CollegeSubject{collegeSubject("DSA", 40, 4)})
	require.NoError(t, err)
	assert.Equal(t, 1, sem.Arrears)

	require.NoError(t, sem.ReplaceSubjects([]grading.CollegeSubject{collegeSubject("DSA", 72, 4)}))
	assert.Equal(t, "8.00", sem.GPA.StringFixed(2))
	assert.Zero(t, sem.Arrears)
	assert.Equal(t, "Sem 2", sem.Semester)
	assert.Equal(t, 2, sem.GetVersion())
}

func TestSemesterDeletedEvent(t *testing.T) {
	sem, err := NewCollegeSemester(uuid.New(), "Sem 2", nil)
	require.NoError(t, err)
	sem.ClearDomainEvents()

	sem.MarkDeleted()

	events := sem.GetDomainEvents()
	require.Len(t, events, 1)
	deleted, ok := events[0].(*SemesterEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeSemesterDeleted, deleted.EventType())
	assert.Equal(t, "Sem 2", deleted.Semester)
}
