//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/identity"
	"github.com/acadtrack/backend/internal/infrastructure/migration"
	"github.com/acadtrack/backend/migrations"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgresDB starts a disposable postgres container and applies the SQL
// migrations to it.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("acadtrack_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func TestPostgres_UniqueViolationsAreClassified(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	users := NewGormUserRepository(db)

	first := newTestUser(t, "Asha", "asha@example.com", "asha1")
	require.NoError(t, users.Create(ctx, first))

	assert.ErrorIs(t, users.Create(ctx, newTestUser(t, "B", "asha@example.com", "b1")), identity.ErrEmailTaken)
	assert.ErrorIs(t, users.Create(ctx, newTestUser(t, "C", "c@example.com", "asha1")), identity.ErrUsernameTaken)

	semesters := NewGormCollegeSemesterRepository(db)
	require.NoError(t, semesters.Create(ctx, newSemester(t, first.ID, "Sem 1")))
	assert.ErrorIs(t, semesters.Create(ctx, newSemester(t, first.ID, "Sem 1")), academic.ErrDuplicateSemester)

	exams := NewGormSchoolExamRepository(db)
	require.NoError(t, exams.Create(ctx, newExam(t, first.ID, 1)))
	assert.ErrorIs(t, exams.Create(ctx, newExam(t, first.ID, 1)), academic.ErrDuplicateExam)
}

func TestPostgres_RecordsRoundTrip(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	owner := newTestUser(t, "Asha", "asha@example.com", "asha1")
	require.NoError(t, NewGormUserRepository(db).Create(ctx, owner))

	semesters := NewGormCollegeSemesterRepository(db)
	sem := newSemester(t, owner.ID, "Sem 1")
	require.NoError(t, semesters.Create(ctx, sem))

	got, err := semesters.FindByID(ctx, owner.ID, sem.ID)
	require.NoError(t, err)
	assert.Equal(t, "8.57", got.GPA.StringFixed(2))
	assert.Len(t, got.Subjects, 3)

	_, err = semesters.FindByID(ctx, uuid.New(), sem.ID)
	assert.ErrorIs(t, err, academic.ErrSemesterNotFound)
}

func TestPostgres_PercentageAboveHundredFits(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	owner := newTestUser(t, "Asha", "asha@example.com", "asha1")
	require.NoError(t, NewGormUserRepository(db).Create(ctx, owner))

	exam, err := academic.NewSchoolExam(owner.ID, 1, []grading.SchoolSubject{
		{Name: "Bonus", Mark: grading.NewScore(150), OutOf: grading.NewScore(1)},
	})
	require.NoError(t, err)

	exams := NewGormSchoolExamRepository(db)
	require.NoError(t, exams.Create(ctx, exam))

	got, err := exams.FindByID(ctx, owner.ID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, "15000.00", got.Percentage.StringFixed(2))
}
