package telemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/identity"
	"github.com/acadtrack/backend/internal/infrastructure/event"
	"github.com/acadtrack/backend/internal/infrastructure/telemetry"
)

func TestAcademicMetrics_CountsBusEvents(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, zap.NewNop())
	defer func() { _ = mp.Shutdown(ctx) }()

	m, err := telemetry.NewAcademicMetrics(mp.Meter(telemetry.MeterName))
	require.NoError(t, err)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(m, m.EventTypes()...)
	require.NoError(t, bus.Start(ctx))
	defer func() { _ = bus.Stop(ctx) }()

	owner := uuid.New()
	sem, err := academic.NewCollegeSemester(owner, "Sem 1", []grading.CollegeSubject{
		{Name: "Maths", Mark: grading.NewScore(85), Credit: grading.NewScore(4)},
		{Name: "Physics", Mark: grading.NewScore(40), Credit: grading.NewScore(3)},
	})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, sem.GetDomainEvents()...))

	exam, err := academic.NewSchoolExam(owner, 1, []grading.SchoolSubject{
		{Name: "English", Mark: grading.NewScore(72), OutOf: grading.NewScore(100)},
	})
	require.NoError(t, err)
	exam.MarkDeleted()
	require.NoError(t, bus.Publish(ctx, exam.GetDomainEvents()...))

	user, err := identity.NewUser("Ada", "ada@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, user.GetDomainEvents()...))

	metrics := collect(t, reader)

	registered := metrics["acadtrack.users.registered"].Data.(metricdata.Sum[int64])
	require.Len(t, registered.DataPoints, 1)
	method, _ := registered.DataPoints[0].Attributes.Value(telemetry.AttrAuthMethod)
	assert.Equal(t, "password", method.AsString())

	changes := metrics["acadtrack.records.changes"].Data.(metricdata.Sum[int64])
	assert.Len(t, changes.DataPoints, 3)

	arrears := metrics["acadtrack.semesters.arrears"].Data.(metricdata.Sum[int64])
	require.Len(t, arrears.DataPoints, 1)
	assert.Equal(t, int64(1), arrears.DataPoints[0].Value)

	gpa := metrics["acadtrack.semesters.gpa"].Data.(metricdata.Histogram[float64])
	require.Len(t, gpa.DataPoints, 1)
	assert.Equal(t, uint64(1), gpa.DataPoints[0].Count)

	pct := metrics["acadtrack.exams.percentage"].Data.(metricdata.Histogram[float64])
	require.Len(t, pct.DataPoints, 1)
	assert.Equal(t, uint64(1), pct.DataPoints[0].Count)
}
