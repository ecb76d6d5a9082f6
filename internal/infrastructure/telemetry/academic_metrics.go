package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/identity"
	"github.com/acadtrack/backend/internal/domain/shared"
)

// MeterName names the meter for domain metrics.
const MeterName = "github.com/acadtrack/backend/academic"

// Metric attribute keys.
var (
	AttrAuthMethod = attribute.Key("auth_method")
	AttrRecordKind = attribute.Key("record_kind")
	AttrAction     = attribute.Key("action")
)

var (
	percentageBuckets = []float64{35, 50, 60, 70, 80, 90, 100}
	gpaBuckets        = []float64{5, 6, 7, 8, 9, 10}
)

// AcademicMetrics counts domain events published on the event bus. It is a
// shared.EventHandler subscribed to every event type it knows about.
type AcademicMetrics struct {
	usersRegistered *Counter
	accountsLinked  *Counter
	recordChanges   *Counter
	examPercentage  *Histogram
	semesterGPA     *Histogram
	semesterArrears *Counter
}

func NewAcademicMetrics(meter metric.Meter) (*AcademicMetrics, error) {
	var (
		m   AcademicMetrics
		err error
	)
	if m.usersRegistered, err = NewCounter(meter, "acadtrack.users.registered", "Identities created", "{user}"); err != nil {
		return nil, err
	}
	if m.accountsLinked, err = NewCounter(meter, "acadtrack.users.google_linked", "Existing identities linked to Google", "{user}"); err != nil {
		return nil, err
	}
	if m.recordChanges, err = NewCounter(meter, "acadtrack.records.changes", "School exam and college semester writes", "{record}"); err != nil {
		return nil, err
	}
	if m.semesterArrears, err = NewCounter(meter, "acadtrack.semesters.arrears", "Arrears recorded in new semesters", "{subject}"); err != nil {
		return nil, err
	}
	if m.examPercentage, err = NewHistogram(meter, HistogramOpts{
		Name:        "acadtrack.exams.percentage",
		Description: "Percentage of recorded school exams",
		Unit:        "%",
		Buckets:     percentageBuckets,
	}); err != nil {
		return nil, err
	}
	if m.semesterGPA, err = NewHistogram(meter, HistogramOpts{
		Name:        "acadtrack.semesters.gpa",
		Description: "GPA of recorded college semesters",
		Unit:        "1",
		Buckets:     gpaBuckets,
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *AcademicMetrics) EventTypes() []string {
	return []string{
		identity.EventTypeUserRegistered,
		identity.EventTypeGoogleAccountLinked,
		academic.EventTypeExamRecorded,
		academic.EventTypeExamUpdated,
		academic.EventTypeExamDeleted,
		academic.EventTypeSemesterRecorded,
		academic.EventTypeSemesterUpdated,
		academic.EventTypeSemesterDeleted,
	}
}

func (m *AcademicMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *identity.UserRegisteredEvent:
		m.usersRegistered.Inc(ctx, AttrAuthMethod.String(string(e.Method)))
	case *identity.GoogleAccountLinkedEvent:
		m.accountsLinked.Inc(ctx)
	case *academic.ExamEvent:
		m.recordChanges.Inc(ctx, AttrRecordKind.String("school_exam"), AttrAction.String(action(e.EventType())))
		if e.EventType() != academic.EventTypeExamDeleted {
			m.examPercentage.Record(ctx, e.Percentage.InexactFloat64())
		}
	case *academic.SemesterEvent:
		m.recordChanges.Inc(ctx, AttrRecordKind.String("college_semester"), AttrAction.String(action(e.EventType())))
		if e.EventType() == academic.EventTypeSemesterRecorded {
			m.semesterGPA.Record(ctx, e.GPA.InexactFloat64())
			m.semesterArrears.Add(ctx, int64(e.Arrears))
		}
	}
	return nil
}

func action(eventType string) string {
	switch eventType {
	case academic.EventTypeExamRecorded, academic.EventTypeSemesterRecorded:
		return "recorded"
	case academic.EventTypeExamUpdated, academic.EventTypeSemesterUpdated:
		return "updated"
	case academic.EventTypeExamDeleted, academic.EventTypeSemesterDeleted:
		return "deleted"
	}
	return "unknown"
}
