package academic

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/acadtrack/backend/internal/infrastructure/logger"
	"github.com/acadtrack/backend/internal/infrastructure/telemetry"
)

// CollegeService manages the college semesters of the authenticated user.
type CollegeService struct {
	repo      academic.CollegeSemesterRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

func NewCollegeService(repo academic.CollegeSemesterRepository, publisher shared.EventPublisher, logger *zap.Logger) *CollegeService {
	return &CollegeService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With(zap.String("service", "CollegeService")),
	}
}

// Create records a semester. An explicit label that already exists is a
// conflict; a generated one is re-picked when a concurrent create took it.
func (s *CollegeService) Create(ctx context.Context, ownerID uuid.UUID, input CreateSemesterInput) (resp *SemesterResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CollegeService", "Create",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, ownerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrSemester, input.Semester))
	defer func() { telemetry.EndSpan(span, err) }()

	if input.Semester != "" {
		sem, err := academic.NewCollegeSemester(ownerID, input.Semester, input.Subjects)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, sem); err != nil {
			return nil, err
		}
		return s.created(ctx, sem), nil
	}

	for attempt := 0; attempt < maxAutoNumberAttempts; attempt++ {
		labels, err := s.repo.Labels(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		sem, err := academic.NewCollegeSemester(ownerID, grading.NextSemesterLabel(labels), input.Subjects)
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, sem)
		if err == nil {
			return s.created(ctx, sem), nil
		}
		if !errors.Is(err, academic.ErrDuplicateSemester) {
			return nil, err
		}
		s.log(ctx).Debug("Semester label taken concurrently, retrying", zap.String("semester", sem.Semester))
	}
	return nil, academic.ErrDuplicateSemester
}

func (s *CollegeService) created(ctx context.Context, sem *academic.CollegeSemester) *SemesterResponse {
	publish(ctx, s.publisher, s.logger, sem)
	s.log(ctx).Info("College semester recorded",
		zap.String("semester_id", sem.ID.String()),
		zap.String("semester", sem.Semester))
	resp := toSemesterResponse(sem)
	return &resp
}

// List returns numbered semesters in numeric order followed by free-form
// labels in creation order.
func (s *CollegeService) List(ctx context.Context, ownerID uuid.UUID) ([]SemesterResponse, error) {
	sems, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(sems, compareSemesters)

	out := make([]SemesterResponse, 0, len(sems))
	for i := range sems {
		out = append(out, toSemesterResponse(&sems[i]))
	}
	return out, nil
}

func compareSemesters(a, b academic.CollegeSemester) int {
	na, okA := grading.ParseSemesterNumber(a.Semester)
	nb, okB := grading.ParseSemesterNumber(b.Semester)
	switch {
	case okA && okB:
		return cmp.Compare(na, nb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

func (s *CollegeService) Get(ctx context.Context, ownerID, id uuid.UUID) (*SemesterResponse, error) {
	sem, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := toSemesterResponse(sem)
	return &resp, nil
}

// Update edits the semester in place; the label never changes.
func (s *CollegeService) Update(ctx context.Context, ownerID, id uuid.UUID, subjects []grading.CollegeSubject) (resp *SemesterResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CollegeService", "Update",
		telemetry.WithAttribute(telemetry.SpanAttrSemesterID, id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	sem, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := sem.ReplaceSubjects(subjects); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sem); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, sem)

	out := toSemesterResponse(sem)
	return &out, nil
}

func (s *CollegeService) Delete(ctx context.Context, ownerID, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CollegeService", "Delete",
		telemetry.WithAttribute(telemetry.SpanAttrSemesterID, id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	sem, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, sem)
}

// DeleteByLabel removes the semester with the given label. Numbered labels
// match in any spelling ("sem3", "Semester 3").
func (s *CollegeService) DeleteByLabel(ctx context.Context, ownerID uuid.UUID, label string) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CollegeService", "DeleteByLabel",
		telemetry.WithAttribute(telemetry.SpanAttrSemester, label))
	defer func() { telemetry.EndSpan(span, err) }()

	label, err = academic.NormalizeSemesterLabel(label)
	if err != nil {
		return err
	}
	sem, err := s.repo.FindByLabel(ctx, ownerID, label)
	if err != nil {
		return err
	}
	return s.delete(ctx, sem)
}

func (s *CollegeService) delete(ctx context.Context, sem *academic.CollegeSemester) error {
	if err := s.repo.Delete(ctx, sem.OwnerID, sem.ID); err != nil {
		return err
	}
	sem.MarkDeleted()
	publish(ctx, s.publisher, s.logger, sem)
	s.log(ctx).Info("College semester deleted",
		zap.String("semester_id", sem.ID.String()),
		zap.String("semester", sem.Semester))
	return nil
}

// Summary reports the non-weighted CGPA, total arrears and the next free
// semester label.
func (s *CollegeService) Summary(ctx context.Context, ownerID uuid.UUID) (*CollegeSummary, error) {
	sems, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	gpas := make([]decimal.Decimal, 0, len(sems))
	labels := make([]string, 0, len(sems))
	arrears := 0
	for _, sem := range sems {
		gpas = append(gpas, sem.GPA)
		labels = append(labels, sem.Semester)
		arrears += sem.Arrears
	}

	return &CollegeSummary{
		SemesterCount: len(sems),
		CGPA:          grading.CGPA(gpas),
		TotalArrears:  arrears,
		NextSemester:  grading.NextSemesterLabel(labels),
	}, nil
}

func (s *CollegeService) log(ctx context.Context) *zap.Logger {
	return logger.Ctx(ctx, s.logger)
}
