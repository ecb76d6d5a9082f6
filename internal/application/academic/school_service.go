package academic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/grading"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/acadtrack/backend/internal/infrastructure/logger"
	"github.com/acadtrack/backend/internal/infrastructure/telemetry"
)

// maxAutoNumberAttempts bounds retries when a concurrent create takes the
// number picked by gap filling.
const maxAutoNumberAttempts = 5

// SchoolService manages the school exams of the authenticated user.
type SchoolService struct {
	repo      academic.SchoolExamRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

func NewSchoolService(repo academic.SchoolExamRepository, publisher shared.EventPublisher, logger *zap.Logger) *SchoolService {
	return &SchoolService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With(zap.String("service", "SchoolService")),
	}
}

// Create records an exam; percentage and failed subjects are computed here.
func (s *SchoolService) Create(ctx context.Context, ownerID uuid.UUID, input CreateExamInput) (resp *ExamResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "SchoolService", "Create",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, ownerID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if input.ExamNumber != nil {
		exam, err := academic.NewSchoolExam(ownerID, *input.ExamNumber, input.Subjects)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, exam); err != nil {
			return nil, err
		}
		return s.created(ctx, exam), nil
	}

	for attempt := 0; attempt < maxAutoNumberAttempts; attempt++ {
		numbers, err := s.repo.ExamNumbers(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		exam, err := academic.NewSchoolExam(ownerID, grading.NextExamNumber(numbers), input.Subjects)
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, exam)
		if err == nil {
			return s.created(ctx, exam), nil
		}
		if !errors.Is(err, academic.ErrDuplicateExam) {
			return nil, err
		}
		s.log(ctx).Debug("Exam number taken concurrently, retrying", zap.Int("exam_number", exam.ExamNumber))
	}
	return nil, academic.ErrDuplicateExam
}

func (s *SchoolService) created(ctx context.Context, exam *academic.SchoolExam) *ExamResponse {
	publish(ctx, s.publisher, s.logger, exam)
	s.log(ctx).Info("School exam recorded",
		zap.String("exam_id", exam.ID.String()),
		zap.Int("exam_number", exam.ExamNumber))
	resp := toExamResponse(exam)
	return &resp
}

// List returns the user's exams ordered by exam number.
func (s *SchoolService) List(ctx context.Context, ownerID uuid.UUID) ([]ExamResponse, error) {
	exams, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]ExamResponse, 0, len(exams))
	for i := range exams {
		out = append(out, toExamResponse(&exams[i]))
	}
	return out, nil
}

func (s *SchoolService) Get(ctx context.Context, ownerID, id uuid.UUID) (*ExamResponse, error) {
	exam, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := toExamResponse(exam)
	return &resp, nil
}

// Update replaces the subject list wholesale and recomputes the summary.
func (s *SchoolService) Update(ctx context.Context, ownerID, id uuid.UUID, subjects []grading.SchoolSubject) (resp *ExamResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "SchoolService", "Update",
		telemetry.WithAttribute(telemetry.SpanAttrExamID, id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	exam, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := exam.ReplaceSubjects(subjects); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, exam); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, exam)

	out := toExamResponse(exam)
	return &out, nil
}

func (s *SchoolService) Delete(ctx context.Context, ownerID, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "SchoolService", "Delete",
		telemetry.WithAttribute(telemetry.SpanAttrExamID, id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	exam, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	exam.MarkDeleted()
	publish(ctx, s.publisher, s.logger, exam)
	s.log(ctx).Info("School exam deleted", zap.String("exam_id", id.String()))
	return nil
}

// Summary reports the exam count, the next free exam number and the mean
// percentage across exams.
func (s *SchoolService) Summary(ctx context.Context, ownerID uuid.UUID) (*SchoolSummary, error) {
	exams, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	numbers := make([]int, 0, len(exams))
	percentages := make([]decimal.Decimal, 0, len(exams))
	failed := 0
	for _, e := range exams {
		numbers = append(numbers, e.ExamNumber)
		percentages = append(percentages, e.Percentage)
		failed += len(e.Failed)
	}

	return &SchoolSummary{
		ExamCount:         len(exams),
		NextExamNumber:    grading.NextExamNumber(numbers),
		AveragePercentage: grading.AveragePercentage(percentages),
		TotalFailed:       failed,
	}, nil
}

func (s *SchoolService) log(ctx context.Context) *zap.Logger {
	return logger.Ctx(ctx, s.logger)
}
