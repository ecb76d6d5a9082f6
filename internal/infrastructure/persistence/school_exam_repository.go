package persistence

import (
	"context"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/acadtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var examUniqueRules = []uniqueRule{
	{constraint: models.SchoolExamsUserNumberIndex, columns: "school_exams.user_id, school_exams.exam_number", err: academic.ErrDuplicateExam},
}

// GormSchoolExamRepository implements academic.SchoolExamRepository using GORM
type GormSchoolExamRepository struct {
	db *gorm.DB
}

func NewGormSchoolExamRepository(db *gorm.DB) *GormSchoolExamRepository {
	return &GormSchoolExamRepository{db: db}
}

func (r *GormSchoolExamRepository) Create(ctx context.Context, exam *academic.SchoolExam) error {
	err := r.db.WithContext(ctx).Create(models.SchoolExamModelFromDomain(exam)).Error
	return translateError("create school exam", err, examUniqueRules...)
}

// Update replaces the subject list and derived columns, guarded by version.
func (r *GormSchoolExamRepository) Update(ctx context.Context, exam *academic.SchoolExam) error {
	model := models.SchoolExamModelFromDomain(exam)
	result := r.db.WithContext(ctx).
		Model(&models.SchoolExamModel{}).
		Where("id = ? AND user_id = ? AND version = ?", exam.ID, exam.OwnerID, exam.Version-1).
		Select("subjects", "percentage", "failed", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translateError("update school exam", result.Error, examUniqueRules...)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormSchoolExamRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*academic.SchoolExam, error) {
	var model models.SchoolExamModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&model).Error; err != nil {
		return nil, notFound("find school exam", err, academic.ErrExamNotFound)
	}
	return model.ToDomain(), nil
}

// FindAllByOwner lists a user's exams by exam number.
func (r *GormSchoolExamRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]academic.SchoolExam, error) {
	var rows []models.SchoolExamModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("exam_number ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError("list school exams", err)
	}
	exams := make([]academic.SchoolExam, len(rows))
	for i := range rows {
		exams[i] = *rows[i].ToDomain()
	}
	return exams, nil
}

func (r *GormSchoolExamRepository) ExamNumbers(ctx context.Context, ownerID uuid.UUID) ([]int, error) {
	var numbers []int
	if err := r.db.WithContext(ctx).
		Model(&models.SchoolExamModel{}).
		Where("user_id = ?", ownerID).
		Pluck("exam_number", &numbers).Error; err != nil {
		return nil, translateError("list exam numbers", err)
	}
	return numbers, nil
}

func (r *GormSchoolExamRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.SchoolExamModel{})
	if result.Error != nil {
		return translateError("delete school exam", result.Error)
	}
	if result.RowsAffected == 0 {
		return academic.ErrExamNotFound
	}
	return nil
}
