package persistence

import (
	"context"

	"github.com/acadtrack/backend/internal/domain/academic"
	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/acadtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var semesterUniqueRules = []uniqueRule{
	{constraint: models.CollegeSemestersUserLabelIndex, columns: "college_semesters.user_id, college_semesters.semester", err: academic.ErrDuplicateSemester},
}

// GormCollegeSemesterRepository implements academic.CollegeSemesterRepository using GORM
type GormCollegeSemesterRepository struct {
	db *gorm.DB
}

func NewGormCollegeSemesterRepository(db *gorm.DB) *GormCollegeSemesterRepository {
	return &GormCollegeSemesterRepository{db: db}
}

// Create inserts a semester; a second row for the same label is rejected by
// the (user_id, semester) index.
func (r *GormCollegeSemesterRepository) Create(ctx context.Context, sem *academic.CollegeSemester) error {
	err := r.db.WithContext(ctx).Create(models.CollegeSemesterModelFromDomain(sem)).Error
	return translateError("create college semester", err, semesterUniqueRules...)
}

func (r *GormCollegeSemesterRepository) Update(ctx context.Context, sem *academic.CollegeSemester) error {
	model := models.CollegeSemesterModelFromDomain(sem)
	result := r.db.WithContext(ctx).
		Model(&models.CollegeSemesterModel{}).
		Where("id = ? AND user_id = ? AND version = ?", sem.ID, sem.OwnerID, sem.Version-1).
		Select("subjects", "gpa", "arrears", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translateError("update college semester", result.Error, semesterUniqueRules...)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormCollegeSemesterRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*academic.CollegeSemester, error) {
	return r.findOne(ctx, "id = ? AND user_id = ?", id, ownerID)
}

func (r *GormCollegeSemesterRepository) FindByLabel(ctx context.Context, ownerID uuid.UUID, label string) (*academic.CollegeSemester, error) {
	return r.findOne(ctx, "user_id = ? AND semester = ?", ownerID, label)
}

// FindAllByOwner lists a user's semesters in creation order.
func (r *GormCollegeSemesterRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]academic.CollegeSemester, error) {
	var rows []models.CollegeSemesterModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError("list college semesters", err)
	}
	semesters := make([]academic.CollegeSemester, len(rows))
	for i := range rows {
		semesters[i] = *rows[i].ToDomain()
	}
	return semesters, nil
}

func (r *GormCollegeSemesterRepository) Labels(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	var labels []string
	if err := r.db.WithContext(ctx).
		Model(&models.CollegeSemesterModel{}).
		Where("user_id = ?", ownerID).
		Pluck("semester", &labels).Error; err != nil {
		return nil, translateError("list semester labels", err)
	}
	return labels, nil
}

func (r *GormCollegeSemesterRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.CollegeSemesterModel{})
	if result.Error != nil {
		return translateError("delete college semester", result.Error)
	}
	if result.RowsAffected == 0 {
		return academic.ErrSemesterNotFound
	}
	return nil
}

func (r *GormCollegeSemesterRepository) findOne(ctx context.Context, query string, args ...any) (*academic.CollegeSemester, error) {
	var model models.CollegeSemesterModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		return nil, notFound("find college semester", err, academic.ErrSemesterNotFound)
	}
	return model.ToDomain(), nil
}
