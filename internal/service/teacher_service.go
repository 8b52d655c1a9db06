package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
	"github.com/noah-isme/topic-distribution-admin/pkg/cache"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/logger"
)

type teacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
	Update(ctx context.Context, id int64, req models.UpdateTeacherRequest) error
}

var teacherDraftMessages = map[string]string{
	"name": "ФИО обязательно",
}

// TeacherService reads teachers through the shared cache and writes them to
// the remote API.
type TeacherService struct {
	repo      teacherRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, cache: cacheSvc, validator: validate, logger: logger}
}

// List returns the teacher collection.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	teachers, _, err := ReadThrough(ctx, s.cache, cache.CollectionTeachers, s.repo.List)
	if err != nil {
		logger.ForContext(ctx, s.logger).Warn("failed to list teachers", zap.Error(err))
		return nil, err
	}
	return teachers, nil
}

// ValidateDraft collects every field violation of an edit form.
func (s *TeacherService) ValidateDraft(draft models.TeacherDraft) FieldErrors {
	errs, err := collectFieldErrors(s.validator, draft, teacherDraftMessages, "Некорректное значение")
	if err != nil {
		return FieldErrors{ServerErrorKey: err.Error()}
	}
	return errs
}

// Update validates draft and saves it. Field errors are returned without a
// remote call.
func (s *TeacherService) Update(ctx context.Context, id int64, draft models.TeacherDraft) (FieldErrors, error) {
	if errs := s.ValidateDraft(draft); len(errs) > 0 {
		return errs, nil
	}
	req := models.UpdateTeacherRequest{FullName: draft.Name, Department: draft.Department, Position: draft.Position}
	if err := s.repo.Update(ctx, id, req); err != nil {
		typed := appErrors.FromError(err)
		logger.ForContext(ctx, s.logger).Warn("failed to update teacher", zap.Int64("teacher_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, typed.Code, typed.Status, dto.UpdateFailedPrefix+apiclient.Reason(err))
	}
	_ = s.cache.InvalidateCollection(ctx, cache.CollectionTeachers)
	return nil, nil
}
