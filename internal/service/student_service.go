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

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, userID int64, draft models.StudentDraft) error
}

var studentDraftMessages = map[string]string{
	"full_name":  "ФИО обязательно",
	"group_name": "Группа обязательна",
}

// StudentService reads students through the shared cache and writes them to
// the remote API.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cacheSvc, validator: validate, logger: logger}
}

// List returns the student collection.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, _, err := ReadThrough(ctx, s.cache, cache.CollectionStudents, s.repo.List)
	if err != nil {
		logger.ForContext(ctx, s.logger).Warn("failed to list students", zap.Error(err))
		return nil, err
	}
	return students, nil
}

// ValidateDraft collects every field violation of an edit form.
func (s *StudentService) ValidateDraft(draft models.StudentDraft) FieldErrors {
	errs, err := collectFieldErrors(s.validator, draft, studentDraftMessages, "Некорректное значение")
	if err != nil {
		return FieldErrors{ServerErrorKey: err.Error()}
	}
	return errs
}

// Update validates draft and saves it. Field errors are returned without a
// remote call.
func (s *StudentService) Update(ctx context.Context, userID int64, draft models.StudentDraft) (FieldErrors, error) {
	if errs := s.ValidateDraft(draft); len(errs) > 0 {
		return errs, nil
	}
	if err := s.repo.Update(ctx, userID, draft); err != nil {
		typed := appErrors.FromError(err)
		logger.ForContext(ctx, s.logger).Warn("failed to update student", zap.Int64("user_id", userID), zap.Error(err))
		return nil, appErrors.Wrap(err, typed.Code, typed.Status, dto.UpdateFailedPrefix+apiclient.MessageText(err))
	}
	_ = s.cache.InvalidateCollection(ctx, cache.CollectionStudents)
	return nil, nil
}
