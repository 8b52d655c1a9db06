package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
	"github.com/noah-isme/topic-distribution-admin/pkg/cache"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/logger"
)

type topicRepository interface {
	List(ctx context.Context) ([]models.Topic, error)
	Create(ctx context.Context, req models.CreateTopicRequest) (*models.Topic, error)
}

var topicDraftMessages = map[string]string{
	"title":    "Введите название темы",
	"type":     "Выберите тип работы",
	"source":   "Выберите источник темы",
	"priority": "Выберите приоритет",
}

// TopicService reads the topic bank through the shared cache and adds
// topics to it.
type TopicService struct {
	repo      topicRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTopicService constructs a TopicService.
func NewTopicService(repo topicRepository, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger) *TopicService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{repo: repo, cache: cacheSvc, validator: validate, logger: logger}
}

// List returns the topic collection.
func (s *TopicService) List(ctx context.Context) ([]models.Topic, error) {
	topics, _, err := ReadThrough(ctx, s.cache, cache.CollectionTopics, s.repo.List)
	if err != nil {
		logger.ForContext(ctx, s.logger).Warn("failed to list topics", zap.Error(err))
		return nil, err
	}
	return topics, nil
}

// ValidateDraft collects every field violation of the creation form.
func (s *TopicService) ValidateDraft(draft models.TopicDraft) FieldErrors {
	errs, err := collectFieldErrors(s.validator, draft, topicDraftMessages, "Некорректное значение")
	if err != nil {
		return FieldErrors{ServerErrorKey: err.Error()}
	}
	return errs
}

// BuildCreateRequest translates the form labels into remote codes. A
// supervisor that is not a number is sent as null.
func BuildCreateRequest(draft models.TopicDraft) models.CreateTopicRequest {
	workType, _ := models.TopicTypeFromLabel(draft.Type)
	source, _ := models.TopicSourceFromLabel(draft.Source)
	req := models.CreateTopicRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Type:        workType,
		Source:      source,
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(draft.Supervisor), 10, 64); err == nil {
		req.SupervisorID = &id
	}
	if p, err := strconv.Atoi(draft.Priority); err == nil {
		req.Priority = p
	}
	return req
}

// Create validates draft and adds the topic. Field errors are returned
// without a remote call.
func (s *TopicService) Create(ctx context.Context, draft models.TopicDraft) (FieldErrors, *models.Topic, error) {
	if errs := s.ValidateDraft(draft); len(errs) > 0 {
		return errs, nil, nil
	}
	topic, err := s.repo.Create(ctx, BuildCreateRequest(draft))
	if err != nil {
		typed := appErrors.FromError(err)
		logger.ForContext(ctx, s.logger).Warn("failed to create topic", zap.Error(err))
		return nil, nil, appErrors.Wrap(err, typed.Code, typed.Status, dto.TopicCreatePrefix+apiclient.ErrorTextOr(err, dto.TopicCreateFallback))
	}
	_ = s.cache.InvalidateCollection(ctx, cache.CollectionTopics)
	logger.ForContext(ctx, s.logger).Info("topic created", zap.Int64("topic_id", topic.ID))
	return nil, topic, nil
}
