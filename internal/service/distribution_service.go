package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/logger"
)

type distributionRepository interface {
	List(ctx context.Context) ([]models.Distribution, error)
	Create(ctx context.Context, req models.CreateDistributionRequest) (*models.Distribution, error)
	UpdateStatus(ctx context.Context, id int64, status models.DistributionStatus) error
}

type teacherLister interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

type topicLister interface {
	List(ctx context.Context) ([]models.Topic, error)
}

// DeadlineLayout is the wire form of a deadline: UTC with milliseconds.
const DeadlineLayout = "2006-01-02T15:04:05.000Z"

var distributionDraftMessages = map[string]string{
	"discipline": "Дисциплина обязательна",
	"group_name": "Группа обязательна",
	"teacher_id": "Преподаватель обязателен",
	"deadline":   "Срок выполнения обязателен",
}

// Messages for drafts that pass the required checks but cannot be sent.
const (
	teacherUnknownMessage  = "Преподаватель не найден"
	deadlineInvalidMessage = "Некорректный срок выполнения"
)

// DistributionData is one consistent read of the three collections the
// distribution screen shows.
type DistributionData struct {
	Distributions []models.Distribution
	Teachers      []models.Teacher
	Topics        []models.Topic
}

// DistributionService loads, creates and toggles distributions.
// Distributions are read from the remote API on every load; teachers and
// topics come through the shared cache.
type DistributionService struct {
	repo      distributionRepository
	teachers  teacherLister
	topics    topicLister
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewDistributionService constructs a DistributionService.
func NewDistributionService(repo distributionRepository, teachers teacherLister, topics topicLister, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *DistributionService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistributionService{
		repo:      repo,
		teachers:  teachers,
		topics:    topics,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		inFlight:  make(map[int64]struct{}),
	}
}

// Load reads distributions, teachers and topics in that order. Any failure
// fails the whole load.
func (s *DistributionService) Load(ctx context.Context) (*DistributionData, error) {
	distributions, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.loadFailure(ctx, "distributions", err)
	}
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, s.loadFailure(ctx, "teachers", err)
	}
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, s.loadFailure(ctx, "topics", err)
	}
	return &DistributionData{Distributions: distributions, Teachers: teachers, Topics: topics}, nil
}

func (s *DistributionService) loadFailure(ctx context.Context, step string, err error) error {
	logger.ForContext(ctx, s.logger).Warn("distribution load failed", zap.String("step", step), zap.Error(err))
	typed := appErrors.FromError(err)
	return appErrors.Wrap(err, typed.Code, typed.Status, dto.DistributionLoadError)
}

// ValidateDraft collects every violation of the creation form. When
// teachers is non-nil the selected teacher must be one of them.
func (s *DistributionService) ValidateDraft(draft models.DistributionDraft, teachers []models.Teacher) FieldErrors {
	errs, err := collectFieldErrors(s.validator, draft, distributionDraftMessages, "Некорректное значение")
	if err != nil {
		return FieldErrors{ServerErrorKey: err.Error()}
	}
	if errs == nil {
		errs = FieldErrors{}
	}
	if _, failed := errs["teacher_id"]; !failed && draft.TeacherID != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(draft.TeacherID), 10, 64)
		if err != nil || (teachers != nil && !containsTeacher(teachers, id)) {
			errs["teacher_id"] = teacherUnknownMessage
		}
	}
	if _, failed := errs["deadline"]; !failed && draft.Deadline != "" {
		if _, err := NormalizeDeadline(draft.Deadline); err != nil {
			errs["deadline"] = deadlineInvalidMessage
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func containsTeacher(teachers []models.Teacher, id int64) bool {
	for _, t := range teachers {
		if t.ID == id {
			return true
		}
	}
	return false
}

// NormalizeDeadline converts a form date into the wire timestamp,
// e.g. "2025-01-01" becomes "2025-01-01T00:00:00.000Z".
func NormalizeDeadline(raw string) (string, error) {
	t, ok := dto.ParseDeadline(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, deadlineInvalidMessage)
	}
	return t.Format(DeadlineLayout), nil
}

// BuildCreateDistributionRequest converts a valid draft into the wire body.
func BuildCreateDistributionRequest(draft models.DistributionDraft) (models.CreateDistributionRequest, error) {
	teacherID, err := strconv.ParseInt(strings.TrimSpace(draft.TeacherID), 10, 64)
	if err != nil {
		return models.CreateDistributionRequest{}, appErrors.Clone(appErrors.ErrValidation, teacherUnknownMessage)
	}
	deadline, err := NormalizeDeadline(draft.Deadline)
	if err != nil {
		return models.CreateDistributionRequest{}, err
	}
	return models.CreateDistributionRequest{
		Discipline: draft.Discipline,
		GroupName:  draft.GroupName,
		TeacherID:  teacherID,
		Type:       models.WorkType(draft.Type),
		Deadline:   deadline,
	}, nil
}

// Create validates draft against the teacher snapshot and submits it. Field
// errors are returned without a remote call; a failed call returns an error
// whose message is ready for the form's server slot.
func (s *DistributionService) Create(ctx context.Context, draft models.DistributionDraft, teachers []models.Teacher) (FieldErrors, *models.Distribution, error) {
	if errs := s.ValidateDraft(draft, teachers); len(errs) > 0 {
		return errs, nil, nil
	}
	req, err := BuildCreateDistributionRequest(draft)
	if err != nil {
		return FieldErrors{"teacher_id": appErrors.FromError(err).Message}, nil, nil
	}
	created, err := s.repo.Create(ctx, req)
	if err != nil {
		typed := appErrors.FromError(err)
		logger.ForContext(ctx, s.logger).Warn("failed to create distribution", zap.Error(err))
		return nil, nil, appErrors.Wrap(err, typed.Code, typed.Status, dto.DistributionCreatePrefix+apiclient.ErrorTextOr(err, ""))
	}
	logger.ForContext(ctx, s.logger).Info("distribution created",
		zap.Int64("distribution_id", created.ID),
		zap.String("discipline", req.Discipline),
		zap.String("group_name", req.GroupName),
		zap.Int64("teacher_id", req.TeacherID),
	)
	return nil, created, nil
}

// ErrDistributionNotFound is returned when a toggle targets a distribution
// absent from the local snapshot.
var ErrDistributionNotFound = appErrors.Clone(appErrors.ErrNotFound, "distribution not found")

// StatusSnapshot is the local copy of distribution statuses a toggle reads
// and patches.
type StatusSnapshot interface {
	StatusOf(id int64) (models.DistributionStatus, bool)
	PatchStatus(id int64, status models.DistributionStatus)
}

// ToggleStatus flips the status of distribution id on the remote API and
// returns the new status. The current status is read from local after the
// in-flight slot is taken, and local is patched before the slot is released.
// A second toggle of the same distribution while one is outstanding is
// rejected without a remote call.
func (s *DistributionService) ToggleStatus(ctx context.Context, id int64, local StatusSnapshot) (models.DistributionStatus, error) {
	if !s.acquire(id) {
		s.metrics.IncToggleRejected()
		return "", appErrors.ErrToggleInFlight
	}
	defer s.release(id)

	current, ok := local.StatusOf(id)
	if !ok {
		return "", ErrDistributionNotFound
	}
	next := current.Opposite()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		typed := appErrors.FromError(err)
		logger.ForContext(ctx, s.logger).Warn("failed to toggle distribution", zap.Int64("distribution_id", id), zap.Error(err))
		return "", appErrors.Wrap(err, typed.Code, typed.Status, dto.DistributionToggleError)
	}
	local.PatchStatus(id, next)
	logger.ForContext(ctx, s.logger).Info("distribution status changed", zap.Int64("distribution_id", id), zap.String("status", string(next)))
	return next, nil
}

// Toggling reports whether a toggle for id is outstanding.
func (s *DistributionService) Toggling(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[id]
	return ok
}

func (s *DistributionService) acquire(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *DistributionService) release(id int64) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}
