package screen

import (
	"context"
	"strconv"
	"strings"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

// TopicService is what the topic bank needs from the service layer.
type TopicService interface {
	List(ctx context.Context) ([]models.Topic, error)
	Create(ctx context.Context, draft models.TopicDraft) (service.FieldErrors, *models.Topic, error)
}

// TopicBank lists topics in display form and adds new ones.
type TopicBank struct {
	*Base
	topics   TopicService
	teachers TeacherLister

	loaded      bool
	loadErr     string
	rows        []dto.TopicRow
	teacherList []models.Teacher
	draft       models.TopicDraft
	fieldErrors map[string]string
	notice      *dto.Notice
}

// TeacherLister reads the teacher collection.
type TeacherLister interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

func newTopicBank(b *Base, topics TopicService, teachers TeacherLister) *TopicBank {
	return &TopicBank{Base: b, topics: topics, teachers: teachers, draft: models.NewTopicDraft()}
}

// Load fetches teachers, then topics. The error names the step that failed.
func (s *TopicBank) Load(ctx context.Context) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	opCtx, done := s.operation(ctx)
	defer done()

	teachers, err := s.teachers.List(opCtx)
	var topics []models.Topic
	failed := ""
	if err != nil {
		failed = dto.TopicsTeachersLoadError
	} else if topics, err = s.topics.List(opCtx); err != nil {
		failed = dto.TopicsLoadError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.ErrScreenClosed
	}
	s.loaded = true
	if failed != "" {
		s.loadErr = failed
		return nil
	}
	s.loadErr = ""
	s.teacherList = teachers
	s.rows = make([]dto.TopicRow, 0, len(topics))
	for _, t := range topics {
		s.rows = append(s.rows, dto.NewTopicRow(t))
	}
	return nil
}

// SetField updates one draft field and clears its error.
func (s *TopicBank) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	switch name {
	case "title":
		s.draft.Title = value
	case "type":
		s.draft.Type = value
	case "source":
		s.draft.Source = value
	case "supervisor":
		s.draft.Supervisor = value
	case "description":
		s.draft.Description = value
	case "priority":
		s.draft.Priority = value
	default:
		return unknownField(name)
	}
	delete(s.fieldErrors, name)
	return nil
}

// DismissNotice hides the last submit notice.
func (s *TopicBank) DismissNotice() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	s.notice = nil
	return nil
}

// Submit validates and creates the topic. The created topic is appended in
// the form it was entered, with status "Доступна".
func (s *TopicBank) Submit(ctx context.Context) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	draft := s.draft
	s.mu.Unlock()

	opCtx, done := s.operation(ctx)
	defer done()
	fieldErrs, created, err := s.topics.Create(opCtx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.ErrScreenClosed
	}
	switch {
	case len(fieldErrs) > 0:
		s.fieldErrors = copyErrors(fieldErrs)
		return nil
	case err != nil:
		s.notice = &dto.Notice{Kind: dto.NoticeError, Text: appErrors.FromError(err).Message}
		return nil
	}

	s.rows = append(s.rows, dto.TopicRow{
		ID:          created.ID,
		Title:       created.Title,
		Type:        draft.Type,
		Source:      draft.Source,
		Supervisor:  s.supervisorNameLocked(draft.Supervisor),
		Status:      models.TopicStatusLabel(models.TopicAvailable),
		Description: created.Description,
		Priority:    created.Priority,
	})
	s.draft = models.NewTopicDraft()
	s.fieldErrors = nil
	s.notice = &dto.Notice{Kind: dto.NoticeSuccess, Text: dto.TopicCreatedText}
	return nil
}

func (s *TopicBank) supervisorNameLocked(raw string) string {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return dto.SupervisorUnassigned
	}
	for _, t := range s.teacherList {
		if t.ID == id {
			return t.Name
		}
	}
	return dto.SupervisorUnassigned
}

// Render produces the view of the current state.
func (s *TopicBank) Render() dto.TopicBankView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := dto.TopicBankView{
		ScreenID:        s.id,
		Loaded:          s.loaded,
		Rows:            []dto.TopicRow{},
		Draft:           s.draft,
		FieldErrors:     copyErrors(s.fieldErrors),
		TypeOptions:     models.TopicTypeLabels,
		SourceOptions:   models.TopicSourceLabels,
		PriorityOptions: models.TopicPriorityOptions(),
		TeacherOptions:  []dto.Option{},
	}
	if s.notice != nil {
		notice := *s.notice
		view.Notice = &notice
	}
	if !s.loaded {
		return view
	}
	if s.loadErr != "" {
		view.Error = s.loadErr
		return view
	}
	view.Rows = append(view.Rows, s.rows...)
	view.TeacherOptions = dto.TeacherOptions(s.teacherList)
	return view
}
