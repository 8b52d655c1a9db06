package screen

import (
	"context"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

// TeacherService is what the teachers screen needs from the service layer.
type TeacherService interface {
	List(ctx context.Context) ([]models.Teacher, error)
	Update(ctx context.Context, id int64, draft models.TeacherDraft) (service.FieldErrors, error)
}

// TeachersList is the teachers table with single-row editing.
type TeachersList struct {
	*Base
	svc TeacherService

	loaded      bool
	loadErr     string
	teachers    []models.Teacher
	editingID   *int64
	draft       models.TeacherDraft
	fieldErrors map[string]string
}

func newTeachersList(b *Base, svc TeacherService) *TeachersList {
	return &TeachersList{Base: b, svc: svc}
}

// Load fetches the teacher collection.
func (s *TeachersList) Load(ctx context.Context) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	opCtx, done := s.operation(ctx)
	defer done()
	teachers, err := s.svc.List(opCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.ErrScreenClosed
	}
	s.loaded = true
	if err != nil {
		s.loadErr = dto.TeachersLoadError
		return nil
	}
	s.loadErr = ""
	s.teachers = teachers
	return nil
}

// BeginEdit copies the row into the edit draft.
func (s *TeachersList) BeginEdit(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	for _, t := range s.teachers {
		if t.ID == id {
			editing := id
			s.editingID = &editing
			s.draft = models.TeacherDraft{Name: t.Name, Department: t.Department, Position: t.Position}
			s.fieldErrors = nil
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
}

// CancelEdit leaves edit mode and drops the draft.
func (s *TeachersList) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	s.editingID = nil
	s.draft = models.TeacherDraft{}
	return nil
}

// SetField updates one draft field and clears its error.
func (s *TeachersList) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	if s.editingID == nil {
		return appErrors.ErrNotEditing
	}
	switch name {
	case "name":
		s.draft.Name = value
	case "department":
		s.draft.Department = value
	case "position":
		s.draft.Position = value
	default:
		return unknownField(name)
	}
	delete(s.fieldErrors, name)
	return nil
}

// Save validates and sends the draft. On success only the edited row
// changes and edit mode ends.
func (s *TeachersList) Save(ctx context.Context) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.editingID == nil {
		s.mu.Unlock()
		return appErrors.ErrNotEditing
	}
	id := *s.editingID
	draft := s.draft
	s.mu.Unlock()

	opCtx, done := s.operation(ctx)
	defer done()
	fieldErrs, err := s.svc.Update(opCtx, id, draft)

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
		if s.fieldErrors == nil {
			s.fieldErrors = map[string]string{}
		}
		s.fieldErrors[service.ServerErrorKey] = appErrors.FromError(err).Message
		return nil
	}
	for i := range s.teachers {
		if s.teachers[i].ID == id {
			s.teachers[i].Name = draft.Name
			s.teachers[i].Department = draft.Department
			s.teachers[i].Position = draft.Position
		}
	}
	s.fieldErrors = nil
	s.editingID = nil
	s.draft = models.TeacherDraft{}
	s.showBannerLocked(dto.TeacherUpdatedText)
	return nil
}

// Render produces the view of the current state.
func (s *TeachersList) Render() dto.TeachersView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := dto.TeachersView{
		ScreenID:    s.id,
		Loaded:      s.loaded,
		Rows:        []dto.TeacherRow{},
		FieldErrors: copyErrors(s.fieldErrors),
		Banner:      s.banner,
	}
	if !s.loaded {
		return view
	}
	if s.loadErr != "" {
		view.Error = s.loadErr
		return view
	}
	view.Summary = dto.TeachersSummary(len(s.teachers))
	if s.editingID != nil {
		id := *s.editingID
		draft := s.draft
		view.EditingID = &id
		view.Draft = &draft
	}
	for _, t := range s.teachers {
		view.Rows = append(view.Rows, dto.TeacherRow{Teacher: t, Editing: s.editingID != nil && *s.editingID == t.ID})
	}
	if len(view.Rows) == 0 {
		view.EmptyMessage = dto.TeachersEmpty
	}
	return view
}
