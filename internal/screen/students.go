package screen

import (
	"context"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

// StudentService is what the students screen needs from the service layer.
type StudentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, userID int64, draft models.StudentDraft) (service.FieldErrors, error)
}

// StudentsList is the students table with single-row editing.
type StudentsList struct {
	*Base
	svc StudentService

	loaded      bool
	loadErr     string
	students    []models.Student
	editingID   *int64
	draft       models.StudentDraft
	fieldErrors map[string]string
}

func newStudentsList(b *Base, svc StudentService) *StudentsList {
	return &StudentsList{Base: b, svc: svc}
}

// Load fetches the student collection.
func (s *StudentsList) Load(ctx context.Context) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	opCtx, done := s.operation(ctx)
	defer done()
	students, err := s.svc.List(opCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.ErrScreenClosed
	}
	s.loaded = true
	if err != nil {
		s.loadErr = dto.StudentsLoadError
		return nil
	}
	s.loadErr = ""
	s.students = students
	return nil
}

// BeginEdit copies the row into the edit draft.
func (s *StudentsList) BeginEdit(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	for _, st := range s.students {
		if st.UserID == userID {
			id := userID
			s.editingID = &id
			s.draft = models.StudentDraft{FullName: st.FullName, GroupName: st.GroupName, Phone: st.Phone}
			s.fieldErrors = nil
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

// CancelEdit leaves edit mode and drops the draft.
func (s *StudentsList) CancelEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	s.editingID = nil
	s.draft = models.StudentDraft{}
	return nil
}

// SetField updates one draft field and clears its error.
func (s *StudentsList) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	if s.editingID == nil {
		return appErrors.ErrNotEditing
	}
	switch name {
	case "full_name":
		s.draft.FullName = value
	case "group_name":
		s.draft.GroupName = value
	case "phone":
		s.draft.Phone = value
	default:
		return unknownField(name)
	}
	delete(s.fieldErrors, name)
	return nil
}

// Save validates and sends the draft. On success only the edited row
// changes and edit mode ends.
func (s *StudentsList) Save(ctx context.Context) error {
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
	for i := range s.students {
		if s.students[i].UserID == id {
			s.students[i].FullName = draft.FullName
			s.students[i].GroupName = draft.GroupName
			s.students[i].Phone = draft.Phone
		}
	}
	s.fieldErrors = nil
	s.editingID = nil
	s.draft = models.StudentDraft{}
	s.showBannerLocked(dto.StudentUpdatedText)
	return nil
}

// Render produces the view of the current state.
func (s *StudentsList) Render() dto.StudentsView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := dto.StudentsView{
		ScreenID:    s.id,
		Loaded:      s.loaded,
		Rows:        []dto.StudentRow{},
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
	view.Summary = dto.StudentsSummary(len(s.students))
	if s.editingID != nil {
		id := *s.editingID
		draft := s.draft
		view.EditingID = &id
		view.Draft = &draft
	}
	for _, st := range s.students {
		view.Rows = append(view.Rows, dto.StudentRow{Student: st, Editing: s.editingID != nil && *s.editingID == st.UserID})
	}
	if len(view.Rows) == 0 {
		view.EmptyMessage = dto.StudentsEmpty
	}
	return view
}
