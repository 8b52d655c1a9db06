package screen

import (
	"context"
	"errors"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

// DistributionService is what the distribution screen needs from the
// service layer.
type DistributionService interface {
	Load(ctx context.Context) (*service.DistributionData, error)
	Create(ctx context.Context, draft models.DistributionDraft, teachers []models.Teacher) (service.FieldErrors, *models.Distribution, error)
	ToggleStatus(ctx context.Context, id int64, local service.StatusSnapshot) (models.DistributionStatus, error)
	Toggling(id int64) bool
}

// DistributionManager holds the distribution table, its reference
// snapshots and the creation form.
type DistributionManager struct {
	*Base
	svc DistributionService

	loaded        bool
	loadErr       string
	distributions []models.Distribution
	teachers      []models.Teacher
	topics        []models.Topic
	showForm      bool
	draft         models.DistributionDraft
	fieldErrors   map[string]string
}

func newDistributionManager(b *Base, svc DistributionService) *DistributionManager {
	return &DistributionManager{Base: b, svc: svc, draft: models.NewDistributionDraft()}
}

// Load fetches the three collections and replaces all snapshots at once.
// Any failure raises the error flag.
func (s *DistributionManager) Load(ctx context.Context) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	opCtx, done := s.operation(ctx)
	defer done()
	data, err := s.svc.Load(opCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.ErrScreenClosed
	}
	s.applyLoadLocked(data, err)
	return nil
}

func (s *DistributionManager) applyLoadLocked(data *service.DistributionData, err error) {
	s.loaded = true
	if err != nil {
		s.loadErr = dto.DistributionLoadError
		return
	}
	s.loadErr = ""
	s.distributions = data.Distributions
	s.teachers = data.Teachers
	s.topics = data.Topics
}

// SetField updates one draft field and clears its error.
func (s *DistributionManager) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	switch name {
	case "discipline":
		s.draft.Discipline = value
	case "group_name":
		s.draft.GroupName = value
	case "teacher_id":
		s.draft.TeacherID = value
	case "type":
		s.draft.Type = value
	case "deadline":
		s.draft.Deadline = value
	default:
		return unknownField(name)
	}
	delete(s.fieldErrors, name)
	return nil
}

// SetFormVisible shows or hides the creation form. The draft survives.
func (s *DistributionManager) SetFormVisible(visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enterLocked(); err != nil {
		return err
	}
	s.showForm = visible
	return nil
}

// Submit validates the draft and creates the distribution. Invalid drafts
// never reach the remote API. On success the form is reset and hidden, the
// banner is shown and the collections are fetched again.
func (s *DistributionManager) Submit(ctx context.Context) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	draft := s.draft
	teachers := s.teachers
	if !s.loaded || s.loadErr != "" {
		teachers = nil
	}
	s.mu.Unlock()

	opCtx, done := s.operation(ctx)
	defer done()

	fieldErrs, _, err := s.svc.Create(opCtx, draft, teachers)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return appErrors.ErrScreenClosed
	}
	switch {
	case len(fieldErrs) > 0:
		s.fieldErrors = copyErrors(fieldErrs)
		s.mu.Unlock()
		return nil
	case err != nil:
		if s.fieldErrors == nil {
			s.fieldErrors = map[string]string{}
		}
		s.fieldErrors[service.ServerErrorKey] = appErrors.FromError(err).Message
		s.mu.Unlock()
		return nil
	}
	s.fieldErrors = nil
	s.draft = models.NewDistributionDraft()
	s.showForm = false
	s.showBannerLocked(dto.DistributionCreatedText)
	s.mu.Unlock()

	data, err := s.svc.Load(opCtx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.ErrScreenClosed
	}
	s.applyLoadLocked(data, err)
	return nil
}

// Toggle flips the status of one distribution. Only the matching local
// record changes on success; a failure raises the error flag. A toggle
// already in flight for the same record is rejected.
func (s *DistributionManager) Toggle(ctx context.Context, id int64) error {
	s.mu.Lock()
	if err := s.enterLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	if _, ok := s.StatusOf(id); !ok {
		return service.ErrDistributionNotFound
	}

	opCtx, done := s.operation(ctx)
	defer done()
	_, err := s.svc.ToggleStatus(opCtx, id, s)
	if appErrors.Is(err, appErrors.ErrToggleInFlight) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return appErrors.ErrScreenClosed
	}
	if errors.Is(err, service.ErrDistributionNotFound) {
		return err
	}
	if err != nil {
		s.loadErr = dto.DistributionToggleError
	}
	return nil
}

// StatusOf returns the local status of distribution id.
func (s *DistributionManager) StatusOf(id int64) (models.DistributionStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false
	}
	for _, d := range s.distributions {
		if d.ID == id {
			return d.Status, true
		}
	}
	return "", false
}

// PatchStatus sets the local status of distribution id. A closed screen is
// left untouched.
func (s *DistributionManager) PatchStatus(id int64, status models.DistributionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for i := range s.distributions {
		if s.distributions[i].ID == id {
			s.distributions[i].Status = status
		}
	}
}

// Render produces the view of the current state.
func (s *DistributionManager) Render() dto.DistributionManagerView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := dto.DistributionManagerView{
		ScreenID:        s.id,
		Loaded:          s.loaded,
		Rows:            []dto.DistributionRow{},
		ShowForm:        s.showForm,
		FormToggleLabel: dto.DistributionFormOpen,
		Draft:           s.draft,
		FieldErrors:     copyErrors(s.fieldErrors),
		Banner:          s.banner,
		TeacherOptions:  []dto.Option{},
		TypeOptions:     models.DistributionTypeOptions(),
	}
	if s.showForm {
		view.FormToggleLabel = dto.DistributionFormCancel
	}
	if !s.loaded {
		return view
	}
	if s.loadErr != "" {
		view.Error = s.loadErr
		return view
	}

	view.Summary = dto.DistributionSummary(len(s.distributions), len(s.teachers), len(s.topics))
	view.TeacherOptions = dto.TeacherOptions(s.teachers)
	names := dto.TeacherNames(s.teachers)
	for _, d := range s.distributions {
		row := dto.NewDistributionRow(d, names)
		row.Toggling = s.svc.Toggling(d.ID)
		view.Rows = append(view.Rows, row)
	}
	if len(view.Rows) == 0 {
		view.EmptyMessage = dto.DistributionsEmpty
	}
	return view
}
