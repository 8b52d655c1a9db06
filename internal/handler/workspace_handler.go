package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/topic-distribution-admin/internal/middleware"
	"github.com/noah-isme/topic-distribution-admin/internal/screen"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/response"
)

type loader interface {
	Load(ctx context.Context) error
}

type fieldSetter interface {
	SetField(name, value string) error
}

type submitter interface {
	Submit(ctx context.Context) error
}

type rowEditor interface {
	BeginEdit(id int64) error
	CancelEdit() error
	Save(ctx context.Context) error
}

type exportService interface {
	ExportDistributions(ctx context.Context, format string) (*service.ExportResult, error)
}

// FieldUpdate is one draft edit.
type FieldUpdate struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// FormVisibility shows or hides the creation form.
type FormVisibility struct {
	Visible bool `json:"visible"`
}

// WorkspaceHandler exposes the server-side screens.
type WorkspaceHandler struct {
	registry *screen.Registry
	exports  exportService
}

// NewWorkspaceHandler constructs the handler.
func NewWorkspaceHandler(registry *screen.Registry, exports exportService) *WorkspaceHandler {
	return &WorkspaceHandler{registry: registry, exports: exports}
}

// Open godoc
// @Summary Open a screen
// @Description Replaces the session's active screen and loads its data
// @Tags Workspace
// @Produce json
// @Param kind path string true "main|topics|students|teachers|distribution"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workspace/screens/{kind} [post]
func (h *WorkspaceHandler) Open(c *gin.Context) {
	kind, ok := screen.ParseKind(c.Param("kind"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown screen"))
		return
	}
	s, err := h.open(c, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

func (h *WorkspaceHandler) open(c *gin.Context, kind screen.Kind) (screen.Screen, error) {
	identity, err := identityFromContext(c)
	if err != nil {
		return nil, err
	}
	s, err := h.registry.Open(identity.SessionID, kind, identity.User)
	if err != nil {
		return nil, err
	}
	if l, ok := s.(loader); ok {
		if err := l.Load(c.Request.Context()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get godoc
// @Summary Render a screen
// @Tags Workspace
// @Produce json
// @Param kind path string true "Screen kind"
// @Param screenId path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /workspace/screens/{kind}/{screenId} [get]
func (h *WorkspaceHandler) Get(c *gin.Context) {
	s, err := h.current(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// Reload godoc
// @Summary Fetch a screen's data again
// @Tags Workspace
// @Produce json
// @Param kind path string true "Screen kind"
// @Param screenId path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Router /workspace/screens/{kind}/{screenId}/reload [post]
func (h *WorkspaceHandler) Reload(c *gin.Context) {
	s, err := h.current(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	l, ok := s.(loader)
	if !ok {
		response.Error(c, unsupported())
		return
	}
	if err := l.Load(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// SetField godoc
// @Summary Edit one draft field
// @Tags Workspace
// @Accept json
// @Produce json
// @Param kind path string true "Screen kind"
// @Param screenId path string true "Screen ID"
// @Param payload body FieldUpdate true "Field"
// @Success 200 {object} response.Envelope
// @Router /workspace/screens/{kind}/{screenId}/draft [patch]
func (h *WorkspaceHandler) SetField(c *gin.Context) {
	s, err := h.current(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	setter, ok := s.(fieldSetter)
	if !ok {
		response.Error(c, unsupported())
		return
	}
	var req FieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid field payload"))
		return
	}
	if err := setter.SetField(req.Field, req.Value); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// Form godoc
// @Summary Show or hide the distribution form
// @Tags Workspace
// @Accept json
// @Produce json
// @Param screenId path string true "Screen ID"
// @Param payload body FormVisibility true "Visibility"
// @Success 200 {object} response.Envelope
// @Param kind path string true "distribution"
// @Router /workspace/screens/{kind}/{screenId}/form [post]
func (h *WorkspaceHandler) Form(c *gin.Context) {
	s, err := h.distribution(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req FormVisibility
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid form payload"))
		return
	}
	if err := s.SetFormVisible(req.Visible); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// Submit godoc
// @Summary Submit the creation form
// @Description Field errors and remote failures are part of the returned view
// @Tags Workspace
// @Produce json
// @Param kind path string true "topics|distribution"
// @Param screenId path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Router /workspace/screens/{kind}/{screenId}/submit [post]
func (h *WorkspaceHandler) Submit(c *gin.Context) {
	s, err := h.current(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sub, ok := s.(submitter)
	if !ok {
		response.Error(c, unsupported())
		return
	}
	if err := sub.Submit(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// Toggle godoc
// @Summary Toggle a distribution status
// @Tags Workspace
// @Produce json
// @Param screenId path string true "Screen ID"
// @Param id path int true "Distribution ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Param kind path string true "distribution"
// @Router /workspace/screens/{kind}/{screenId}/rows/{id}/toggle [post]
func (h *WorkspaceHandler) Toggle(c *gin.Context) {
	s, err := h.distribution(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := rowID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := s.Toggle(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// BeginEdit godoc
// @Summary Enter edit mode for a row
// @Tags Workspace
// @Produce json
// @Param kind path string true "students|teachers"
// @Param screenId path string true "Screen ID"
// @Param id path int true "Row ID"
// @Success 200 {object} response.Envelope
// @Router /workspace/screens/{kind}/{screenId}/rows/{id}/edit [post]
func (h *WorkspaceHandler) BeginEdit(c *gin.Context) {
	editor, s, err := h.editor(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := rowID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := editor.BeginEdit(id); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// CancelEdit godoc
// @Summary Leave edit mode
// @Tags Workspace
// @Produce json
// @Param kind path string true "students|teachers"
// @Param screenId path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Router /workspace/screens/{kind}/{screenId}/edit [delete]
func (h *WorkspaceHandler) CancelEdit(c *gin.Context) {
	editor, s, err := h.editor(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := editor.CancelEdit(); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// Save godoc
// @Summary Save the edited row
// @Tags Workspace
// @Produce json
// @Param kind path string true "students|teachers"
// @Param screenId path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Router /workspace/screens/{kind}/{screenId}/save [post]
func (h *WorkspaceHandler) Save(c *gin.Context) {
	editor, s, err := h.editor(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := editor.Save(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// DismissNotice godoc
// @Summary Hide the topic bank notice
// @Tags Workspace
// @Produce json
// @Param screenId path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Param kind path string true "topics"
// @Router /workspace/screens/{kind}/{screenId}/notice [delete]
func (h *WorkspaceHandler) DismissNotice(c *gin.Context) {
	s, err := lookup[*screen.TopicBank](h, c, screen.KindTopics)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := s.DismissNotice(); err != nil {
		response.Error(c, err)
		return
	}
	h.render(c, s)
}

// Nav godoc
// @Summary Navigation shell
// @Tags Workspace
// @Produce json
// @Param active query string false "Active screen kind"
// @Success 200 {object} response.Envelope
// @Router /workspace/nav [get]
func (h *WorkspaceHandler) Nav(c *gin.Context) {
	active, _ := screen.ParseKind(c.Query("active"))
	response.JSON(c, http.StatusOK, screen.Nav(active))
}

// ExportDistributions godoc
// @Summary Export the distribution table
// @Tags Workspace
// @Produce octet-stream
// @Param format query string false "csv|pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /workspace/distributions/export [get]
func (h *WorkspaceHandler) ExportDistributions(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrExportsDisabled)
		return
	}
	format := strings.TrimSpace(c.DefaultQuery("format", string(service.ExportCSV)))
	result, err := h.exports.ExportDistributions(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

func (h *WorkspaceHandler) current(c *gin.Context) (screen.Screen, error) {
	identity, err := identityFromContext(c)
	if err != nil {
		return nil, err
	}
	kind, ok := screen.ParseKind(c.Param("kind"))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown screen")
	}
	return h.registry.Current(identity.SessionID, kind, c.Param("screenId"))
}

func (h *WorkspaceHandler) distribution(c *gin.Context) (*screen.DistributionManager, error) {
	return lookup[*screen.DistributionManager](h, c, screen.KindDistribution)
}

// lookup resolves a route that only one kind of screen supports.
func lookup[T screen.Screen](h *WorkspaceHandler, c *gin.Context, kind screen.Kind) (T, error) {
	var zero T
	identity, err := identityFromContext(c)
	if err != nil {
		return zero, err
	}
	if requested, ok := screen.ParseKind(c.Param("kind")); !ok || requested != kind {
		return zero, unsupported()
	}
	return screen.Lookup[T](h.registry, identity.SessionID, kind, c.Param("screenId"))
}

func (h *WorkspaceHandler) editor(c *gin.Context) (rowEditor, screen.Screen, error) {
	s, err := h.current(c)
	if err != nil {
		return nil, nil, err
	}
	editor, ok := s.(rowEditor)
	if !ok {
		return nil, nil, unsupported()
	}
	return editor, s, nil
}

func (h *WorkspaceHandler) render(c *gin.Context, s screen.Screen) {
	middleware.SetScreenID(c, s.ID())
	response.JSON(c, http.StatusOK, renderView(s), middleware.ExtractMeta(c))
}

func renderView(s screen.Screen) interface{} {
	switch v := s.(type) {
	case *screen.DistributionManager:
		return v.Render()
	case *screen.StudentsList:
		return v.Render()
	case *screen.TeachersList:
		return v.Render()
	case *screen.TopicBank:
		return v.Render()
	case *screen.DashboardScreen:
		return v.Render()
	default:
		return nil
	}
}

func rowID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}

func unsupported() error {
	return appErrors.Clone(appErrors.ErrNotFound, "operation not supported by this screen")
}
