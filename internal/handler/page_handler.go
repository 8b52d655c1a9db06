package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/topic-distribution-admin/internal/screen"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/response"
)

// PageView pairs the navigation shell with the opened screen.
type PageView struct {
	Nav    interface{} `json:"nav"`
	Screen interface{} `json:"screen"`
}

// PageHandler serves the console routes under /dashboard.
type PageHandler struct {
	workspace *WorkspaceHandler
	apiPrefix string
}

// NewPageHandler constructs the handler.
func NewPageHandler(workspace *WorkspaceHandler, apiPrefix string) *PageHandler {
	return &PageHandler{workspace: workspace, apiPrefix: apiPrefix}
}

// Index godoc
// @Summary Console index
// @Description Opens the main page
// @Tags Pages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *PageHandler) Index(c *gin.Context) {
	h.show(c, screen.KindMain)
}

// Section godoc
// @Summary Console section
// @Description Opens the section's screen; unknown sections redirect to /dashboard
// @Tags Pages
// @Produce json
// @Param section path string true "main|topics|students|teachers|distribution"
// @Success 200 {object} response.Envelope
// @Success 302 {string} string "redirect"
// @Router /dashboard/{section} [get]
func (h *PageHandler) Section(c *gin.Context) {
	kind, ok := screen.ParseKind(c.Param("section"))
	if !ok {
		c.Redirect(http.StatusFound, DashboardRoute)
		return
	}
	h.show(c, kind)
}

// NotFound sends stray browser routes to the console and answers stray API
// calls with 404.
func (h *PageHandler) NotFound(c *gin.Context) {
	if h.apiPrefix != "" && strings.HasPrefix(c.Request.URL.Path, h.apiPrefix) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
		return
	}
	c.Redirect(http.StatusFound, DashboardRoute)
}

func (h *PageHandler) show(c *gin.Context, kind screen.Kind) {
	s, err := h.workspace.open(c, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, PageView{Nav: screen.Nav(kind), Screen: renderView(s)})
}
