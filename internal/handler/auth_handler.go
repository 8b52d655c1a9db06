package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/topic-distribution-admin/internal/middleware"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/response"
)

// DashboardRoute is where a successful login lands.
const DashboardRoute = "/dashboard"

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	IssueSession(user models.User) (string, *models.Identity, time.Time, error)
}

type sessionCloser interface {
	CloseSession(sessionID string)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service  authService
	sessions sessionCloser
	cookie   CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, sessions sessionCloser, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "user"
	}
	return &AuthHandler{service: svc, sessions: sessions, cookie: cookie}
}

// AuthForm godoc
// @Summary Auth screen
// @Description Describes the login/register form
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth [get]
func (h *AuthHandler) AuthForm(c *gin.Context) {
	if _, ok := middleware.IdentityFrom(c); ok && response.WantsHTML(c) {
		response.Redirect(c, DashboardRoute)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"mode":  "login",
		"modes": []string{"login", "register"},
		"roles": []models.UserRole{models.RoleStudent, models.RoleTeacher},
	})
}

// Login godoc
// @Summary Authenticate operator
// @Description Forwards credentials to the remote API and sets the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, service.AuthFailureMessage))
		return
	}

	user, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, identity, expiresAt, err := h.service.IssueSession(*user)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setCookie(c, token, int(time.Until(expiresAt).Seconds()))
	c.Set(middleware.ContextIdentityKey, identity)

	response.JSON(c, http.StatusOK, gin.H{"user": identity.User, "redirect": DashboardRoute})
}

// Register godoc
// @Summary Register account
// @Description Creates an account on the remote API; the form returns to login mode
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Register payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, service.AuthFailureMessage))
		return
	}

	message, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": message, "mode": "login"})
}

// Logout godoc
// @Summary Logout
// @Description Clears the session cookie and closes every screen of the session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if identity, ok := middleware.IdentityFrom(c); ok && h.sessions != nil {
		h.sessions.CloseSession(identity.SessionID)
	}
	h.setCookie(c, "", -1)
	response.Redirect(c, middleware.AuthRoute)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
