package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/response"
)

// ContextIdentityKey is the gin context key storing the session identity.
const ContextIdentityKey = "identity"

// AuthRoute is where unauthenticated browser navigations are sent.
const AuthRoute = "/auth"

type sessionParser interface {
	ParseSession(token string) (*models.Identity, error)
}

// Session requires a valid session cookie. Browser navigations without one
// are redirected to the auth screen; API calls get 401.
func Session(parser sessionParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := readIdentity(c, parser, cookieName)
		if err != nil {
			if response.WantsHTML(c) {
				response.Redirect(c, AuthRoute)
			} else {
				response.Error(c, err)
			}
			c.Abort()
			return
		}
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// OptionalSession attaches the identity when a valid cookie is present but
// does not block.
func OptionalSession(parser sessionParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := readIdentity(c, parser, cookieName); err == nil {
			c.Set(ContextIdentityKey, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the identity placed by Session.
func IdentityFrom(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*models.Identity)
	return identity, ok && identity != nil
}

func readIdentity(c *gin.Context, parser sessionParser, cookieName string) (*models.Identity, error) {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return nil, appErrors.ErrUnauthorized
	}
	return parser.ParseSession(token)
}
