package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/topic-distribution-admin/internal/middleware"
	"github.com/noah-isme/topic-distribution-admin/internal/models"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

func identityFromContext(c *gin.Context) (*models.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return identity, nil
}
