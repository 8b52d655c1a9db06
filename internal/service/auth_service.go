package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/logger"
)

// AuthFailureMessage is shown when the remote API gives no message.
const AuthFailureMessage = "Ошибка"

type authRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
}

// AuthConfig defines configuration for the session record.
type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
	Issuer        string
}

// AuthService verifies credentials against the remote API and signs the
// session record kept in the browser.
type AuthService struct {
	repo      authRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "topic-distribution-admin"
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login forwards credentials and returns the remote account.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		logger.ForContext(ctx, s.logger).Info("login rejected", zap.String("login", req.Login), zap.String("reason", apiclient.Reason(err)))
		return nil, authFailure(err)
	}
	logger.ForContext(ctx, s.logger).Info("login succeeded", zap.Int64("user_id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	return &resp.User, nil
}

// Register creates an account and returns the remote confirmation text.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, AuthFailureMessage)
	}
	resp, err := s.repo.Register(ctx, req)
	if err != nil {
		return "", authFailure(err)
	}
	return resp.Message, nil
}

// IssueSession signs the session record for user.
func (s *AuthService) IssueSession(user models.User) (string, *models.Identity, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.SessionTTL)
	sessionID := uuid.NewString()
	claims := &models.SessionClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return "", nil, time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session")
	}
	return signed, &models.Identity{SessionID: sessionID, User: user}, expiresAt, nil
}

// ParseSession validates a session record and returns its identity.
func (s *AuthService) ParseSession(tokenString string) (*models.Identity, error) {
	if tokenString == "" {
		return nil, appErrors.ErrUnauthorized
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SessionSecret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}
	return &models.Identity{SessionID: claims.ID, User: claims.User}, nil
}

// authFailure keeps the upstream status and surfaces the remote message.
func authFailure(err error) error {
	typed := appErrors.FromError(err)
	return appErrors.Wrap(err, typed.Code, typed.Status, apiclient.MessageOr(err, AuthFailureMessage))
}
