package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
)

// AuthRepository forwards credentials to the remote API.
type AuthRepository struct {
	api apiClient
}

// NewAuthRepository constructs a repository instance.
func NewAuthRepository(api apiClient) *AuthRepository {
	return &AuthRepository{api: api}
}

// Login verifies credentials and returns the account.
func (r *AuthRepository) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := r.api.Post(ctx, "/auth/login", req, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Register creates an account.
func (r *AuthRepository) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var out models.RegisterResponse
	if err := r.api.Post(ctx, "/auth/register", req, &out); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}
