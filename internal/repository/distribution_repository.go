package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
)

// DistributionRepository reads and writes distributions on the remote API.
type DistributionRepository struct {
	api apiClient
}

// NewDistributionRepository constructs a repository instance.
func NewDistributionRepository(api apiClient) *DistributionRepository {
	return &DistributionRepository{api: api}
}

// List returns every distribution.
func (r *DistributionRepository) List(ctx context.Context) ([]models.Distribution, error) {
	var out []models.Distribution
	if err := r.api.Get(ctx, "/user/distributions", &out); err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	if out == nil {
		out = []models.Distribution{}
	}
	return out, nil
}

// Create submits a new distribution and returns the stored record.
func (r *DistributionRepository) Create(ctx context.Context, req models.CreateDistributionRequest) (*models.Distribution, error) {
	var out models.Distribution
	if err := r.api.Post(ctx, "/user/distributions", req, &out); err != nil {
		return nil, fmt.Errorf("create distribution: %w", err)
	}
	return &out, nil
}

// UpdateStatus sets the status of one distribution.
func (r *DistributionRepository) UpdateStatus(ctx context.Context, id int64, status models.DistributionStatus) error {
	path := "/user/distributions/" + apiclient.PathID(id) + "/status"
	if err := r.api.Patch(ctx, path, models.UpdateDistributionStatusRequest{Status: status}, nil); err != nil {
		return fmt.Errorf("update distribution %d status: %w", id, err)
	}
	return nil
}
