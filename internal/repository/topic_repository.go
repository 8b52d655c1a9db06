package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
)

// TopicRepository accesses the topic bank on the remote API.
type TopicRepository struct {
	api apiClient
}

// NewTopicRepository constructs a repository instance.
func NewTopicRepository(api apiClient) *TopicRepository {
	return &TopicRepository{api: api}
}

// List returns every topic.
func (r *TopicRepository) List(ctx context.Context) ([]models.Topic, error) {
	var out []models.Topic
	if err := r.api.Get(ctx, "/user/listthemes", &out); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if out == nil {
		out = []models.Topic{}
	}
	return out, nil
}

// Create adds a topic to the bank.
func (r *TopicRepository) Create(ctx context.Context, req models.CreateTopicRequest) (*models.Topic, error) {
	var out models.CreateTopicResponse
	if err := r.api.Post(ctx, "/user/themes", req, &out); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return &out.Theme, nil
}
