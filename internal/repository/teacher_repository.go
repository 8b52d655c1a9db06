package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
)

// TeacherRepository accesses teachers on the remote API.
type TeacherRepository struct {
	api apiClient
}

// NewTeacherRepository constructs a repository instance.
func NewTeacherRepository(api apiClient) *TeacherRepository {
	return &TeacherRepository{api: api}
}

// List returns every teacher.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	var out []models.Teacher
	if err := r.api.Get(ctx, "/user/teachers", &out); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	if out == nil {
		out = []models.Teacher{}
	}
	return out, nil
}

// Update replaces the editable fields of a teacher.
func (r *TeacherRepository) Update(ctx context.Context, id int64, req models.UpdateTeacherRequest) error {
	if err := r.api.Put(ctx, "/user/update_teacher/"+apiclient.PathID(id), req, nil); err != nil {
		return fmt.Errorf("update teacher %d: %w", id, err)
	}
	return nil
}
