package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
)

// StudentRepository accesses students on the remote API.
type StudentRepository struct {
	api apiClient
}

// NewStudentRepository constructs a repository instance.
func NewStudentRepository(api apiClient) *StudentRepository {
	return &StudentRepository{api: api}
}

// List returns every student.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	var out models.StudentList
	if err := r.api.Get(ctx, "/user/get_students", &out); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if out.Students == nil {
		out.Students = []models.Student{}
	}
	return out.Students, nil
}

// Update replaces the editable fields of a student.
func (r *StudentRepository) Update(ctx context.Context, userID int64, draft models.StudentDraft) error {
	if err := r.api.Put(ctx, "/user/update_student/"+apiclient.PathID(userID), draft, nil); err != nil {
		return fmt.Errorf("update student %d: %w", userID, err)
	}
	return nil
}
